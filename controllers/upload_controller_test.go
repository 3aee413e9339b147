package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func multipartUpload(t *testing.T, field, filename string, size int) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(bytes.Repeat([]byte("x"), size)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func (e *testEnv) doUpload(t *testing.T, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("POST", "/api/upload/profile-picture", body)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestUploadRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	body, ct := multipartUpload(t, "profilePicture", "avatar.png", 10)
	w := env.doUpload(t, "", body, ct)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestUploadRejectsMissingFile(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice", "alice@example.com")

	body, ct := multipartUpload(t, "wrongField", "avatar.png", 10)
	w := env.doUpload(t, alice.Token, body, ct)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice", "alice@example.com")

	body, ct := multipartUpload(t, "profilePicture", "huge.png", maxProfilePictureSize+1)
	w := env.doUpload(t, alice.Token, body, ct)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "5MB") {
		t.Fatalf("unexpected message: %s", w.Body.String())
	}
}
