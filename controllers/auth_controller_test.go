package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRegisterIssuesSession(t *testing.T) {
	env := newTestEnv(t)

	s := env.register(t, "alice", "alice@example.com")
	if s.ID == "" || s.Token == "" || s.RefreshToken == "" {
		t.Fatalf("incomplete session: %+v", s)
	}
	if s.Username != "alice" || s.Email != "alice@example.com" {
		t.Fatalf("unexpected identity: %+v", s)
	}

	// The access token works immediately.
	w := env.do(t, "GET", "/api/auth/me", s.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", w.Code)
	}
	var me map[string]any
	decodeBody(t, w, &me)
	if _, leaked := me["password"]; leaked {
		t.Fatal("password hash leaked in /me response")
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body gin.H
	}{
		{"short username", gin.H{"username": "ab", "email": "a@b.com", "password": "secret123"}},
		{"bad email", gin.H{"username": "alice", "email": "nope", "password": "secret123"}},
		{"short password", gin.H{"username": "alice", "email": "a@b.com", "password": "12345"}},
		{"missing fields", gin.H{"username": "alice"}},
	}
	for _, tc := range cases {
		w := env.do(t, "POST", "/api/auth/register", "", tc.body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, w.Code)
		}
	}
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	cases := []struct {
		name string
		body gin.H
	}{
		{"same username", gin.H{"username": "alice", "email": "other@example.com", "password": "secret123"}},
		{"same email", gin.H{"username": "other", "email": "alice@example.com", "password": "secret123"}},
	}
	for _, tc := range cases {
		w := env.do(t, "POST", "/api/auth/register", "", tc.body)
		if w.Code != http.StatusConflict {
			t.Fatalf("%s: expected 409, got %d: %s", tc.name, w.Code, w.Body.String())
		}
	}
}

func TestLoginFailsIdentically(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	unknown := env.do(t, "POST", "/api/auth/login", "", gin.H{"email": "ghost@example.com", "password": "secret123"})
	wrong := env.do(t, "POST", "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "wrongpass"})

	if unknown.Code != http.StatusUnauthorized || wrong.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", unknown.Code, wrong.Code)
	}
	if unknown.Body.String() != wrong.Body.String() {
		t.Fatalf("unknown email and wrong password must fail identically: %q vs %q",
			unknown.Body.String(), wrong.Body.String())
	}
}

func TestLoginSucceeds(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "alice@example.com")

	w := env.do(t, "POST", "/api/auth/login", "", gin.H{"email": "Alice@Example.com", "password": "secret123"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var s session
	decodeBody(t, w, &s)
	if s.Token == "" || s.RefreshToken == "" {
		t.Fatalf("login did not issue a session pair: %+v", s)
	}
}

func TestRefreshExchangesToken(t *testing.T) {
	env := newTestEnv(t)
	s := env.register(t, "alice", "alice@example.com")

	w := env.do(t, "POST", "/api/auth/refresh", "", gin.H{"refreshToken": s.RefreshToken})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, w, &resp)
	if resp.Token == "" {
		t.Fatal("refresh returned no access token")
	}

	me := env.do(t, "GET", "/api/auth/me", resp.Token, nil)
	if me.Code != http.StatusOK {
		t.Fatalf("refreshed token rejected: %d", me.Code)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	env := newTestEnv(t)
	s := env.register(t, "alice", "alice@example.com")

	w := env.do(t, "POST", "/api/auth/refresh", "", gin.H{"refreshToken": s.Token})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("access token must not refresh: got %d", w.Code)
	}
}

func TestUpdateUsername(t *testing.T) {
	env := newTestEnv(t)
	s := env.register(t, "alice", "alice@example.com")
	env.register(t, "bob", "bob@example.com")

	taken := env.do(t, "PUT", "/api/auth/update-username", s.Token, gin.H{"username": "bob"})
	if taken.Code != http.StatusConflict {
		t.Fatalf("taken username: expected 409, got %d", taken.Code)
	}

	ok := env.do(t, "PUT", "/api/auth/update-username", s.Token, gin.H{"username": "alice2"})
	if ok.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", ok.Code, ok.Body.String())
	}

	me := env.do(t, "GET", "/api/auth/me", s.Token, nil)
	var user map[string]any
	decodeBody(t, me, &user)
	if user["username"] != "alice2" {
		t.Fatalf("username not persisted: %v", user["username"])
	}
}
