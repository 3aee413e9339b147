package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/africandeluxe/RedditClone2-Backend/middleware"
)

// testEnv wires the handlers against in-memory stores with the same paths the
// production router uses. Cache and object storage are nil.
type testEnv struct {
	router   *gin.Engine
	users    *memUserStore
	posts    *memPostStore
	comments *memCommentStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:    newMemUserStore(),
		posts:    newMemPostStore(),
		comments: newMemCommentStore(),
	}

	auth := NewAuthController(env.users)
	posts := NewPostController(env.posts, env.comments, env.users, nil)
	comments := NewCommentController(env.comments, env.posts, env.users, nil)
	upload := NewUploadController(env.users, nil)
	authRequired := middleware.AuthRequired(env.users)

	r := gin.New()
	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", auth.Register)
	authGroup.POST("/login", auth.Login)
	authGroup.POST("/refresh", auth.Refresh)
	authGroup.GET("/me", authRequired, auth.Me)
	authGroup.PUT("/update-username", authRequired, auth.UpdateUsername)

	postsGroup := api.Group("/posts")
	postsGroup.GET("", posts.ListPosts)
	postsGroup.GET("/my-posts", authRequired, posts.ListMyPosts)
	postsGroup.GET("/:id", posts.GetPost)
	postsGroup.POST("", authRequired, posts.CreatePost)
	postsGroup.PUT("/:id", authRequired, posts.UpdatePost)
	postsGroup.DELETE("/:id", authRequired, posts.DeletePost)
	postsGroup.POST("/:id/vote", authRequired, posts.VotePost)

	commentsGroup := api.Group("/comments")
	commentsGroup.POST("/:id", authRequired, comments.CreateComment)
	commentsGroup.DELETE("/:id", authRequired, comments.DeleteComment)
	commentsGroup.POST("/:id/vote", authRequired, comments.VoteComment)

	api.POST("/upload/profile-picture", authRequired, upload.ProfilePicture)

	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type session struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (e *testEnv) register(t *testing.T, username, email string) session {
	t.Helper()

	w := e.do(t, "POST", "/api/auth/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": "secret123",
	})
	if w.Code != 201 {
		t.Fatalf("register %s: expected 201, got %d: %s", username, w.Code, w.Body.String())
	}
	var s session
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return s
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
}
