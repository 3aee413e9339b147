package controllers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (e *testEnv) createComment(t *testing.T, token, postID, content string) commentResponse {
	t.Helper()

	w := e.do(t, "POST", "/api/comments/"+postID, token, gin.H{"content": content})
	if w.Code != http.StatusCreated {
		t.Fatalf("create comment: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var c commentResponse
	decodeBody(t, w, &c)
	return c
}

func TestCreateComment(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice", "alice@example.com")
	post := env.createPost(t, alice.Token, "threaded", "content")

	c := env.createComment(t, alice.Token, post.ID, "nice post")
	if c.PostID != post.ID {
		t.Fatalf("comment bound to wrong post: %s != %s", c.PostID, post.ID)
	}
	if c.Author == nil || c.Author.Username != "alice" {
		t.Fatalf("author not populated: %+v", c.Author)
	}

	// The comment shows up on the post detail, oldest first.
	env.createComment(t, alice.Token, post.ID, "second reply")
	w := env.do(t, "GET", "/api/posts/"+post.ID, "", nil)
	var full postResponse
	decodeBody(t, w, &full)
	if len(full.Comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(full.Comments))
	}
	if full.Comments[0].Content != "nice post" || full.Comments[1].Content != "second reply" {
		t.Fatalf("wrong comment order: %+v", full.Comments)
	}
}

func TestCreateCommentValidation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice", "alice@example.com")
	post := env.createPost(t, alice.Token, "threaded", "content")

	cases := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", http.StatusBadRequest},
		{"whitespace only", "   \n\t ", http.StatusBadRequest},
		{"markup only", "<script>alert(1)</script>", http.StatusBadRequest},
		{"too long", strings.Repeat("a", 10001), http.StatusBadRequest},
		{"at the limit", strings.Repeat("a", 10000), http.StatusCreated},
	}
	for _, tc := range cases {
		w := env.do(t, "POST", "/api/comments/"+post.ID, alice.Token, gin.H{"content": tc.content})
		if w.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d: %s", tc.name, tc.want, w.Code, w.Body.String())
		}
	}
}

func TestCreateCommentMissingPost(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice", "alice@example.com")

	w := env.do(t, "POST", "/api/comments/"+primitive.NewObjectID().Hex(), alice.Token, gin.H{"content": "orphan"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w = env.do(t, "POST", "/api/comments/not-a-hex-id", alice.Token, gin.H{"content": "orphan"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("malformed id: expected 404, got %d", w.Code)
	}
}

func TestDeleteCommentOwnership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice", "alice@example.com")
	bob := env.register(t, "bob", "bob@example.com")
	carol := env.register(t, "carol", "carol@example.com")

	post := env.createPost(t, alice.Token, "threaded", "content")
	c := env.createComment(t, bob.Token, post.ID, "bob's reply")

	// An unrelated user cannot delete it.
	w := env.do(t, "DELETE", "/api/comments/"+c.ID, carol.Token, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("unrelated delete: expected 403, got %d", w.Code)
	}

	// The comment author can.
	w = env.do(t, "DELETE", "/api/comments/"+c.ID, bob.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("author delete: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// So can the post author for another comment.
	c2 := env.createComment(t, bob.Token, post.ID, "another reply")
	w = env.do(t, "DELETE", "/api/comments/"+c2.ID, alice.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("post author delete: expected 200, got %d", w.Code)
	}

	// Both ids were pulled from the post's comment list.
	postID, _ := primitive.ObjectIDFromHex(post.ID)
	stored, err := env.posts.FindByID(context.Background(), postID)
	if err != nil {
		t.Fatalf("load post: %v", err)
	}
	if len(stored.CommentIDs) != 0 {
		t.Fatalf("comment ids not pulled: %v", stored.CommentIDs)
	}
}

func TestVoteComment(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice", "alice@example.com")
	bob := env.register(t, "bob", "bob@example.com")

	post := env.createPost(t, alice.Token, "threaded", "content")
	c := env.createComment(t, alice.Token, post.ID, "reply")

	vote := func(token string, dir int) commentResponse {
		t.Helper()
		w := env.do(t, "POST", "/api/comments/"+c.ID+"/vote", token, gin.H{"vote": dir})
		if w.Code != http.StatusOK {
			t.Fatalf("vote %d: expected 200, got %d: %s", dir, w.Code, w.Body.String())
		}
		var out commentResponse
		decodeBody(t, w, &out)
		return out
	}

	if got := vote(alice.Token, -1); got.Votes != -1 {
		t.Fatalf("after -1: want -1, got %d", got.Votes)
	}
	if got := vote(bob.Token, -1); got.Votes != -2 {
		t.Fatalf("after bob -1: want -2, got %d", got.Votes)
	}
	if got := vote(alice.Token, 1); got.Votes != 0 {
		t.Fatalf("after flip: want 0, got %d", got.Votes)
	}

	w := env.do(t, "POST", "/api/comments/"+c.ID+"/vote", bob.Token, gin.H{"vote": 5})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid direction: expected 400, got %d", w.Code)
	}
}
