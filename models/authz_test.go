package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPostCanMutate(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()
	post := &Post{AuthorID: owner}

	if !post.CanMutate(owner) {
		t.Fatalf("owner must be allowed to mutate")
	}
	if post.CanMutate(other) {
		t.Fatalf("non-owner must not be allowed to mutate")
	}
}

func TestCommentCanDelete(t *testing.T) {
	commentAuthor := primitive.NewObjectID()
	postAuthor := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	post := &Post{AuthorID: postAuthor}
	comment := &Comment{AuthorID: commentAuthor, PostID: post.ID}

	if !comment.CanDelete(commentAuthor, post) {
		t.Fatalf("comment author must be allowed to delete")
	}
	if !comment.CanDelete(postAuthor, post) {
		t.Fatalf("post author must be allowed to delete")
	}
	if comment.CanDelete(stranger, post) {
		t.Fatalf("third party must not be allowed to delete")
	}
}

func TestCommentCanDeleteWithoutParent(t *testing.T) {
	commentAuthor := primitive.NewObjectID()
	comment := &Comment{AuthorID: commentAuthor}

	if !comment.CanDelete(commentAuthor, nil) {
		t.Fatalf("comment author must be allowed even when the parent is gone")
	}
	if comment.CanDelete(primitive.NewObjectID(), nil) {
		t.Fatalf("others must be denied when the parent is gone")
	}
}
