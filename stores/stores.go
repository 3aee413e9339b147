// Package stores contains the persistence collaborators for users, posts and
// comments. Handlers depend on the interfaces; the Mongo implementations are
// constructed once in main with an injected database handle.
package stores

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/africandeluxe/RedditClone2-Backend/models"
)

var (
	// ErrNotFound is returned when the referenced document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate document")
)

// UserStore persists users.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	UpdateUsername(ctx context.Context, id primitive.ObjectID, username string) error
	SetProfilePicture(ctx context.Context, id primitive.ObjectID, url string) error
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
}

// PostStore persists posts, including their embedded voter records and the
// ordered list of comment references.
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	ListAll(ctx context.Context) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	PushComment(ctx context.Context, postID, commentID primitive.ObjectID) error
	PullComment(ctx context.Context, postID, commentID primitive.ObjectID) error
}

// CommentStore persists comments.
type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	FindByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) error
}
