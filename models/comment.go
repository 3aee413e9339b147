package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxCommentLen bounds comment content length after trimming.
const MaxCommentLen = 10000

// Comment represents a reply to a post.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Content   string             `bson:"content" json:"content"`
	AuthorID  primitive.ObjectID `bson:"author" json:"-"`
	PostID    primitive.ObjectID `bson:"post" json:"postId"`
	Votes     int                `bson:"votes" json:"votes"`
	Voters    []VoteRecord       `bson:"voters" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Author *UserSummary `bson:"-" json:"author,omitempty"`
}

// CanDelete reports whether the user may delete this comment. Both the comment
// author and the parent post's author are allowed.
func (c *Comment) CanDelete(userID primitive.ObjectID, parent *Post) bool {
	if c.AuthorID == userID {
		return true
	}
	return parent != nil && parent.AuthorID == userID
}
