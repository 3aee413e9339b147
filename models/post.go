package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a forum post created by a user. Voters and the comment id
// list are embedded in the document; the Author and Comments fields are
// populated into responses only.
type Post struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title      string               `bson:"title" json:"title"`
	Content    string               `bson:"content" json:"content"`
	AuthorID   primitive.ObjectID   `bson:"author" json:"-"`
	Votes      int                  `bson:"votes" json:"votes"`
	Voters     []VoteRecord         `bson:"voters" json:"-"`
	CommentIDs []primitive.ObjectID `bson:"comments" json:"-"`
	CreatedAt  time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time            `bson:"updatedAt" json:"updatedAt"`

	Author   *UserSummary `bson:"-" json:"author,omitempty"`
	Comments []Comment    `bson:"-" json:"comments,omitempty"`
}

// CanMutate reports whether the user may update or delete this post.
func (p *Post) CanMutate(userID primitive.ObjectID) bool {
	return p.AuthorID == userID
}
