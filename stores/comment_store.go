package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/africandeluxe/RedditClone2-Backend/models"
)

// MongoCommentStore implements CommentStore on the comments collection.
type MongoCommentStore struct {
	col *mongo.Collection
}

// NewMongoCommentStore creates a comment store bound to the given database handle.
func NewMongoCommentStore(db *mongo.Database) *MongoCommentStore {
	return &MongoCommentStore{col: db.Collection("comments")}
}

func (s *MongoCommentStore) Create(ctx context.Context, comment *models.Comment) error {
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	if comment.Voters == nil {
		comment.Voters = []models.VoteRecord{}
	}
	res, err := s.col.InsertOne(ctx, comment)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	comment.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *MongoCommentStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return &comment, nil
}

func (s *MongoCommentStore) FindByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := s.col.Find(ctx, bson.M{"post": postID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer cur.Close(ctx)

	var comments []models.Comment
	if err := cur.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}

func (s *MongoCommentStore) Update(ctx context.Context, comment *models.Comment) error {
	comment.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"votes":     comment.Votes,
		"voters":    comment.Voters,
		"updatedAt": comment.UpdatedAt,
	}}
	res, err := s.col.UpdateByID(ctx, comment.ID, update)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoCommentStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoCommentStore) DeleteByPost(ctx context.Context, postID primitive.ObjectID) error {
	if _, err := s.col.DeleteMany(ctx, bson.M{"post": postID}); err != nil {
		return fmt.Errorf("delete comments by post: %w", err)
	}
	return nil
}
