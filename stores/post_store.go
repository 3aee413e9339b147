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

// MongoPostStore implements PostStore on the posts collection.
type MongoPostStore struct {
	col *mongo.Collection
}

// NewMongoPostStore creates a post store bound to the given database handle.
func NewMongoPostStore(db *mongo.Database) *MongoPostStore {
	return &MongoPostStore{col: db.Collection("posts")}
}

func (s *MongoPostStore) Create(ctx context.Context, post *models.Post) error {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Voters == nil {
		post.Voters = []models.VoteRecord{}
	}
	if post.CommentIDs == nil {
		post.CommentIDs = []primitive.ObjectID{}
	}
	res, err := s.col.InsertOne(ctx, post)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	post.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *MongoPostStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return &post, nil
}

func (s *MongoPostStore) ListAll(ctx context.Context) ([]models.Post, error) {
	return s.list(ctx, bson.M{})
}

func (s *MongoPostStore) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Post, error) {
	return s.list(ctx, bson.M{"author": authorID})
}

func (s *MongoPostStore) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"title":     post.Title,
		"content":   post.Content,
		"votes":     post.Votes,
		"voters":    post.Voters,
		"comments":  post.CommentIDs,
		"updatedAt": post.UpdatedAt,
	}}
	res, err := s.col.UpdateByID(ctx, post.ID, update)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoPostStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoPostStore) PushComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	return s.updateCommentList(ctx, postID, bson.M{"$push": bson.M{"comments": commentID}})
}

func (s *MongoPostStore) PullComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	return s.updateCommentList(ctx, postID, bson.M{"$pull": bson.M{"comments": commentID}})
}

func (s *MongoPostStore) list(ctx context.Context, filter bson.M) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

func (s *MongoPostStore) updateCommentList(ctx context.Context, postID primitive.ObjectID, update bson.M) error {
	update["$set"] = bson.M{"updatedAt": time.Now()}
	res, err := s.col.UpdateByID(ctx, postID, update)
	if err != nil {
		return fmt.Errorf("update post comment list: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
