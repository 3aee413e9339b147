package controllers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/africandeluxe/RedditClone2-Backend/models"
	"github.com/africandeluxe/RedditClone2-Backend/stores"
)

// attachPostAuthors batch-fetches the authors of the given posts and attaches
// their summaries. Referential population lives here instead of in the store
// so every handler returns the same denormalized shape.
func attachPostAuthors(ctx context.Context, users stores.UserStore, posts []models.Post) error {
	ids := make([]primitive.ObjectID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.AuthorID)
	}
	summaries, err := authorSummaries(ctx, users, ids)
	if err != nil {
		return err
	}
	for i := range posts {
		if s, ok := summaries[posts[i].AuthorID]; ok {
			posts[i].Author = &s
		}
	}
	return nil
}

// attachCommentAuthors does the same for comments.
func attachCommentAuthors(ctx context.Context, users stores.UserStore, comments []models.Comment) error {
	ids := make([]primitive.ObjectID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	summaries, err := authorSummaries(ctx, users, ids)
	if err != nil {
		return err
	}
	for i := range comments {
		if s, ok := summaries[comments[i].AuthorID]; ok {
			comments[i].Author = &s
		}
	}
	return nil
}

func authorSummaries(ctx context.Context, users stores.UserStore, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	unique := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}

	found, err := users.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	summaries := make(map[primitive.ObjectID]models.UserSummary, len(found))
	for _, u := range found {
		summaries[u.ID] = u.Summary()
	}
	return summaries, nil
}
