package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/africandeluxe/RedditClone2-Backend/middleware"
	"github.com/africandeluxe/RedditClone2-Backend/models"
	"github.com/africandeluxe/RedditClone2-Backend/stores"
	"github.com/africandeluxe/RedditClone2-Backend/utils"
)

const (
	postListCacheKey    = "cache:posts:list"
	postListCachePrefix = "cache:posts:"
	postDetailCachePfx  = "cache:post:detail:"
)

// PostController manages CRUD and voting for posts.
type PostController struct {
	posts    stores.PostStore
	comments stores.CommentStore
	users    stores.UserStore
	cache    *utils.Cache
}

// NewPostController creates a PostController. cache may be nil.
func NewPostController(posts stores.PostStore, comments stores.CommentStore, users stores.UserStore, cache *utils.Cache) *PostController {
	return &PostController{posts: posts, comments: comments, users: users, cache: cache}
}

// ListPosts returns all posts, newest first, with authors populated.
func (p *PostController) ListPosts(ctx *gin.Context) {
	if b, ok := p.cache.GetBytes(postListCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	posts, err := p.posts.ListAll(ctx.Request.Context())
	if err != nil {
		utils.ServerError(ctx)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	if err := attachPostAuthors(ctx.Request.Context(), p.users, posts); err != nil {
		utils.ServerError(ctx)
		return
	}

	p.cache.SetJSON(postListCacheKey, posts)
	ctx.JSON(http.StatusOK, posts)
}

// GetPost returns a single post with its populated comments.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, ok := parseObjectID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, "post not found")
		return
	}

	if b, ok := p.cache.GetBytes(postDetailCachePfx + id.Hex()); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	post, err := p.loadPopulatedPost(ctx, id)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, "post not found")
			return
		}
		utils.ServerError(ctx)
		return
	}

	p.cache.SetJSON(postDetailCachePfx+id.Hex(), post)
	ctx.JSON(http.StatusOK, post)
}

// ListMyPosts returns posts authored by the caller, newest first.
func (p *PostController) ListMyPosts(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "not authorized")
		return
	}

	posts, err := p.posts.ListByAuthor(ctx.Request.Context(), identity.ID)
	if err != nil {
		utils.ServerError(ctx)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	if err := attachPostAuthors(ctx.Request.Context(), p.users, posts); err != nil {
		utils.ServerError(ctx)
		return
	}
	ctx.JSON(http.StatusOK, posts)
}

// CreatePost creates a post owned by the caller.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "not authorized")
		return
	}

	title := utils.SanitizePlain(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, "title cannot be empty")
		return
	}

	post := models.Post{
		Title:    title,
		Content:  utils.Sanitize(req.Content),
		AuthorID: identity.ID,
	}
	if err := p.posts.Create(ctx.Request.Context(), &post); err != nil {
		utils.ServerError(ctx)
		return
	}
	if err := p.populateAuthor(ctx, &post); err != nil {
		utils.ServerError(ctx)
		return
	}

	p.cache.InvalidateByPrefix(postListCachePrefix)
	ctx.JSON(http.StatusCreated, post)
}

// UpdatePost applies a partial update; only supplied, non-empty fields overwrite.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	post, ok := p.requireOwnedPost(ctx, "you can only update your own posts")
	if !ok {
		return
	}

	if title := utils.SanitizePlain(strings.TrimSpace(req.Title)); title != "" {
		post.Title = title
	}
	if content := utils.Sanitize(req.Content); strings.TrimSpace(content) != "" {
		post.Content = content
	}

	if err := p.posts.Update(ctx.Request.Context(), post); err != nil {
		utils.ServerError(ctx)
		return
	}
	if err := p.populateAuthor(ctx, post); err != nil {
		utils.ServerError(ctx)
		return
	}

	p.cache.InvalidateByPrefix(postListCachePrefix)
	p.cache.InvalidateByPrefix(postDetailCachePfx + post.ID.Hex())
	ctx.JSON(http.StatusOK, post)
}

// DeletePost removes the post and cascade-deletes its comments.
func (p *PostController) DeletePost(ctx *gin.Context) {
	post, ok := p.requireOwnedPost(ctx, "you can only delete your own posts")
	if !ok {
		return
	}

	if err := p.comments.DeleteByPost(ctx.Request.Context(), post.ID); err != nil {
		utils.ServerError(ctx)
		return
	}
	if err := p.posts.Delete(ctx.Request.Context(), post.ID); err != nil && !errors.Is(err, stores.ErrNotFound) {
		utils.ServerError(ctx)
		return
	}

	p.cache.InvalidateByPrefix(postListCachePrefix)
	p.cache.InvalidateByPrefix(postDetailCachePfx + post.ID.Hex())
	ctx.JSON(http.StatusOK, gin.H{"message": "post removed"})
}

// VotePost applies the caller's vote to the post.
func (p *PostController) VotePost(ctx *gin.Context) {
	var req struct {
		Vote int `json:"vote" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid vote")
		return
	}

	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "not authorized")
		return
	}

	id, ok := parseObjectID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, "post not found")
		return
	}

	post, err := p.posts.FindByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, "post not found")
			return
		}
		utils.ServerError(ctx)
		return
	}

	voters, tally, err := models.ApplyVote(post.Voters, identity.ID, req.Vote)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid vote")
		return
	}
	post.Voters = voters
	post.Votes = tally

	if err := p.posts.Update(ctx.Request.Context(), post); err != nil {
		utils.ServerError(ctx)
		return
	}
	if err := p.populateAuthor(ctx, post); err != nil {
		utils.ServerError(ctx)
		return
	}

	p.cache.InvalidateByPrefix(postListCachePrefix)
	p.cache.InvalidateByPrefix(postDetailCachePfx + post.ID.Hex())
	ctx.JSON(http.StatusOK, post)
}

// requireOwnedPost loads the post from the path id and enforces the owner-only
// policy. It has already written the error response when ok is false.
func (p *PostController) requireOwnedPost(ctx *gin.Context, forbiddenMsg string) (*models.Post, bool) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "not authorized")
		return nil, false
	}

	id, ok := parseObjectID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, "post not found")
		return nil, false
	}

	post, err := p.posts.FindByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, "post not found")
			return nil, false
		}
		utils.ServerError(ctx)
		return nil, false
	}

	if !post.CanMutate(identity.ID) {
		utils.Error(ctx, http.StatusForbidden, forbiddenMsg)
		return nil, false
	}
	return post, true
}

func (p *PostController) loadPopulatedPost(ctx *gin.Context, id primitive.ObjectID) (*models.Post, error) {
	post, err := p.posts.FindByID(ctx.Request.Context(), id)
	if err != nil {
		return nil, err
	}

	comments, err := p.comments.FindByPost(ctx.Request.Context(), post.ID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	if err := attachCommentAuthors(ctx.Request.Context(), p.users, comments); err != nil {
		return nil, err
	}
	post.Comments = comments

	if err := p.populateAuthor(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (p *PostController) populateAuthor(ctx *gin.Context, post *models.Post) error {
	author, err := p.users.FindByID(ctx.Request.Context(), post.AuthorID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return nil
		}
		return err
	}
	summary := author.Summary()
	post.Author = &summary
	return nil
}

func parseObjectID(raw string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
