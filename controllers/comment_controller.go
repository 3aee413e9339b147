package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/africandeluxe/RedditClone2-Backend/middleware"
	"github.com/africandeluxe/RedditClone2-Backend/models"
	"github.com/africandeluxe/RedditClone2-Backend/stores"
	"github.com/africandeluxe/RedditClone2-Backend/utils"
)

// CommentController manages comment creation, deletion and voting.
type CommentController struct {
	comments stores.CommentStore
	posts    stores.PostStore
	users    stores.UserStore
	cache    *utils.Cache
}

// NewCommentController creates a CommentController. cache may be nil.
func NewCommentController(comments stores.CommentStore, posts stores.PostStore, users stores.UserStore, cache *utils.Cache) *CommentController {
	return &CommentController{comments: comments, posts: posts, users: users, cache: cache}
}

// CreateComment adds a comment to an existing post and appends its id to the
// post's comment list.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "valid comment content is required")
		return
	}

	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "not authorized")
		return
	}

	content := strings.TrimSpace(utils.Sanitize(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, "valid comment content is required")
		return
	}
	if len([]rune(content)) > models.MaxCommentLen {
		utils.Error(ctx, http.StatusBadRequest, "comment cannot exceed 10000 characters")
		return
	}

	// The path parameter is the parent post id for this route.
	postID, ok := parseObjectID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, "post not found")
		return
	}
	post, err := c.posts.FindByID(ctx.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, "post not found")
			return
		}
		utils.ServerError(ctx)
		return
	}

	comment := models.Comment{
		Content:  content,
		AuthorID: identity.ID,
		PostID:   post.ID,
	}
	if err := c.comments.Create(ctx.Request.Context(), &comment); err != nil {
		utils.ServerError(ctx)
		return
	}
	if err := c.posts.PushComment(ctx.Request.Context(), post.ID, comment.ID); err != nil {
		utils.ServerError(ctx)
		return
	}

	if err := c.populateAuthor(ctx, &comment); err != nil {
		utils.ServerError(ctx)
		return
	}

	c.cache.InvalidateByPrefix(postDetailCachePfx + post.ID.Hex())
	ctx.JSON(http.StatusCreated, comment)
}

// DeleteComment removes a comment. Both the comment author and the parent
// post's author are allowed; the comment id is pulled from the post's list.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "not authorized")
		return
	}

	id, ok := parseObjectID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, "comment not found")
		return
	}
	comment, err := c.comments.FindByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, "comment not found")
			return
		}
		utils.ServerError(ctx)
		return
	}

	parent, err := c.posts.FindByID(ctx.Request.Context(), comment.PostID)
	if err != nil && !errors.Is(err, stores.ErrNotFound) {
		utils.ServerError(ctx)
		return
	}

	if !comment.CanDelete(identity.ID, parent) {
		utils.Error(ctx, http.StatusForbidden, "forbidden")
		return
	}

	if parent != nil {
		if err := c.posts.PullComment(ctx.Request.Context(), parent.ID, comment.ID); err != nil && !errors.Is(err, stores.ErrNotFound) {
			utils.ServerError(ctx)
			return
		}
	}
	if err := c.comments.Delete(ctx.Request.Context(), comment.ID); err != nil && !errors.Is(err, stores.ErrNotFound) {
		utils.ServerError(ctx)
		return
	}

	c.cache.InvalidateByPrefix(postDetailCachePfx + comment.PostID.Hex())
	ctx.JSON(http.StatusOK, gin.H{"message": "comment removed"})
}

// VoteComment applies the caller's vote to the comment.
func (c *CommentController) VoteComment(ctx *gin.Context) {
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
		utils.Error(ctx, http.StatusNotFound, "comment not found")
		return
	}
	comment, err := c.comments.FindByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, "comment not found")
			return
		}
		utils.ServerError(ctx)
		return
	}

	voters, tally, err := models.ApplyVote(comment.Voters, identity.ID, req.Vote)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid vote")
		return
	}
	comment.Voters = voters
	comment.Votes = tally

	if err := c.comments.Update(ctx.Request.Context(), comment); err != nil {
		utils.ServerError(ctx)
		return
	}
	if err := c.populateAuthor(ctx, comment); err != nil {
		utils.ServerError(ctx)
		return
	}

	c.cache.InvalidateByPrefix(postDetailCachePfx + comment.PostID.Hex())
	ctx.JSON(http.StatusOK, comment)
}

func (c *CommentController) populateAuthor(ctx *gin.Context, comment *models.Comment) error {
	author, err := c.users.FindByID(ctx.Request.Context(), comment.AuthorID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return nil
		}
		return err
	}
	summary := author.Summary()
	comment.Author = &summary
	return nil
}
