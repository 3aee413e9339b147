package controllers

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/africandeluxe/RedditClone2-Backend/middleware"
	"github.com/africandeluxe/RedditClone2-Backend/stores"
	"github.com/africandeluxe/RedditClone2-Backend/utils"
)

// maxProfilePictureSize bounds uploads to 5MB.
const maxProfilePictureSize = 5 * 1024 * 1024

// UploadController stores profile pictures through the object storage
// collaborator and records the resulting URL on the user.
type UploadController struct {
	users   stores.UserStore
	storage *utils.ObjectStorage
}

// NewUploadController creates an UploadController.
func NewUploadController(users stores.UserStore, storage *utils.ObjectStorage) *UploadController {
	return &UploadController{users: users, storage: storage}
}

// ProfilePicture accepts a multipart file and updates the caller's picture.
func (u *UploadController) ProfilePicture(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "not authorized")
		return
	}

	file, header, err := ctx.Request.FormFile("profilePicture")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	if header.Size > maxProfilePictureSize {
		utils.Error(ctx, http.StatusBadRequest, "file size exceeds 5MB")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxProfilePictureSize+1))
	if err != nil {
		utils.ServerError(ctx)
		return
	}
	if len(data) > maxProfilePictureSize {
		utils.Error(ctx, http.StatusBadRequest, "file size exceeds 5MB")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if u.storage == nil {
		utils.ServerError(ctx)
		return
	}
	url, err := u.storage.Upload(ctx.Request.Context(), filepath.Ext(header.Filename), data, contentType)
	if err != nil {
		utils.ServerError(ctx)
		return
	}

	if err := u.users.SetProfilePicture(ctx.Request.Context(), identity.ID, url); err != nil {
		utils.ServerError(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"profilePicture": url})
}
