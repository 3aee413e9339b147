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

// AuthController handles registration, login, token refresh and profile updates.
type AuthController struct {
	users stores.UserStore
}

// NewAuthController creates an AuthController.
func NewAuthController(users stores.UserStore) *AuthController {
	return &AuthController{users: users}
}

type sessionResponse struct {
	ID           primitive.ObjectID `json:"id"`
	Username     string             `json:"username"`
	Email        string             `json:"email"`
	Token        string             `json:"token"`
	RefreshToken string             `json:"refreshToken"`
}

// Register creates a new account and issues a session pair.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=32"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	username := utils.SanitizePlain(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" {
		utils.Error(ctx, http.StatusBadRequest, "username cannot be empty")
		return
	}

	if _, err := a.users.FindByUsernameOrEmail(ctx.Request.Context(), username, email); err == nil {
		utils.Error(ctx, http.StatusConflict, "user already exists")
		return
	} else if !errors.Is(err, stores.ErrNotFound) {
		utils.ServerError(ctx)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.ServerError(ctx)
		return
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := a.users.Create(ctx.Request.Context(), &user); err != nil {
		if errors.Is(err, stores.ErrDuplicate) {
			utils.Error(ctx, http.StatusConflict, "user already exists")
			return
		}
		utils.ServerError(ctx)
		return
	}

	resp, err := a.issueSession(ctx, &user)
	if err != nil {
		utils.ServerError(ctx)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Login verifies credentials and issues a session pair. Unknown email and
// wrong password fail identically.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := a.users.FindByEmail(ctx.Request.Context(), email)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.Error(ctx, http.StatusUnauthorized, "invalid email or password")
			return
		}
		utils.ServerError(ctx)
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, "invalid email or password")
		return
	}

	resp, err := a.issueSession(ctx, user)
	if err != nil {
		utils.ServerError(ctx)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Refresh exchanges a valid refresh token for a new access token. The user is
// re-resolved so tokens for deleted accounts stop working.
func (a *AuthController) Refresh(ctx *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	claims, err := utils.ParseToken(req.RefreshToken, utils.TokenKindRefresh)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	user, err := a.users.FindByID(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	token, err := utils.GenerateAccessToken(user.ID.Hex(), user.Username)
	if err != nil {
		utils.ServerError(ctx)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"token": token})
}

// Me returns the current user without the password hash.
func (a *AuthController) Me(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "not authorized")
		return
	}

	user, err := a.users.FindByID(ctx.Request.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, "user not found")
			return
		}
		utils.ServerError(ctx)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// UpdateUsername changes the caller's username.
func (a *AuthController) UpdateUsername(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=32"`
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

	username := utils.SanitizePlain(strings.TrimSpace(req.Username))
	if username == "" {
		utils.Error(ctx, http.StatusBadRequest, "username cannot be empty")
		return
	}

	if err := a.users.UpdateUsername(ctx.Request.Context(), identity.ID, username); err != nil {
		switch {
		case errors.Is(err, stores.ErrDuplicate):
			utils.Error(ctx, http.StatusConflict, "username already taken")
		case errors.Is(err, stores.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, "user not found")
		default:
			utils.ServerError(ctx)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":       identity.ID,
		"username": username,
		"email":    identity.Email,
	})
}

func (a *AuthController) issueSession(ctx *gin.Context, user *models.User) (*sessionResponse, error) {
	token, err := utils.GenerateAccessToken(user.ID.Hex(), user.Username)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.GenerateRefreshToken(user.ID.Hex(), user.Username)
	if err != nil {
		return nil, err
	}
	if err := a.users.SetRefreshToken(ctx.Request.Context(), user.ID, refresh); err != nil {
		return nil, err
	}
	return &sessionResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Token:        token,
		RefreshToken: refresh,
	}, nil
}
