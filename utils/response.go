package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error writes the uniform error body `{"message": ...}` with the given status.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"message": message})
}

// ServerError writes a generic 500 without leaking internal error text.
func ServerError(ctx *gin.Context) {
	Error(ctx, http.StatusInternalServerError, "server error")
}
