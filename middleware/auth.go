package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/africandeluxe/RedditClone2-Backend/stores"
	"github.com/africandeluxe/RedditClone2-Backend/utils"
)

// ContextIdentityKey is the gin context key under which the resolved identity is stored.
const ContextIdentityKey = "identity"

// Identity is the acting user attached to authenticated requests. The password
// hash is never carried here.
type Identity struct {
	ID       primitive.ObjectID
	Username string
	Email    string
}

// AuthRequired resolves the bearer token into an Identity, re-checking that
// the user still exists. Any defect fails closed with 401.
func AuthRequired(users stores.UserStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthenticated(ctx, "authorization header missing")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthenticated(ctx, "invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			abortUnauthenticated(ctx, "empty bearer token")
			return
		}

		claims, err := utils.ParseToken(tokenString, utils.TokenKindAccess)
		if err != nil {
			abortUnauthenticated(ctx, "invalid token")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			abortUnauthenticated(ctx, "invalid token")
			return
		}

		user, err := users.FindByID(ctx.Request.Context(), userID)
		if err != nil {
			abortUnauthenticated(ctx, "not authorized")
			return
		}

		ctx.Set(ContextIdentityKey, Identity{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		})
		ctx.Next()
	}
}

// CurrentIdentity returns the identity resolved by AuthRequired.
func CurrentIdentity(ctx *gin.Context) (Identity, bool) {
	value, exists := ctx.Get(ContextIdentityKey)
	if !exists {
		return Identity{}, false
	}
	identity, ok := value.(Identity)
	return identity, ok
}

func abortUnauthenticated(ctx *gin.Context, message string) {
	utils.Error(ctx, http.StatusUnauthorized, message)
	ctx.Abort()
}
