package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/africandeluxe/RedditClone2-Backend/config"
)

// Token kinds carried in the claims so a refresh token can never pass as an
// access token and vice versa.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// ErrWrongTokenKind is returned when a token of the other kind is presented.
var ErrWrongTokenKind = errors.New("unexpected token kind")

// Claims defines JWT claims used in the application.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Kind     string `json:"kind"`
	jwt.RegisteredClaims
}

// GenerateAccessToken issues a short-lived session token for the user.
func GenerateAccessToken(userID, username string) (string, error) {
	cfg := config.Get()
	return generateToken(userID, username, TokenKindAccess, cfg.AccessTokenTTL)
}

// GenerateRefreshToken issues the longer-lived token accepted only by the
// refresh endpoint.
func GenerateRefreshToken(userID, username string) (string, error) {
	cfg := config.Get()
	return generateToken(userID, username, TokenKindRefresh, cfg.RefreshTokenTTL)
}

func generateToken(userID, username, kind string, duration time.Duration) (string, error) {
	claims := Claims{
		UserID:   userID,
		Username: username,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Get().JWTSecret))
}

// ParseToken validates a JWT of the expected kind and returns its claims.
// Verification is pure: no storage access happens here.
func ParseToken(tokenStr, kind string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.Get().JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Kind != kind {
		return nil, ErrWrongTokenKind
	}

	return claims, nil
}
