package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const currentUserKey = "currentUserID"

var errNoToken = errors.New("no bearer token")

type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// GenerateToken issues an HS256 session token for userID.
func GenerateToken(userID string, ttl time.Duration, secret []byte) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		UserID: userID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseToken(raw string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, new(Claims), func(_ *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

func tokenFromRequest(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok && after != "" {
		return after, nil
	}
	// Websocket clients cannot set headers; they pass the token as a query
	// parameter instead.
	if token := c.Query("token"); token != "" {
		return token, nil
	}
	return "", errNoToken
}

// RequireUser rejects requests without a resolvable user before any handler
// runs, and stores the user id in the gin context for CurrentUserID.
func RequireUser(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := tokenFromRequest(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "kind": "Unauthorized"})
			return
		}
		claims, err := parseToken(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "kind": "Unauthorized"})
			return
		}
		c.Set(currentUserKey, claims.UserID)
		c.Next()
	}
}

// CurrentUserID returns the user id resolved by RequireUser.
func CurrentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(currentUserKey)
	return userID, userID != ""
}
