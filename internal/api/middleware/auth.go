package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by RequireAuth and OptionalAuth.
const (
	KeyUserID   = "user_id"
	KeyUserRole = "user_role"
)

var errNoToken = errors.New("missing token")

// IssueToken signs an HS256 token whose subject is the user id.
func IssueToken(secret []byte, userID uint, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(userID), 10),
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// RequireAuth ensures the request carries a valid JWT, via the Authorization
// header or the "token" query parameter (needed by <audio> and <img> tags).
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, err := authenticate(c, secret)
		if errors.Is(err, errNoToken) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid token"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(KeyUserID, userID)
		c.Set(KeyUserRole, role)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous or badly authenticated requests through untouched.
func OptionalAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, role, err := authenticate(c, secret); err == nil {
			c.Set(KeyUserID, userID)
			c.Set(KeyUserRole, role)
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, if any.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(KeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func authenticate(c *gin.Context, secret []byte) (uint, string, error) {
	var tokenString string
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		tokenString = strings.TrimPrefix(h, "Bearer ")
	}
	if tokenString == "" {
		tokenString = c.Query("token")
	}
	if tokenString == "" {
		return 0, "", errNoToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return 0, "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", errors.New("invalid token payload")
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return 0, "", err
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return 0, "", errors.New("invalid subject")
	}
	role, _ := claims["role"].(string)
	return uint(id), role, nil
}
