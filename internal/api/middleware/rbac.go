package middleware

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/Harsh00198/Auraluxe-Music/internal/models"
)

// UserRole returns the role claim of the authenticated caller, if any.
func UserRole(c *gin.Context) (string, bool) {
	v, ok := c.Get(KeyUserRole)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok && role != ""
}

// RequireRole lets through callers holding one of roles. Admins pass every
// check. Must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := UserRole(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if role == models.RoleAdmin || slices.Contains(roles, role) {
			c.Next()
			return
		}

		userID, _ := UserID(c)
		slog.Warn("Role check denied", "user_id", userID, "role", role, "required", roles, "path", c.FullPath())
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":    "Insufficient permissions",
			"required": roles,
		})
	}
}
