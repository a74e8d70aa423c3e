package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Harsh00198/Auraluxe-Music/internal/api/middleware"
	"github.com/Harsh00198/Auraluxe-Music/internal/models"
)

// currentUser loads the authenticated user. It writes the error response and
// returns false when the account is missing or deactivated.
func currentUser(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return nil, false
	}

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}
	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is deactivated"})
		return nil, false
	}
	return &user, true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return 0, false
	}
	return uint(id), true
}

// queryInt reads a positive integer query parameter, falling back to def.
func queryInt(c *gin.Context, name string, def int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// trackInput is the track snapshot clients send when liking, recording or
// adding a track to a playlist.
type trackInput struct {
	TrackID    string `json:"trackId" binding:"required"`
	Title      string `json:"title" binding:"required"`
	Artist     string `json:"artist" binding:"required"`
	Album      string `json:"album"`
	Image      string `json:"image"`
	Duration   string `json:"duration"`
	PreviewURL string `json:"preview_url"`
}

func (t trackInput) image() string {
	if t.Image == "" {
		return models.PlaceholderImage
	}
	return t.Image
}
