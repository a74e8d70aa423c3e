package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Harsh00198/Auraluxe-Music/internal/api/middleware"
	"github.com/Harsh00198/Auraluxe-Music/internal/models"
)

const maxPageSize = 100

// AdminHandler handles user management and dashboard statistics.
type AdminHandler struct {
	db *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// GetUsers returns a page of users filtered by an optional search term
// (username or email) and role.
func (h *AdminHandler) GetUsers(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := min(queryInt(c, "limit", 20), maxPageSize)

	query := h.db.Model(&models.User{})
	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		term := "%" + search + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", term, term)
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	users := []models.User{}
	err := query.Order("created_at desc").
		Order("id desc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error
	if err != nil {
		slog.Error("Failed to fetch users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}

	var playlists, liked int64
	h.db.Model(&models.Playlist{}).Where("owner_id = ?", user.ID).Count(&playlists)
	h.db.Model(&models.LikedTrack{}).Where("user_id = ?", user.ID).Count(&liked)

	c.JSON(http.StatusOK, gin.H{
		"user": user,
		"stats": gin.H{
			"playlists":   playlists,
			"likedTracks": liked,
		},
	})
}

// UpdateUser changes a user's role or active flag. Admins cannot demote or
// deactivate themselves.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}

	var input struct {
		Role     *string `json:"role"`
		IsActive *bool   `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	self, _ := middleware.UserID(c)
	if input.Role != nil {
		if *input.Role != models.RoleUser && *input.Role != models.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		if user.ID == self && *input.Role != models.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot change your own role"})
			return
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		if user.ID == self && !*input.IsActive {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot deactivate your own account"})
			return
		}
		user.IsActive = *input.IsActive
	}

	err := h.db.Model(user).Updates(map[string]any{"role": user.Role, "is_active": user.IsActive}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": user})
}

// DeleteUser removes a user together with their playlists, likes and
// history.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	user, ok := h.loadUser(c)
	if !ok {
		return
	}
	if self, _ := middleware.UserID(c); user.ID == self {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&models.Playlist{}).Select("id").Where("owner_id = ?", user.ID)
		if err := tx.Where("playlist_id IN (?)", owned).Delete(&models.PlaylistTrack{}).Error; err != nil {
			return err
		}
		for _, model := range []any{&models.LikedTrack{}, &models.RecentlyPlayed{}} {
			if err := tx.Where("user_id = ?", user.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("owner_id = ?", user.ID).Delete(&models.Playlist{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		slog.Error("Failed to delete user", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// GetStats returns aggregated dashboard statistics.
func (h *AdminHandler) GetStats(c *gin.Context) {
	var totalUsers, activeUsers, adminUsers, newUsers int64
	var totalPlaylists, publicPlaylists int64

	weekAgo := time.Now().AddDate(0, 0, -7)

	h.db.Model(&models.User{}).Count(&totalUsers)
	h.db.Model(&models.User{}).Where("is_active = ?", true).Count(&activeUsers)
	h.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminUsers)
	h.db.Model(&models.User{}).Where("created_at >= ?", weekAgo).Count(&newUsers)
	h.db.Model(&models.Playlist{}).Count(&totalPlaylists)
	h.db.Model(&models.Playlist{}).Where("is_public = ?", true).Count(&publicPlaylists)

	recent := []models.User{}
	h.db.Order("created_at desc").Limit(5).Find(&recent)

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"totalUsers":       totalUsers,
			"activeUsers":      activeUsers,
			"adminUsers":       adminUsers,
			"newUsersThisWeek": newUsers,
			"totalPlaylists":   totalPlaylists,
			"publicPlaylists":  publicPlaylists,
		},
		"recentUsers": recent,
	})
}

func (h *AdminHandler) loadUser(c *gin.Context) (*models.User, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}
	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return nil, false
	}
	return &user, true
}
