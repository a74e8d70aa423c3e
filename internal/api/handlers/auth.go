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

const minPasswordLength = 6

// AuthHandler handles registration, login and the caller's own account.
type AuthHandler struct {
	db       *gorm.DB
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthHandler(db *gorm.DB, secret []byte, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{db: db, secret: secret, tokenTTL: tokenTTL}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required,min=3,max=30"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := models.NewUser(input.Username, input.Email, input.Password)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	var count int64
	h.db.Model(&models.User{}).Where("email = ? OR username = ?", user.Email, user.Username).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email or username already exists"})
		return
	}

	if err := h.db.Create(user).Error; err != nil {
		slog.Error("Failed to create user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := middleware.IssueToken(h.secret, user.ID, user.Role, h.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := h.db.Where("email = ?", models.NormalizeEmail(input.Email)).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if err != nil || !user.CheckPassword(input.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Account is deactivated"})
		return
	}

	now := time.Now()
	user.LastLogin = &now
	if err := h.db.Model(&user).Update("last_login", now).Error; err != nil {
		slog.Warn("Failed to record login", "user_id", user.ID, "error", err)
	}

	token, err := middleware.IssueToken(h.secret, user.ID, user.Role, h.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := currentUser(c, h.db)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c, h.db)
	if !ok {
		return
	}

	var input struct {
		Username *string `json:"username"`
		Avatar   *string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Username != nil {
		name := strings.TrimSpace(*input.Username)
		if len(name) < 3 || len(name) > 30 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be between 3 and 30 characters"})
			return
		}
		var count int64
		h.db.Model(&models.User{}).Where("username = ? AND id <> ?", name, user.ID).Count(&count)
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username already taken"})
			return
		}
		user.Username = name
	}
	if input.Avatar != nil {
		user.Avatar = strings.TrimSpace(*input.Avatar)
	}

	if err := h.db.Save(user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}

func (h *AuthHandler) UpdatePreferences(c *gin.Context) {
	user, ok := currentUser(c, h.db)
	if !ok {
		return
	}

	var input struct {
		Theme         *string  `json:"theme"`
		Volume        *float64 `json:"volume"`
		Autoplay      *bool    `json:"autoplay"`
		Notifications *struct {
			Email *bool `json:"email"`
			Push  *bool `json:"push"`
		} `json:"notifications"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prefs := &user.Preferences
	if input.Theme != nil {
		if *input.Theme != "dark" && *input.Theme != "light" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Theme must be dark or light"})
			return
		}
		prefs.Theme = *input.Theme
	}
	if input.Volume != nil {
		prefs.Volume = min(max(*input.Volume, 0), 1)
	}
	if input.Autoplay != nil {
		prefs.Autoplay = *input.Autoplay
	}
	if n := input.Notifications; n != nil {
		if n.Email != nil {
			prefs.Notifications.Email = *n.Email
		}
		if n.Push != nil {
			prefs.Notifications.Push = *n.Push
		}
	}

	if err := h.db.Save(user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preferences"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Preferences updated successfully", "preferences": user.Preferences})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, ok := currentUser(c, h.db)
	if !ok {
		return
	}

	var input struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.NewPassword) < minPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New password must be at least 6 characters"})
		return
	}
	if !user.CheckPassword(input.CurrentPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		return
	}

	if err := user.SetPassword(input.NewPassword); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}
	if err := h.db.Model(user).Update("password_hash", user.PasswordHash).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
