package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Harsh00198/Auraluxe-Music/internal/models"
)

// UserHandler serves the caller's liked tracks and listening history.
type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// LikeTrack toggles a like: an existing like is removed, otherwise the track
// is added as the newest like.
func (h *UserHandler) LikeTrack(c *gin.Context) {
	user, ok := currentUser(c, h.db)
	if !ok {
		return
	}

	var input trackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Track ID, title, and artist are required"})
		return
	}

	liked := false
	err := h.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND track_id = ?", user.ID, input.TrackID).Delete(&models.LikedTrack{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		liked = true
		like := models.LikedTrack{
			UserID:     user.ID,
			TrackID:    input.TrackID,
			Title:      input.Title,
			Artist:     input.Artist,
			Album:      input.Album,
			Image:      input.image(),
			Duration:   input.Duration,
			PreviewURL: input.PreviewURL,
			LikedAt:    time.Now(),
		}
		if err := tx.Create(&like).Error; err != nil {
			return err
		}
		return trimOldest(tx, &models.LikedTrack{}, user.ID, "liked_at", models.MaxLikedTracks)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update liked tracks"})
		return
	}

	message := "Track removed from liked songs"
	if liked {
		message = "Track added to liked songs"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "liked": liked})
}

// RecordPlay moves a track to the front of the caller's history.
func (h *UserHandler) RecordPlay(c *gin.Context) {
	user, ok := currentUser(c, h.db)
	if !ok {
		return
	}

	var input trackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Track ID, title, and artist are required"})
		return
	}

	entry := models.RecentlyPlayed{
		UserID:     user.ID,
		TrackID:    input.TrackID,
		Title:      input.Title,
		Artist:     input.Artist,
		Image:      input.image(),
		PreviewURL: input.PreviewURL,
		PlayedAt:   time.Now(),
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "track_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "artist", "image", "preview_url", "played_at"}),
		}).Create(&entry).Error
		if err != nil {
			return err
		}
		return trimOldest(tx, &models.RecentlyPlayed{}, user.ID, "played_at", models.MaxRecentlyPlayed)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recently played"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Added to recently played"})
}

func (h *UserHandler) GetLikedTracks(c *gin.Context) {
	user, ok := currentUser(c, h.db)
	if !ok {
		return
	}

	tracks := []models.LikedTrack{}
	if err := h.db.Where("user_id = ?", user.ID).Order("liked_at desc").Find(&tracks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch liked tracks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tracks": tracks})
}

func (h *UserHandler) GetRecentlyPlayed(c *gin.Context) {
	user, ok := currentUser(c, h.db)
	if !ok {
		return
	}

	tracks := []models.RecentlyPlayed{}
	if err := h.db.Where("user_id = ?", user.ID).Order("played_at desc").Find(&tracks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recently played"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tracks": tracks})
}

// trimOldest deletes a user's rows beyond the newest keep, ordered by column.
func trimOldest(tx *gorm.DB, model any, userID uint, column string, keep int) error {
	var ids []uint
	err := tx.Model(model).
		Where("user_id = ?", userID).
		Order(column+" desc").
		Order("id desc").
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}
	if len(ids) <= keep {
		return nil
	}
	return tx.Where("id IN ?", ids[keep:]).Delete(model).Error
}
