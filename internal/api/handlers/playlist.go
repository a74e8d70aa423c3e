package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Harsh00198/Auraluxe-Music/internal/models"
	"github.com/Harsh00198/Auraluxe-Music/internal/storage"
)

const maxCoverSize = 5 << 20

var errPlaylistNotFound = errors.New("playlist not found")

// rejection aborts a playlist transaction with a client-facing message.
type rejection struct {
	status  int
	message string
}

func (r *rejection) Error() string { return r.message }

func reject(status int, message string) error {
	return &rejection{status: status, message: message}
}

// PlaylistHandler handles user playlists and their tracks.
type PlaylistHandler struct {
	db      *gorm.DB
	storage *storage.Client
}

func NewPlaylistHandler(db *gorm.DB, st *storage.Client) *PlaylistHandler {
	return &PlaylistHandler{db: db, storage: st}
}

func orderedTracks(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

// GetPlaylists returns the caller's playlists, most recently updated first.
func (h *PlaylistHandler) GetPlaylists(c *gin.Context) {
	user, ok := currentUser(c, h.db)
	if !ok {
		return
	}

	playlists := []models.Playlist{}
	err := h.db.Preload("Tracks", orderedTracks).
		Where("owner_id = ?", user.ID).
		Order("updated_at desc").
		Find(&playlists).Error
	if err != nil {
		slog.Error("Failed to fetch playlists", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch playlists"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"playlists": playlists})
}

// GetPlaylist returns a playlist owned by the caller or marked public.
func (h *PlaylistHandler) GetPlaylist(c *gin.Context) {
	user, ok := currentUser(c, h.db)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var playlist models.Playlist
	err := h.db.Preload("Tracks", orderedTracks).
		Preload("Owner").
		First(&playlist, id).Error
	if err != nil || (playlist.OwnerID != user.ID && !playlist.IsPublic) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"playlist": playlist})
}

func (h *PlaylistHandler) CreatePlaylist(c *gin.Context) {
	user, ok := currentUser(c, h.db)
	if !ok {
		return
	}

	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		IsPublic    bool   `json:"isPublic"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Playlist name is required"})
		return
	}
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > models.MaxPlaylistName {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Playlist name must be between 1 and 100 characters"})
		return
	}

	playlist := models.Playlist{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		IsPublic:    input.IsPublic,
		OwnerID:     user.ID,
		Tracks:      []models.PlaylistTrack{},
	}
	if err := h.db.Create(&playlist).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create playlist"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Playlist created successfully", "playlist": playlist})
}

func (h *PlaylistHandler) UpdatePlaylist(c *gin.Context) {
	var input struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IsPublic    *bool   `json:"isPublic"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.withOwned(c, func(tx *gorm.DB, p *models.Playlist) error {
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" || len(name) > models.MaxPlaylistName {
				return reject(http.StatusBadRequest, "Playlist name must be between 1 and 100 characters")
			}
			p.Name = name
		}
		if input.Description != nil {
			p.Description = strings.TrimSpace(*input.Description)
		}
		if input.IsPublic != nil {
			p.IsPublic = *input.IsPublic
		}
		return updatePlaylist(tx, p.ID, map[string]any{
			"name":        p.Name,
			"description": p.Description,
			"is_public":   p.IsPublic,
		})
	})
}

func (h *PlaylistHandler) DeletePlaylist(c *gin.Context) {
	user, ok := currentUser(c, h.db)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var cover string
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var playlist models.Playlist
		if err := tx.Where("id = ? AND owner_id = ?", id, user.ID).First(&playlist).Error; err != nil {
			return errPlaylistNotFound
		}
		cover = playlist.CoverImage
		if err := tx.Where("playlist_id = ?", id).Delete(&models.PlaylistTrack{}).Error; err != nil {
			return err
		}
		return tx.Delete(&playlist).Error
	})
	if errors.Is(err, errPlaylistNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete playlist"})
		return
	}

	h.deleteCover(c, cover)
	c.JSON(http.StatusOK, gin.H{"message": "Playlist deleted successfully"})
}

func (h *PlaylistHandler) AddTrack(c *gin.Context) {
	var input trackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Track ID, title, and artist are required"})
		return
	}

	h.withOwned(c, func(tx *gorm.DB, p *models.Playlist) error {
		if p.HasTrack(input.TrackID) {
			return reject(http.StatusBadRequest, "Track already in playlist")
		}
		duration := input.Duration
		if duration == "" {
			duration = models.DefaultTrackDuration
		}
		track := models.PlaylistTrack{
			PlaylistID: p.ID,
			TrackID:    input.TrackID,
			Title:      input.Title,
			Artist:     input.Artist,
			Album:      input.Album,
			Image:      input.image(),
			Duration:   duration,
			PreviewURL: input.PreviewURL,
			Position:   len(p.Tracks),
			AddedAt:    time.Now(),
		}
		if err := tx.Create(&track).Error; err != nil {
			return err
		}
		p.Tracks = append(p.Tracks, track)
		return saveTracks(tx, p)
	})
}

func (h *PlaylistHandler) RemoveTrack(c *gin.Context) {
	trackID := c.Param("trackId")

	h.withOwned(c, func(tx *gorm.DB, p *models.Playlist) error {
		kept := p.Tracks[:0:0]
		for _, t := range p.Tracks {
			if t.TrackID != trackID {
				kept = append(kept, t)
			}
		}
		if len(kept) == len(p.Tracks) {
			return reject(http.StatusNotFound, "Track not in playlist")
		}
		if err := tx.Where("playlist_id = ? AND track_id = ?", p.ID, trackID).Delete(&models.PlaylistTrack{}).Error; err != nil {
			return err
		}
		p.Tracks = kept
		return saveTracks(tx, p)
	})
}

// ReorderTracks sets the playlist to exactly the listed tracks in the listed
// order. Unknown or repeated ids are ignored; tracks left out are removed.
func (h *PlaylistHandler) ReorderTracks(c *gin.Context) {
	var input struct {
		TrackIDs []string `json:"trackIds" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Track IDs array is required"})
		return
	}

	h.withOwned(c, func(tx *gorm.DB, p *models.Playlist) error {
		byID := make(map[string]models.PlaylistTrack, len(p.Tracks))
		for _, t := range p.Tracks {
			byID[t.TrackID] = t
		}

		ordered := make([]models.PlaylistTrack, 0, len(input.TrackIDs))
		for _, id := range input.TrackIDs {
			if t, ok := byID[id]; ok {
				ordered = append(ordered, t)
				delete(byID, id)
			}
		}
		for id := range byID {
			if err := tx.Where("playlist_id = ? AND track_id = ?", p.ID, id).Delete(&models.PlaylistTrack{}).Error; err != nil {
				return err
			}
		}
		p.Tracks = ordered
		return saveTracks(tx, p)
	})
}

// UploadCover stores a multipart "cover" image and points the playlist at it.
func (h *PlaylistHandler) UploadCover(c *gin.Context) {
	header, err := c.FormFile("cover")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cover image is required"})
		return
	}
	if header.Size > maxCoverSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cover image must be 5MB or smaller"})
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cover must be an image"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}
	defer file.Close()

	var previous string
	h.withOwned(c, func(tx *gorm.DB, p *models.Playlist) error {
		key := fmt.Sprintf("covers/%d-%s%s", p.ID, uuid.NewString(), strings.ToLower(path.Ext(header.Filename)))
		if err := h.storage.UploadAsset(c.Request.Context(), key, file, contentType); err != nil {
			slog.Error("Cover upload failed", "key", key, "error", err)
			return reject(http.StatusBadGateway, "Failed to store cover image")
		}
		old := p.CoverImage
		p.CoverImage = MediaURL(key)
		if err := updatePlaylist(tx, p.ID, map[string]any{"cover_image": p.CoverImage}); err != nil {
			return err
		}
		previous = old
		return nil
	})
	h.deleteCover(c, previous)
}

// withOwned loads the caller's playlist named by :id with its tracks and runs
// fn in a transaction. fn rejects the request by returning reject(...). The
// updated playlist is written as the response.
func (h *PlaylistHandler) withOwned(c *gin.Context, fn func(tx *gorm.DB, p *models.Playlist) error) {
	user, ok := currentUser(c, h.db)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var playlist models.Playlist
	err := h.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Tracks", orderedTracks).
			Where("id = ? AND owner_id = ?", id, user.ID).
			First(&playlist).Error
		if err != nil {
			return errPlaylistNotFound
		}
		return fn(tx, &playlist)
	})

	var rej *rejection
	switch {
	case errors.Is(err, errPlaylistNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Playlist not found"})
	case errors.As(err, &rej):
		c.JSON(rej.status, gin.H{"error": rej.message})
	case err != nil:
		slog.Error("Playlist update failed", "playlist_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update playlist"})
	default:
		c.JSON(http.StatusOK, gin.H{"playlist": playlist})
	}
}

// saveTracks renumbers positions and refreshes the total duration.
func saveTracks(tx *gorm.DB, p *models.Playlist) error {
	p.Renumber()
	p.RecalculateDuration()
	for _, t := range p.Tracks {
		if err := tx.Model(&models.PlaylistTrack{}).Where("id = ?", t.ID).Update("position", t.Position).Error; err != nil {
			return err
		}
	}
	return updatePlaylist(tx, p.ID, map[string]any{"total_duration": p.TotalDuration})
}

// updatePlaylist writes columns without touching the loaded associations and
// bumps updated_at.
func updatePlaylist(tx *gorm.DB, id uint, fields map[string]any) error {
	return tx.Model(&models.Playlist{}).Where("id = ?", id).Updates(fields).Error
}

func (h *PlaylistHandler) deleteCover(c *gin.Context, url string) {
	key, ok := MediaKey(url)
	if !ok {
		return
	}
	if err := h.storage.DeleteAsset(c.Request.Context(), key); err != nil {
		slog.Warn("Failed to delete old cover", "key", key, "error", err)
	}
}
