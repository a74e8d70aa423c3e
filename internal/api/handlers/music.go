package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Harsh00198/Auraluxe-Music/internal/api/middleware"
	"github.com/Harsh00198/Auraluxe-Music/internal/audio"
	"github.com/Harsh00198/Auraluxe-Music/internal/catalog"
	"github.com/Harsh00198/Auraluxe-Music/internal/models"
	"github.com/Harsh00198/Auraluxe-Music/internal/utils"
)

// Previews are 30 second clips; anything much larger is not a preview.
const maxPreviewSize = 20 << 20

// MusicHandler exposes the catalog: search, trending, lookup and preview
// downloads.
type MusicHandler struct {
	db      *gorm.DB
	catalog *catalog.Aggregator
	http    *http.Client
	tempDir string
}

func NewMusicHandler(db *gorm.DB, agg *catalog.Aggregator, client *http.Client, tempDir string) *MusicHandler {
	if client == nil {
		client = http.DefaultClient
	}
	return &MusicHandler{db: db, catalog: agg, http: client, tempDir: tempDir}
}

func limitParam(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		return 0
	}
	return limit
}

func (h *MusicHandler) Search(c *gin.Context) {
	result, err := h.catalog.Search(c.Request.Context(), c.Query("q"), limitParam(c))
	if errors.Is(err, catalog.ErrInvalidArgument) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query must be at least 2 characters"})
		return
	}
	if err != nil {
		slog.Error("Search failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *MusicHandler) Trending(c *gin.Context) {
	tracks := h.catalog.Trending(c.Request.Context(), limitParam(c))
	c.JSON(http.StatusOK, gin.H{"tracks": tracks, "category": "trending"})
}

func (h *MusicHandler) GetTrack(c *gin.Context) {
	track, ok := h.lookup(c)
	if !ok {
		return
	}

	// isLiked sits next to the track and only for authenticated callers.
	resp := gin.H{"track": track}
	if userID, ok := middleware.UserID(c); ok {
		var count int64
		h.db.Model(&models.LikedTrack{}).Where("user_id = ? AND track_id = ?", userID, track.ID).Count(&count)
		resp["isLiked"] = count > 0
	}
	c.JSON(http.StatusOK, resp)
}

// Download fetches the track's preview, stamps ID3 tags into MP3 previews and
// returns it as an attachment named after the artist and title.
func (h *MusicHandler) Download(c *gin.Context) {
	track, ok := h.lookup(c)
	if !ok {
		return
	}
	if track.PreviewURL == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No preview available for this track"})
		return
	}

	path, contentType, err := h.fetchPreview(c, track.PreviewURL)
	if err != nil {
		slog.Error("Preview download failed", "track", track.ID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to download preview"})
		return
	}
	defer os.Remove(path)

	ext := ".m4a"
	if isMP3(path, contentType) {
		ext = ".mp3"
		contentType = "audio/mpeg"
		tags := audio.Tags{Title: track.Title, Artist: track.Artist, Album: track.Album}
		if err := audio.StampMP3(path, tags); err != nil {
			slog.Warn("ID3 tagging failed, serving untagged", "track", track.ID, "error", err)
		}
	} else if strings.HasPrefix(contentType, "audio/") {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}

	c.Header("Content-Type", contentType)
	c.FileAttachment(path, utils.DownloadFilename(track.Artist, track.Title, ext))
}

func (h *MusicHandler) lookup(c *gin.Context) (catalog.Track, bool) {
	track, err := h.catalog.Track(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		return track, true
	case errors.Is(err, catalog.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid track ID"})
	case errors.Is(err, catalog.ErrUnknownProvider), errors.Is(err, catalog.ErrTrackNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Track not found"})
	default:
		slog.Error("Track lookup failed", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch track"})
	}
	return catalog.Track{}, false
}

// fetchPreview copies the preview into a temp file and returns its path and
// the upstream content type.
func (h *MusicHandler) fetchPreview(c *gin.Context, url string) (string, string, error) {
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, url, nil)
	if err != nil {
		return "", "", err
	}
	resp, err := h.http.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("preview status %d", resp.StatusCode)
	}

	f, err := os.CreateTemp(h.tempDir, "preview-*")
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(resp.Body, maxPreviewSize+1))
	if err == nil && n > maxPreviewSize {
		err = errors.New("preview too large")
	}
	if err != nil {
		os.Remove(f.Name())
		return "", "", err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return f.Name(), contentType, nil
}

func isMP3(path, contentType string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	return audio.IsMP3(f, contentType)
}
