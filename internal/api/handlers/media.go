package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Harsh00198/Auraluxe-Music/internal/storage"
)

const mediaPrefix = "/media/"

// MediaURL is the public path under which an uploaded asset is served.
func MediaURL(key string) string {
	return mediaPrefix + key
}

// MediaKey reverses MediaURL. It reports false for external URLs.
func MediaKey(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, mediaPrefix)
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// MediaHandler streams uploaded artwork out of object storage.
type MediaHandler struct {
	storage *storage.Client
}

func NewMediaHandler(st *storage.Client) *MediaHandler {
	return &MediaHandler{storage: st}
}

func (h *MediaHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" || strings.Contains(key, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid media key"})
		return
	}

	obj, err := h.storage.DownloadAsset(c.Request.Context(), key)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Media not found"})
		return
	}
	if err != nil {
		slog.Error("Media fetch failed", "key", key, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch media"})
		return
	}
	defer obj.Body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", storage.AssetCacheControl)
	if obj.ContentLength > 0 {
		c.Header("Content-Length", strconv.FormatInt(obj.ContentLength, 10))
	}
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, obj.Body); err != nil {
		_ = c.Error(err)
	}
}
