package player

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Harsh00198/Auraluxe-Music/internal/catalog"
)

// Session identifies the signed-in listener. A nil session means anonymous
// playback and disables every side effect.
type Session struct {
	UserID string
	Token  string
}

// Recorder persists listening facts on behalf of a session.
type Recorder interface {
	RecordPlay(ctx context.Context, s Session, t catalog.Track) error
	SaveVolume(ctx context.Context, s Session, volume float64) error
}

// APIRecorder writes to the Auraluxe REST API.
type APIRecorder struct {
	BaseURL string // e.g. http://localhost:5000/api/v1
	HTTP    *http.Client
}

func NewAPIRecorder(baseURL string) *APIRecorder {
	return &APIRecorder{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *APIRecorder) RecordPlay(ctx context.Context, s Session, t catalog.Track) error {
	body := map[string]string{
		"trackId":     t.ID,
		"title":       t.Title,
		"artist":      t.Artist,
		"image":       t.Image,
		"preview_url": t.PreviewURL,
	}
	return r.send(ctx, s, http.MethodPost, "/users/recently-played", body)
}

func (r *APIRecorder) SaveVolume(ctx context.Context, s Session, volume float64) error {
	return r.send(ctx, s, http.MethodPatch, "/auth/preferences", map[string]float64{"volume": volume})
}

func (r *APIRecorder) send(ctx context.Context, s Session, method, path string, payload any) error {
	buf, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.BaseURL+path, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Token)

	resp, err := r.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrPersistence, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s: status %d", ErrPersistence, method, path, resp.StatusCode)
	}
	return nil
}
