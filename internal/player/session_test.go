package player

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Harsh00198/Auraluxe-Music/internal/catalog"
)

func TestAPIRecorder(t *testing.T) {
	type call struct {
		method, path, auth string
		body               map[string]any
	}
	var calls []call

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		calls = append(calls, call{r.Method, r.URL.Path, r.Header.Get("Authorization"), body})
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rec := NewAPIRecorder(srv.URL + "/api/v1/")
	s := Session{UserID: "u1", Token: "jwt"}
	ctx := context.Background()

	track := catalog.Track{ID: "deezer-1", Title: "Imagine", Artist: "John Lennon", PreviewURL: "p.mp3"}
	if err := rec.RecordPlay(ctx, s, track); err != nil {
		t.Fatalf("RecordPlay: %v", err)
	}
	if err := rec.SaveVolume(ctx, s, 0.4); err != nil {
		t.Fatalf("SaveVolume: %v", err)
	}

	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	if calls[0].method != http.MethodPost || calls[0].path != "/api/v1/users/recently-played" {
		t.Errorf("record play hit %s %s", calls[0].method, calls[0].path)
	}
	if calls[0].auth != "Bearer jwt" || calls[0].body["trackId"] != "deezer-1" || calls[0].body["preview_url"] != "p.mp3" {
		t.Errorf("record play request: %+v", calls[0])
	}
	if calls[1].method != http.MethodPatch || calls[1].path != "/api/v1/auth/preferences" || calls[1].body["volume"] != 0.4 {
		t.Errorf("save volume request: %+v", calls[1])
	}
}

func TestAPIRecorderWrapsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := NewAPIRecorder(srv.URL).SaveVolume(context.Background(), Session{}, 1)
	if !errors.Is(err, ErrPersistence) {
		t.Errorf("expected ErrPersistence, got %v", err)
	}
}
