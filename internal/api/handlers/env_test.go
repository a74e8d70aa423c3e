package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Harsh00198/Auraluxe-Music/internal/api/server"
	"github.com/Harsh00198/Auraluxe-Music/internal/catalog"
	"github.com/Harsh00198/Auraluxe-Music/internal/config"
	database "github.com/Harsh00198/Auraluxe-Music/internal/db"
	"github.com/Harsh00198/Auraluxe-Music/internal/logging"
	"github.com/Harsh00198/Auraluxe-Music/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubProvider serves a fixed catalog under the "deezer" prefix.
type stubProvider struct {
	tracks map[string]catalog.Track
	order  []string
}

func newStubProvider(tracks ...catalog.Track) *stubProvider {
	p := &stubProvider{tracks: map[string]catalog.Track{}}
	for _, t := range tracks {
		p.tracks[t.ID] = t
		p.order = append(p.order, t.ID)
	}
	return p
}

func (p *stubProvider) Name() string { return "deezer" }

func (p *stubProvider) list(limit int) []catalog.Track {
	var out []catalog.Track
	for _, id := range p.order {
		if len(out) == limit {
			break
		}
		out = append(out, p.tracks[id])
	}
	return out
}

func (p *stubProvider) Search(ctx context.Context, query string, limit int) ([]catalog.Track, error) {
	return p.list(limit), nil
}

func (p *stubProvider) Track(ctx context.Context, nativeID string) (catalog.Track, error) {
	t, ok := p.tracks["deezer-"+nativeID]
	if !ok {
		return catalog.Track{}, catalog.ErrTrackNotFound
	}
	return t, nil
}

func (p *stubProvider) Chart(ctx context.Context, limit int) ([]catalog.Track, error) {
	return p.list(limit), nil
}

type testEnv struct {
	t       *testing.T
	db      *gorm.DB
	storage *storage.Client
	handler http.Handler
}

func newTestEnv(t *testing.T, tracks ...catalog.Track) *testEnv {
	t.Helper()

	client, err := database.NewMemory()
	if err != nil {
		t.Fatalf("database: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	cfg := &config.Config{}
	cfg.Server.LogLevel = "debug"
	cfg.Server.FrontendURL = "http://localhost:3000"
	cfg.Server.TempDir = t.TempDir()
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTLHours = 1

	st := storage.NewWithProvider(storage.NewLocalProvider(t.TempDir()), "assets")
	agg := catalog.NewAggregator([]catalog.Provider{newStubProvider(tracks...)}, catalog.AggregatorOptions{
		ProviderTimeout: time.Second,
		Logger:          logging.Discard(),
	})

	srv := server.New(cfg, client, st, agg, logging.Discard())
	return &testEnv{t: t, db: client.DB, storage: st, handler: srv.Handler()}
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			e.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

// expect asserts the status and decodes the JSON body.
func (e *testEnv) expect(w *httptest.ResponseRecorder, status int) map[string]any {
	e.t.Helper()
	if w.Code != status {
		e.t.Fatalf("status = %d, want %d: %s", w.Code, status, w.Body)
	}
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		e.t.Fatalf("decode %q: %v", w.Body, err)
	}
	return out
}

// register creates a user and returns its token and id.
func (e *testEnv) register(username string) (string, uint) {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret1",
	})
	body := e.expect(w, http.StatusCreated)
	user := body["user"].(map[string]any)
	return body["token"].(string), uint(user["id"].(float64))
}

func (e *testEnv) login(email, password string) string {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": password})
	return e.expect(w, http.StatusOK)["token"].(string)
}

func (e *testEnv) admin() string {
	e.t.Helper()
	if _, _, err := database.SeedAdminUser(e.db, "admin@auraluxe.com", "admin", "adminpass"); err != nil {
		e.t.Fatal(err)
	}
	return e.login("admin@auraluxe.com", "adminpass")
}

func track(n int) gin.H {
	return gin.H{
		"trackId":  fmt.Sprintf("deezer-%d", n),
		"title":    fmt.Sprintf("Song %d", n),
		"artist":   "Artist",
		"duration": "3:35",
	}
}

func trackIDs(list []any) []string {
	ids := make([]string, len(list))
	for i, v := range list {
		ids[i] = v.(map[string]any)["trackId"].(string)
	}
	return ids
}
