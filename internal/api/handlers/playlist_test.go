package handlers_test

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"slices"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func (e *testEnv) createPlaylist(token, name string, public bool) string {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/v1/playlists", token, gin.H{"name": name, "isPublic": public})
	p := e.expect(w, http.StatusCreated)["playlist"].(map[string]any)
	return fmt.Sprintf("/api/v1/playlists/%d", int(p["id"].(float64)))
}

func playlistOf(body map[string]any) map[string]any {
	return body["playlist"].(map[string]any)
}

func TestCreatePlaylistValidation(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("listener")

	env.expect(env.do(http.MethodPost, "/api/v1/playlists", token, gin.H{}), http.StatusBadRequest)
	env.expect(env.do(http.MethodPost, "/api/v1/playlists", token, gin.H{"name": "   "}), http.StatusBadRequest)
	env.expect(env.do(http.MethodPost, "/api/v1/playlists", token, gin.H{"name": strings.Repeat("x", 101)}), http.StatusBadRequest)

	env.createPlaylist(token, "Road Trip", false)
	env.createPlaylist(token, "Focus", false)

	list := env.expect(env.do(http.MethodGet, "/api/v1/playlists", token, nil), http.StatusOK)
	playlists := list["playlists"].([]any)
	if len(playlists) != 2 {
		t.Fatalf("got %d playlists", len(playlists))
	}
}

func TestPlaylistVisibility(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.register("owner")
	other, _ := env.register("other")

	private := env.createPlaylist(owner, "Private", false)
	public := env.createPlaylist(owner, "Public", true)

	env.expect(env.do(http.MethodGet, private, owner, nil), http.StatusOK)
	env.expect(env.do(http.MethodGet, private, other, nil), http.StatusNotFound)
	env.expect(env.do(http.MethodGet, public, other, nil), http.StatusOK)

	// Public does not mean editable.
	env.expect(env.do(http.MethodPost, public+"/tracks", other, track(1)), http.StatusNotFound)
	env.expect(env.do(http.MethodDelete, public, other, nil), http.StatusNotFound)
	env.expect(env.do(http.MethodGet, "/api/v1/playlists/abc", owner, nil), http.StatusBadRequest)

	list := env.expect(env.do(http.MethodGet, "/api/v1/playlists", other, nil), http.StatusOK)
	if n := len(list["playlists"].([]any)); n != 0 {
		t.Errorf("other user lists %d playlists", n)
	}
}

func TestPlaylistTracks(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("listener")
	path := env.createPlaylist(token, "Mix", false)

	env.expect(env.do(http.MethodPost, path+"/tracks", token, track(1)), http.StatusOK)
	noDuration := gin.H{"trackId": "deezer-2", "title": "Song 2", "artist": "Artist"}
	p := playlistOf(env.expect(env.do(http.MethodPost, path+"/tracks", token, noDuration), http.StatusOK))

	if got := p["totalDuration"].(float64); got != 215+180 {
		t.Errorf("totalDuration = %v, want %d", got, 215+180)
	}
	tracks := p["tracks"].([]any)
	if d := tracks[1].(map[string]any)["duration"]; d != "3:00" {
		t.Errorf("default duration = %v", d)
	}

	w := env.do(http.MethodPost, path+"/tracks", token, track(1))
	if body := env.expect(w, http.StatusBadRequest); body["error"] != "Track already in playlist" {
		t.Errorf("error = %v", body["error"])
	}

	env.expect(env.do(http.MethodPost, path+"/tracks", token, track(3)), http.StatusOK)
	p = playlistOf(env.expect(env.do(http.MethodDelete, path+"/tracks/deezer-2", token, nil), http.StatusOK))
	tracks = p["tracks"].([]any)
	if ids := trackIDs(tracks); !slices.Equal(ids, []string{"deezer-1", "deezer-3"}) {
		t.Errorf("tracks = %v", ids)
	}
	for i, tr := range tracks {
		if pos := tr.(map[string]any)["position"].(float64); int(pos) != i {
			t.Errorf("track %d position = %v", i, pos)
		}
	}
	if got := p["totalDuration"].(float64); got != 215*2 {
		t.Errorf("totalDuration = %v after removal", got)
	}
	env.expect(env.do(http.MethodDelete, path+"/tracks/deezer-2", token, nil), http.StatusNotFound)
}

func TestReorderPlaylist(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("listener")
	path := env.createPlaylist(token, "Mix", false)
	for n := 1; n <= 4; n++ {
		env.expect(env.do(http.MethodPost, path+"/tracks", token, track(n)), http.StatusOK)
	}

	env.expect(env.do(http.MethodPatch, path+"/reorder", token, gin.H{}), http.StatusBadRequest)

	order := []string{"deezer-3", "deezer-unknown", "deezer-1", "deezer-3", "deezer-2"}
	p := playlistOf(env.expect(env.do(http.MethodPatch, path+"/reorder", token, gin.H{"trackIds": order}), http.StatusOK))
	if ids := trackIDs(p["tracks"].([]any)); !slices.Equal(ids, []string{"deezer-3", "deezer-1", "deezer-2"}) {
		t.Errorf("tracks = %v", ids)
	}

	// Order survives a reload.
	p = playlistOf(env.expect(env.do(http.MethodGet, path, token, nil), http.StatusOK))
	if ids := trackIDs(p["tracks"].([]any)); !slices.Equal(ids, []string{"deezer-3", "deezer-1", "deezer-2"}) {
		t.Errorf("reloaded tracks = %v", ids)
	}
	if got := p["totalDuration"].(float64); got != 215*3 {
		t.Errorf("totalDuration = %v", got)
	}
}

func TestUpdateAndDeletePlaylist(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("listener")
	path := env.createPlaylist(token, "Draft", false)
	env.expect(env.do(http.MethodPost, path+"/tracks", token, track(1)), http.StatusOK)

	env.expect(env.do(http.MethodPatch, path, token, gin.H{"name": ""}), http.StatusBadRequest)

	p := playlistOf(env.expect(env.do(http.MethodPatch, path, token, gin.H{"name": "Final", "isPublic": true}), http.StatusOK))
	if p["name"] != "Final" || p["isPublic"] != true {
		t.Errorf("playlist = %v", p)
	}

	env.expect(env.do(http.MethodDelete, path, token, nil), http.StatusOK)
	env.expect(env.do(http.MethodGet, path, token, nil), http.StatusNotFound)

	var orphans int64
	env.db.Table("playlist_tracks").Count(&orphans)
	if orphans != 0 {
		t.Errorf("%d playlist tracks left behind", orphans)
	}
}

func (e *testEnv) upload(path, token, contentType string, data []byte) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="cover"; filename="cover.PNG"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		e.t.Fatal(err)
	}
	part.Write(data)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func TestUploadCover(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("listener")
	path := env.createPlaylist(token, "Art", false)

	env.expect(env.upload(path+"/cover", token, "text/plain", []byte("hi")), http.StatusBadRequest)

	png := []byte("\x89PNG\r\n\x1a\nfake")
	p := playlistOf(env.expect(env.upload(path+"/cover", token, "image/png", png), http.StatusOK))
	cover := p["coverImage"].(string)
	if !strings.HasPrefix(cover, "/media/covers/") || !strings.HasSuffix(cover, ".png") {
		t.Fatalf("coverImage = %q", cover)
	}

	w := env.do(http.MethodGet, cover, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("media status = %d", w.Code)
	}
	got, _ := io.ReadAll(w.Body)
	if !bytes.Equal(got, png) {
		t.Errorf("served %q", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}

	// Replacing the cover removes the previous object.
	p = playlistOf(env.expect(env.upload(path+"/cover", token, "image/png", png), http.StatusOK))
	if p["coverImage"] == cover {
		t.Fatal("cover key not rotated")
	}
	if w := env.do(http.MethodGet, cover, "", nil); w.Code != http.StatusNotFound {
		t.Errorf("old cover status = %d, want 404", w.Code)
	}
}
