package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestDeezerSearch(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "imagine" || r.URL.Query().Get("limit") != "5" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"data":[{"id":3135556,"title":"Imagine","duration":183,"preview":"https://cdn/p.mp3",
			"artist":{"name":"John Lennon"},"album":{"title":"Imagine","cover_medium":"https://cdn/c.jpg"}}]}`)
	})

	tracks, err := NewDeezer(srv.URL, ClientOptions{}).Search(context.Background(), "imagine", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	want := Track{
		ID: "deezer-3135556", Title: "Imagine", Artist: "John Lennon", Album: "Imagine",
		Image: "https://cdn/c.jpg", Duration: "3:03", PreviewURL: "https://cdn/p.mp3", Source: "deezer",
	}
	if len(tracks) != 1 || tracks[0] != want {
		t.Errorf("got %+v, want %+v", tracks, want)
	}
}

func TestDeezerTrackNotFound(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":{"type":"DataException","message":"no data","code":800}}`)
	})

	_, err := NewDeezer(srv.URL, ClientOptions{}).Track(context.Background(), "42")
	if !errors.Is(err, ErrTrackNotFound) {
		t.Errorf("expected ErrTrackNotFound, got %v", err)
	}
}

func TestDeezerChartPath(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chart/0/tracks" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"data":[{"id":1,"title":"A","artist":{"name":"B"}}]}`)
	})

	tracks, err := NewDeezer(srv.URL, ClientOptions{}).Chart(context.Background(), 3)
	if err != nil || len(tracks) != 1 {
		t.Fatalf("Chart = %v, %v", tracks, err)
	}
	if tracks[0].Duration != "" {
		t.Errorf("missing duration should stay absent, got %q", tracks[0].Duration)
	}
}

func TestITunesSearchNormalises(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("term") != "imagine" || q.Get("entity") != "song" || q.Get("media") != "music" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"resultCount":1,"results":[{"trackId":1440833098,"trackName":"Imagine",
			"artistName":"John Lennon","collectionName":"Imagine (Remastered)",
			"artworkUrl100":"https://is1/100x100bb.jpg","trackTimeMillis":184000,"previewUrl":"https://audio/p.m4a"}]}`)
	})

	tracks, err := NewITunes(srv.URL, ClientOptions{}).Search(context.Background(), "imagine", 5)
	if err != nil || len(tracks) != 1 {
		t.Fatalf("Search = %v, %v", tracks, err)
	}
	got := tracks[0]
	if got.ID != "itunes-1440833098" {
		t.Errorf("id: %q", got.ID)
	}
	if got.Image != "https://is1/300x300bb.jpg" {
		t.Errorf("artwork should be upscaled, got %q", got.Image)
	}
	if got.Duration != "3:04" {
		t.Errorf("duration: %q", got.Duration)
	}
}

func TestITunesChartUsesTopSongs(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("term") != "top songs" {
			t.Errorf("unexpected term %q", r.URL.Query().Get("term"))
		}
		fmt.Fprint(w, `{"resultCount":0,"results":[]}`)
	})

	if _, err := NewITunes(srv.URL, ClientOptions{}).Chart(context.Background(), 5); err != nil {
		t.Fatalf("Chart failed: %v", err)
	}
}

func TestLastFmSearch(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("method") != "track.search" || q.Get("api_key") != "key" || q.Get("format") != "json" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"results":{"trackmatches":{"track":[
			{"name":"Imagine","artist":"John Lennon","mbid":"abc","image":[{"#text":"s"},{"#text":"m"},{"#text":"l"}]},
			{"name":"Imagine Dragons","artist":"Someone","mbid":"","image":[]}
		]}}}`)
	})

	tracks, err := NewLastFm(srv.URL, "key", ClientOptions{}).Search(context.Background(), "imagine", 5)
	if err != nil || len(tracks) != 2 {
		t.Fatalf("Search = %v, %v", tracks, err)
	}
	if tracks[0].ID != "lastfm-abc" || tracks[0].Image != "l" {
		t.Errorf("first: %+v", tracks[0])
	}
	if tracks[1].ID != "lastfm-Imagine Dragons" || tracks[1].Image != "" {
		t.Errorf("second: %+v", tracks[1])
	}
	if tracks[0].PreviewURL != "" {
		t.Errorf("last.fm carries no previews")
	}
}

func TestYouTubeSearchAndLookup(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			if r.URL.Query().Get("type") != "video" || r.URL.Query().Get("key") != "yt" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			fmt.Fprint(w, `{"items":[{"id":{"videoId":"YkgkThdzX-8"},
				"snippet":{"title":"Imagine","channelTitle":"John Lennon","thumbnails":{"medium":{"url":"m.jpg"}}}}]}`)
		case "/videos":
			fmt.Fprint(w, `{"items":[{"id":"YkgkThdzX-8","snippet":{"title":"Imagine","channelTitle":"John Lennon",
				"thumbnails":{"high":{"url":"h.jpg"}}},"contentDetails":{"duration":"PT3M5S"}}]}`)
		default:
			http.NotFound(w, r)
		}
	})
	yt := NewYouTube(srv.URL, "yt", ClientOptions{})

	tracks, err := yt.Search(context.Background(), "imagine", 5)
	if err != nil || len(tracks) != 1 {
		t.Fatalf("Search = %v, %v", tracks, err)
	}
	if tracks[0].PreviewURL != "https://www.youtube.com/watch?v=YkgkThdzX-8" || tracks[0].Image != "m.jpg" {
		t.Errorf("search result: %+v", tracks[0])
	}

	tr, err := yt.Track(context.Background(), "YkgkThdzX-8")
	if err != nil {
		t.Fatalf("Track failed: %v", err)
	}
	if tr.Duration != "3:05" || tr.Image != "h.jpg" || tr.ID != "youtube-YkgkThdzX-8" {
		t.Errorf("lookup result: %+v", tr)
	}
}

func TestParseISODuration(t *testing.T) {
	tests := map[string]int{"PT3M5S": 185, "PT1H": 3600, "PT45S": 45, "": 0, "P1D": 0}
	for in, want := range tests {
		if got := parseISODuration(in); got != want {
			t.Errorf("parseISODuration(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestSpotifyUsesClientCredentials(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"tok","token_type":"Bearer","expires_in":3600}`)
		case "/v1/search":
			if got := r.Header.Get("Authorization"); got != "Bearer tok" {
				t.Errorf("authorization header = %q", got)
			}
			fmt.Fprint(w, `{"tracks":{"items":[{"id":"7qiZ","name":"Imagine","duration_ms":187000,
				"artists":[{"name":"John Lennon"},{"name":"Plastic Ono Band"}],
				"album":{"name":"Imagine","images":[{"url":"big.jpg"}]}}]}}`)
		default:
			http.NotFound(w, r)
		}
	})

	sp := NewSpotify(srv.URL+"/v1", srv.URL+"/token", "id", "secret", ClientOptions{Timeout: time.Second})
	tracks, err := sp.Search(context.Background(), "imagine", 5)
	if err != nil || len(tracks) != 1 {
		t.Fatalf("Search = %v, %v", tracks, err)
	}
	if tracks[0].Artist != "John Lennon, Plastic Ono Band" || tracks[0].Image != "big.jpg" || tracks[0].Duration != "3:07" {
		t.Errorf("got %+v", tracks[0])
	}
}

func TestProviderFailuresAreWrapped(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }, ErrProviderFailure},
		{"malformed", func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, `{"data":[`) }, ErrProviderFailure},
		{"not found", func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) }, ErrTrackNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.handler)
			_, err := NewDeezer(srv.URL, ClientOptions{}).Search(context.Background(), "x", 1)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewProvidersOrderAndKeys(t *testing.T) {
	names := func(ps []Provider) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.Name())
		}
		return out
	}

	bare := names(NewProviders(Settings{}))
	if fmt.Sprint(bare) != "[deezer itunes]" {
		t.Errorf("unkeyed providers: %v", bare)
	}

	full := names(NewProviders(Settings{
		LastFmAPIKey:        "a",
		YouTubeAPIKey:       "b",
		SpotifyClientID:     "c",
		SpotifyClientSecret: "d",
	}))
	if fmt.Sprint(full) != "[deezer itunes lastfm youtube spotify]" {
		t.Errorf("keyed providers: %v", full)
	}
}
