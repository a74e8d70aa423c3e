package catalog

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultSpotifyURL      = "https://api.spotify.com/v1"
	DefaultSpotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// Spotify uses the Web API with an app-only client-credentials token.
type Spotify struct {
	client
}

func NewSpotify(baseURL, tokenURL, clientID, clientSecret string, opts ClientOptions) *Spotify {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	base := opts.HTTP
	if base == nil {
		base = &http.Client{Timeout: timeout}
	}
	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	authed := cc.Client(ctx)
	authed.Timeout = base.Timeout

	opts.HTTP = authed
	return &Spotify{client: newClient("spotify", baseURL, opts)}
}

type spotifyTrack struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DurationMS int    `json:"duration_ms"`
	PreviewURL string `json:"preview_url"`
	Artists    []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name   string `json:"name"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
}

func (s spotifyTrack) toTrack() Track {
	names := make([]string, 0, len(s.Artists))
	for _, a := range s.Artists {
		names = append(names, a.Name)
	}
	t := Track{
		ID:         prefixID("spotify", s.ID),
		Title:      s.Name,
		Artist:     strings.Join(names, ", "),
		Album:      s.Album.Name,
		Duration:   FormatDuration(s.DurationMS / 1000),
		PreviewURL: s.PreviewURL,
		Source:     "spotify",
	}
	if len(s.Album.Images) > 0 {
		t.Image = s.Album.Images[0].URL
	}
	return t
}

func (p *Spotify) Search(ctx context.Context, query string, limit int) ([]Track, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("type", "track")
	q.Set("limit", strconv.Itoa(limit))

	var res struct {
		Tracks struct {
			Items []spotifyTrack `json:"items"`
		} `json:"tracks"`
	}
	if err := p.getJSON(ctx, "/search", q, &res); err != nil {
		return nil, err
	}
	out := make([]Track, 0, len(res.Tracks.Items))
	for _, it := range res.Tracks.Items {
		out = append(out, it.toTrack())
	}
	return out, nil
}

func (p *Spotify) Track(ctx context.Context, nativeID string) (Track, error) {
	var res spotifyTrack
	if err := p.getJSON(ctx, "/tracks/"+url.PathEscape(nativeID), nil, &res); err != nil {
		return Track{}, err
	}
	return res.toTrack(), nil
}

// Chart is unsupported with app-only credentials.
func (p *Spotify) Chart(ctx context.Context, limit int) ([]Track, error) {
	return nil, nil
}
