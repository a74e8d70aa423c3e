package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Deezer talks to the public Deezer API. No key is needed.
type Deezer struct {
	client
}

func NewDeezer(baseURL string, opts ClientOptions) *Deezer {
	return &Deezer{client: newClient("deezer", baseURL, opts)}
}

type deezerTrack struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Duration int    `json:"duration"`
	Preview  string `json:"preview"`
	Artist   struct {
		Name string `json:"name"`
	} `json:"artist"`
	Album struct {
		Title       string `json:"title"`
		CoverMedium string `json:"cover_medium"`
	} `json:"album"`
}

type deezerList struct {
	Data  []deezerTrack `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (d deezerTrack) toTrack() Track {
	return Track{
		ID:         prefixID("deezer", strconv.FormatInt(d.ID, 10)),
		Title:      d.Title,
		Artist:     d.Artist.Name,
		Album:      d.Album.Title,
		Image:      d.Album.CoverMedium,
		Duration:   FormatDuration(d.Duration),
		PreviewURL: d.Preview,
		Source:     "deezer",
	}
}

func (p *Deezer) list(ctx context.Context, path string, q url.Values) ([]Track, error) {
	var res deezerList
	if err := p.getJSON(ctx, path, q, &res); err != nil {
		return nil, err
	}
	if res.Error != nil {
		return nil, fmt.Errorf("%w: deezer: %s", ErrProviderFailure, res.Error.Message)
	}
	out := make([]Track, 0, len(res.Data))
	for _, d := range res.Data {
		out = append(out, d.toTrack())
	}
	return out, nil
}

func (p *Deezer) Search(ctx context.Context, query string, limit int) ([]Track, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	return p.list(ctx, "/search", q)
}

func (p *Deezer) Chart(ctx context.Context, limit int) ([]Track, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	return p.list(ctx, "/chart/0/tracks", q)
}

func (p *Deezer) Track(ctx context.Context, nativeID string) (Track, error) {
	var res struct {
		deezerTrack
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := p.getJSON(ctx, "/track/"+url.PathEscape(nativeID), nil, &res); err != nil {
		return Track{}, err
	}
	// Deezer answers unknown ids with 200 and an error object.
	if res.Error != nil || res.ID == 0 {
		return Track{}, fmt.Errorf("%w: deezer-%s", ErrTrackNotFound, nativeID)
	}
	return res.toTrack(), nil
}
