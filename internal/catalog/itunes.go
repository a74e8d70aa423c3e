package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ITunes queries the iTunes Search API.
type ITunes struct {
	client
}

func NewITunes(baseURL string, opts ClientOptions) *ITunes {
	return &ITunes{client: newClient("itunes", baseURL, opts)}
}

type itunesResult struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		TrackID         int64  `json:"trackId"`
		TrackName       string `json:"trackName"`
		ArtistName      string `json:"artistName"`
		CollectionName  string `json:"collectionName"`
		ArtworkURL100   string `json:"artworkUrl100"`
		TrackTimeMillis int    `json:"trackTimeMillis"`
		PreviewURL      string `json:"previewUrl"`
	} `json:"results"`
}

func (r itunesResult) tracks() []Track {
	out := make([]Track, 0, len(r.Results))
	for _, it := range r.Results {
		if it.TrackID == 0 {
			continue
		}
		out = append(out, Track{
			ID:         prefixID("itunes", strconv.FormatInt(it.TrackID, 10)),
			Title:      it.TrackName,
			Artist:     it.ArtistName,
			Album:      it.CollectionName,
			Image:      strings.Replace(it.ArtworkURL100, "100x100", "300x300", 1),
			Duration:   FormatDuration(it.TrackTimeMillis / 1000),
			PreviewURL: it.PreviewURL,
			Source:     "itunes",
		})
	}
	return out
}

func (p *ITunes) Search(ctx context.Context, query string, limit int) ([]Track, error) {
	q := url.Values{}
	q.Set("term", query)
	q.Set("media", "music")
	q.Set("entity", "song")
	q.Set("limit", strconv.Itoa(limit))

	var res itunesResult
	if err := p.getJSON(ctx, "/search", q, &res); err != nil {
		return nil, err
	}
	return res.tracks(), nil
}

// Chart has no dedicated endpoint on iTunes; a "top songs" search stands in.
func (p *ITunes) Chart(ctx context.Context, limit int) ([]Track, error) {
	return p.Search(ctx, "top songs", limit)
}

func (p *ITunes) Track(ctx context.Context, nativeID string) (Track, error) {
	q := url.Values{}
	q.Set("id", nativeID)
	q.Set("entity", "song")

	var res itunesResult
	if err := p.getJSON(ctx, "/lookup", q, &res); err != nil {
		return Track{}, err
	}
	tracks := res.tracks()
	if len(tracks) == 0 {
		return Track{}, fmt.Errorf("%w: itunes-%s", ErrTrackNotFound, nativeID)
	}
	return tracks[0], nil
}
