package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// LastFm queries the Last.fm web service. It needs an API key and carries no
// playable previews.
type LastFm struct {
	client
	apiKey string
}

func NewLastFm(baseURL, apiKey string, opts ClientOptions) *LastFm {
	return &LastFm{client: newClient("lastfm", baseURL, opts), apiKey: apiKey}
}

type lastfmImage struct {
	Text string `json:"#text"`
	Size string `json:"size"`
}

// imageAt mirrors Last.fm's size ladder: small, medium, large, extralarge.
func imageAt(images []lastfmImage, i int) string {
	if i < len(images) {
		return images[i].Text
	}
	return ""
}

func lastfmID(mbid, name string) string {
	if mbid != "" {
		return prefixID("lastfm", mbid)
	}
	return prefixID("lastfm", name)
}

func (p *LastFm) params(method string) url.Values {
	q := url.Values{}
	q.Set("method", method)
	q.Set("api_key", p.apiKey)
	q.Set("format", "json")
	return q
}

func (p *LastFm) Search(ctx context.Context, query string, limit int) ([]Track, error) {
	q := p.params("track.search")
	q.Set("track", query)
	q.Set("limit", strconv.Itoa(limit))

	var res struct {
		Results struct {
			TrackMatches struct {
				Track []struct {
					Name   string        `json:"name"`
					Artist string        `json:"artist"`
					MBID   string        `json:"mbid"`
					Image  []lastfmImage `json:"image"`
				} `json:"track"`
			} `json:"trackmatches"`
		} `json:"results"`
	}
	if err := p.getJSON(ctx, "", q, &res); err != nil {
		return nil, err
	}

	matches := res.Results.TrackMatches.Track
	out := make([]Track, 0, len(matches))
	for _, m := range matches {
		out = append(out, Track{
			ID:     lastfmID(m.MBID, m.Name),
			Title:  m.Name,
			Artist: m.Artist,
			Image:  imageAt(m.Image, 2),
			Source: "lastfm",
		})
	}
	return out, nil
}

func (p *LastFm) Chart(ctx context.Context, limit int) ([]Track, error) {
	q := p.params("chart.gettoptracks")
	q.Set("limit", strconv.Itoa(limit))

	var res struct {
		Tracks struct {
			Track []struct {
				Name     string `json:"name"`
				Duration string `json:"duration"`
				MBID     string `json:"mbid"`
				Artist   struct {
					Name string `json:"name"`
				} `json:"artist"`
				Image []lastfmImage `json:"image"`
			} `json:"track"`
		} `json:"tracks"`
	}
	if err := p.getJSON(ctx, "", q, &res); err != nil {
		return nil, err
	}

	out := make([]Track, 0, len(res.Tracks.Track))
	for _, t := range res.Tracks.Track {
		secs, _ := strconv.Atoi(t.Duration)
		out = append(out, Track{
			ID:       lastfmID(t.MBID, t.Name),
			Title:    t.Name,
			Artist:   t.Artist.Name,
			Image:    imageAt(t.Image, 2),
			Duration: FormatDuration(secs),
			Source:   "lastfm",
		})
	}
	return out, nil
}

// Track resolves a MusicBrainz id. Ids minted from a bare track name cannot be
// looked up and report ErrTrackNotFound.
func (p *LastFm) Track(ctx context.Context, nativeID string) (Track, error) {
	q := p.params("track.getInfo")
	q.Set("mbid", nativeID)

	var res struct {
		Track *struct {
			Name     string `json:"name"`
			MBID     string `json:"mbid"`
			Duration string `json:"duration"` // milliseconds
			Artist   struct {
				Name string `json:"name"`
			} `json:"artist"`
			Album struct {
				Title string        `json:"title"`
				Image []lastfmImage `json:"image"`
			} `json:"album"`
		} `json:"track"`
		Error int `json:"error"`
	}
	if err := p.getJSON(ctx, "", q, &res); err != nil {
		return Track{}, err
	}
	if res.Error != 0 || res.Track == nil {
		return Track{}, fmt.Errorf("%w: lastfm-%s", ErrTrackNotFound, nativeID)
	}

	ms, _ := strconv.Atoi(res.Track.Duration)
	return Track{
		ID:       lastfmID(res.Track.MBID, res.Track.Name),
		Title:    res.Track.Name,
		Artist:   res.Track.Artist.Name,
		Album:    res.Track.Album.Title,
		Image:    imageAt(res.Track.Album.Image, 2),
		Duration: FormatDuration(ms / 1000),
		Source:   "lastfm",
	}, nil
}
