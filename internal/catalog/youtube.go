package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// YouTube uses the Data API v3. Results point at the watch page rather than
// an audio stream.
type YouTube struct {
	client
	apiKey string
}

func NewYouTube(baseURL, apiKey string, opts ClientOptions) *YouTube {
	return &YouTube{client: newClient("youtube", baseURL, opts), apiKey: apiKey}
}

type youtubeSnippet struct {
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	Thumbnails   struct {
		Medium struct {
			URL string `json:"url"`
		} `json:"medium"`
		High struct {
			URL string `json:"url"`
		} `json:"high"`
	} `json:"thumbnails"`
}

func (s youtubeSnippet) image() string {
	if s.Thumbnails.High.URL != "" {
		return s.Thumbnails.High.URL
	}
	return s.Thumbnails.Medium.URL
}

type youtubeVideos struct {
	Items []struct {
		ID             string         `json:"id"`
		Snippet        youtubeSnippet `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

func watchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

func (p *YouTube) Search(ctx context.Context, query string, limit int) ([]Track, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("type", "video")
	q.Set("videoCategoryId", "10")
	q.Set("q", query)
	q.Set("maxResults", strconv.Itoa(limit))
	q.Set("key", p.apiKey)

	var res struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet youtubeSnippet `json:"snippet"`
		} `json:"items"`
	}
	if err := p.getJSON(ctx, "/search", q, &res); err != nil {
		return nil, err
	}

	out := make([]Track, 0, len(res.Items))
	for _, it := range res.Items {
		if it.ID.VideoID == "" {
			continue
		}
		out = append(out, Track{
			ID:         prefixID("youtube", it.ID.VideoID),
			Title:      it.Snippet.Title,
			Artist:     it.Snippet.ChannelTitle,
			Image:      it.Snippet.image(),
			PreviewURL: watchURL(it.ID.VideoID),
			Source:     "youtube",
		})
	}
	return out, nil
}

func (p *YouTube) videos(ctx context.Context, q url.Values) ([]Track, error) {
	q.Set("part", "snippet,contentDetails")
	q.Set("key", p.apiKey)

	var res youtubeVideos
	if err := p.getJSON(ctx, "/videos", q, &res); err != nil {
		return nil, err
	}
	out := make([]Track, 0, len(res.Items))
	for _, it := range res.Items {
		out = append(out, Track{
			ID:         prefixID("youtube", it.ID),
			Title:      it.Snippet.Title,
			Artist:     it.Snippet.ChannelTitle,
			Image:      it.Snippet.image(),
			Duration:   FormatDuration(parseISODuration(it.ContentDetails.Duration)),
			PreviewURL: watchURL(it.ID),
			Source:     "youtube",
		})
	}
	return out, nil
}

func (p *YouTube) Chart(ctx context.Context, limit int) ([]Track, error) {
	q := url.Values{}
	q.Set("chart", "mostPopular")
	q.Set("videoCategoryId", "10")
	q.Set("maxResults", strconv.Itoa(limit))
	return p.videos(ctx, q)
}

func (p *YouTube) Track(ctx context.Context, nativeID string) (Track, error) {
	q := url.Values{}
	q.Set("id", nativeID)
	tracks, err := p.videos(ctx, q)
	if err != nil {
		return Track{}, err
	}
	if len(tracks) == 0 {
		return Track{}, fmt.Errorf("%w: youtube-%s", ErrTrackNotFound, nativeID)
	}
	return tracks[0], nil
}

// parseISODuration reads the PT#H#M#S form used by contentDetails.duration.
func parseISODuration(s string) int {
	s = strings.TrimPrefix(s, "PT")
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(strings.ToLower(s))
	if err != nil {
		return 0
	}
	return int(d.Seconds())
}
