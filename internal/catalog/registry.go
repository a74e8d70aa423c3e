package catalog

import "time"

// Settings selects and configures the upstream providers.
type Settings struct {
	Timeout   time.Duration
	RateLimit float64

	DeezerURL string
	ITunesURL string

	LastFmURL    string
	LastFmAPIKey string

	YouTubeURL    string
	YouTubeAPIKey string

	SpotifyURL          string
	SpotifyTokenURL     string
	SpotifyClientID     string
	SpotifyClientSecret string
}

// NewProviders builds the active providers in their fixed iteration order:
// deezer, itunes, lastfm, youtube, spotify. Keyed providers are skipped
// entirely when their credentials are not set.
func NewProviders(s Settings) []Provider {
	opts := ClientOptions{Timeout: s.Timeout, RateLimit: s.RateLimit}

	providers := []Provider{
		NewDeezer(s.DeezerURL, opts),
		NewITunes(s.ITunesURL, opts),
	}
	if s.LastFmAPIKey != "" {
		providers = append(providers, NewLastFm(s.LastFmURL, s.LastFmAPIKey, opts))
	}
	if s.YouTubeAPIKey != "" {
		providers = append(providers, NewYouTube(s.YouTubeURL, s.YouTubeAPIKey, opts))
	}
	if s.SpotifyClientID != "" && s.SpotifyClientSecret != "" {
		apiURL, tokenURL := s.SpotifyURL, s.SpotifyTokenURL
		if apiURL == "" {
			apiURL = DefaultSpotifyURL
		}
		if tokenURL == "" {
			tokenURL = DefaultSpotifyTokenURL
		}
		providers = append(providers, NewSpotify(apiURL, tokenURL, s.SpotifyClientID, s.SpotifyClientSecret, opts))
	}
	return providers
}
