package catalog

import (
	"fmt"
	"strings"
)

// Track is the provider-neutral track shape returned by every catalog call.
// Optional fields are left empty when a provider does not supply them.
type Track struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album,omitempty"`
	Image      string `json:"image,omitempty"`
	Duration   string `json:"duration,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
	Source     string `json:"source,omitempty"`
}

// FormatDuration renders seconds as "M:SS". Zero or negative yields "".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// ParseDuration is the inverse of FormatDuration. It returns fallback when s
// is not a valid "M:SS" string.
func ParseDuration(s string, fallback int) int {
	mins, secs, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return fallback
	}
	var m, sec int
	if _, err := fmt.Sscanf(mins, "%d", &m); err != nil {
		return fallback
	}
	if _, err := fmt.Sscanf(secs, "%d", &sec); err != nil {
		return fallback
	}
	if m < 0 || sec < 0 || sec > 59 {
		return fallback
	}
	return m*60 + sec
}

// ParseID splits a prefixed id such as "deezer-3135556" into its provider and
// native parts.
func ParseID(id string) (provider, native string, err error) {
	provider, native, ok := strings.Cut(id, "-")
	if !ok || provider == "" || native == "" {
		return "", "", fmt.Errorf("%w: malformed track id %q", ErrInvalidArgument, id)
	}
	return provider, native, nil
}

func prefixID(provider, native string) string {
	return provider + "-" + native
}

type dedupeKey struct {
	title, artist string
}

func keyOf(t Track) dedupeKey {
	return dedupeKey{strings.ToLower(t.Title), strings.ToLower(t.Artist)}
}

// Dedupe drops later tracks whose lowercased (title, artist) pair has already
// been seen. Order is preserved and the first occurrence wins.
func Dedupe(tracks []Track) []Track {
	seen := make(map[dedupeKey]struct{}, len(tracks))
	out := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		k := keyOf(t)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}
