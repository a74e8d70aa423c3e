package utils

import (
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}\-\s]+`)

// Sanitize keeps letters, digits, dashes and spaces, then joins words with
// underscores. An empty result falls back to def.
func Sanitize(text, def string) string {
	clean := strings.Join(strings.Fields(unsafeChars.ReplaceAllString(text, "")), "_")
	if clean == "" {
		return def
	}
	return clean
}

// DownloadFilename builds "Artist_-_Title.ext" for attachment downloads.
func DownloadFilename(artist, title, ext string) string {
	name := Sanitize(artist, "Unknown") + "_-_" + Sanitize(title, "Track")
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return name + strings.ToLower(ext)
}
