package audio

import (
	"io"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/dhowden/tag"
)

// Tags are the fields stamped into downloaded previews.
type Tags struct {
	Title  string
	Artist string
	Album  string
}

// IsMP3 reports whether r holds MPEG audio. The content type is trusted
// first; otherwise the stream is sniffed for ID3 headers or a frame sync.
// r is rewound before returning.
func IsMP3(r io.ReadSeeker, contentType string) bool {
	defer r.Seek(0, io.SeekStart)

	if strings.HasPrefix(strings.ToLower(contentType), "audio/mpeg") {
		return true
	}
	if _, fileType, err := tag.Identify(r); err == nil {
		switch fileType {
		case tag.MP3:
			return true
		case tag.UnknownFileType:
		default:
			return false
		}
	}

	// Untagged MP3: 11 set bits of frame sync at offset 0.
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return false
	}
	head := make([]byte, 2)
	if _, err := io.ReadFull(r, head); err != nil {
		return false
	}
	return head[0] == 0xFF && head[1]&0xE0 == 0xE0
}

// StampMP3 writes title, artist and album frames into the MP3 at path,
// creating an ID3v2 tag if the file has none. Empty fields are skipped.
func StampMP3(path string, t Tags) error {
	id3, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer id3.Close()

	id3.SetDefaultEncoding(id3v2.EncodingUTF8)
	if t.Title != "" {
		id3.SetTitle(t.Title)
	}
	if t.Artist != "" {
		id3.SetArtist(t.Artist)
	}
	if t.Album != "" {
		id3.SetAlbum(t.Album)
	}
	id3.AddCommentFrame(id3v2.CommentFrame{
		Encoding:    id3v2.EncodingUTF8,
		Language:    "eng",
		Description: "source",
		Text:        "Auraluxe preview",
	})
	return id3.Save()
}

// ReadTags extracts title, artist and album from any format dhowden/tag
// understands.
func ReadTags(r io.ReadSeeker) (Tags, error) {
	m, err := tag.ReadFrom(r)
	if err != nil {
		return Tags{}, err
	}
	return Tags{Title: m.Title(), Artist: m.Artist(), Album: m.Album()}, nil
}
