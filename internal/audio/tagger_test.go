package audio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// mpegFrames returns bytes that start with an MPEG-1 Layer III frame header.
func mpegFrames(n int) []byte {
	b := make([]byte, n)
	for i := 0; i+4 <= n; i += 418 {
		copy(b[i:], []byte{0xFF, 0xFB, 0x90, 0x64})
	}
	return b
}

func TestIsMP3(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		contentType string
		want        bool
	}{
		{"content type", []byte("anything"), "audio/mpeg", true},
		{"content type with params", []byte("anything"), "Audio/MPEG; charset=binary", true},
		{"frame sync", mpegFrames(1024), "application/octet-stream", true},
		{"short frame sync", []byte{0xFF, 0xFB}, "", true},
		{"id3 header", append([]byte("ID3\x04\x00\x00\x00\x00\x00\x00"), mpegFrames(256)...), "", true},
		{"flac", append([]byte("fLaC"), make([]byte, 200)...), "", false},
		{"text", []byte("hello world, not audio at all"), "text/plain", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bytes.NewReader(tt.data)
			if got := IsMP3(r, tt.contentType); got != tt.want {
				t.Errorf("IsMP3() = %v, want %v", got, tt.want)
			}
			if pos, _ := r.Seek(0, 1); pos != 0 {
				t.Errorf("reader left at %d, want 0", pos)
			}
		})
	}
}

func TestStampMP3RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.mp3")
	if err := os.WriteFile(path, mpegFrames(4096), 0o644); err != nil {
		t.Fatal(err)
	}

	want := Tags{Title: "Señorita", Artist: "Shawn Mendes, Camila Cabello", Album: "Señorita"}
	if err := StampMP3(path, want); err != nil {
		t.Fatalf("StampMP3: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if !IsMP3(f, "") {
		t.Error("stamped file no longer detected as MP3")
	}
	got, err := ReadTags(f)
	if err != nil {
		t.Fatalf("ReadTags: %v", err)
	}
	if got != want {
		t.Errorf("ReadTags() = %+v, want %+v", got, want)
	}
}

func TestStampMP3SkipsEmptyFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.mp3")
	if err := os.WriteFile(path, mpegFrames(2048), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := StampMP3(path, Tags{Title: "Only Title"}); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, err := ReadTags(f)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Only Title" || got.Artist != "" {
		t.Errorf("ReadTags() = %+v", got)
	}
}

func TestStampMP3MissingFile(t *testing.T) {
	if err := StampMP3(filepath.Join(t.TempDir(), "missing", "x.mp3"), Tags{Title: "x"}); err == nil {
		t.Error("expected error for missing file")
	}
}
