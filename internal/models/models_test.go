package models

import "testing"

func TestPlaylistRecalculateDuration(t *testing.T) {
	p := Playlist{Tracks: []PlaylistTrack{
		{TrackID: "a", Duration: "3:35"},
		{TrackID: "b", Duration: ""},
		{TrackID: "c", Duration: "0:25"},
		{TrackID: "d", Duration: "garbage"},
	}}
	p.RecalculateDuration()

	want := 215 + 180 + 25 + 180
	if p.TotalDuration != want {
		t.Errorf("TotalDuration = %d, want %d", p.TotalDuration, want)
	}
}

func TestPlaylistRenumberAndHasTrack(t *testing.T) {
	p := Playlist{Tracks: []PlaylistTrack{{TrackID: "x", Position: 4}, {TrackID: "y", Position: 9}}}
	p.Renumber()

	if p.Tracks[0].Position != 0 || p.Tracks[1].Position != 1 {
		t.Errorf("positions not renumbered: %+v", p.Tracks)
	}
	if !p.HasTrack("y") || p.HasTrack("z") {
		t.Error("HasTrack mismatch")
	}
}

func TestNewUser(t *testing.T) {
	u, err := NewUser(" listener ", " Listener@Example.COM ", "secret1")
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	if u.Username != "listener" || u.Email != "listener@example.com" {
		t.Errorf("normalisation failed: %q %q", u.Username, u.Email)
	}
	if u.Role != RoleUser || !u.IsActive || u.IsAdmin() {
		t.Errorf("unexpected role/state: %+v", u)
	}
	if u.Preferences != DefaultPreferences() {
		t.Errorf("preferences = %+v", u.Preferences)
	}
	if !u.CheckPassword("secret1") || u.CheckPassword("wrong") {
		t.Error("password check mismatch")
	}
	if u.PasswordHash == "secret1" {
		t.Error("password stored in clear text")
	}
}
