package models

import (
	"time"

	"github.com/Harsh00198/Auraluxe-Music/internal/catalog"
)

const (
	DefaultTrackDuration = "3:00"
	// Tracks with an unreadable duration count as three minutes.
	fallbackTrackSeconds = 180
	MaxPlaylistName      = 100
)

// Playlist is a user-authored, ordered list of tracks.
type Playlist struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"index" json:"updatedAt"`
	Name          string          `gorm:"type:varchar(100);not null" json:"name"`
	Description   string          `gorm:"type:varchar(500)" json:"description"`
	CoverImage    string          `json:"coverImage"`
	IsPublic      bool            `json:"isPublic"`
	OwnerID       uint            `gorm:"index;not null" json:"ownerId"`
	Owner         *User           `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner,omitempty"`
	TotalDuration int             `json:"totalDuration"` // seconds
	Tracks        []PlaylistTrack `gorm:"foreignKey:PlaylistID;constraint:OnDelete:CASCADE" json:"tracks"`
}

// PlaylistTrack stores a track snapshot and its position within a playlist.
type PlaylistTrack struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	PlaylistID uint      `gorm:"uniqueIndex:idx_playlist_track;not null" json:"-"`
	TrackID    string    `gorm:"uniqueIndex:idx_playlist_track;not null" json:"trackId"`
	Title      string    `gorm:"not null" json:"title"`
	Artist     string    `gorm:"not null" json:"artist"`
	Album      string    `json:"album,omitempty"`
	Image      string    `json:"image"`
	Duration   string    `json:"duration"`
	PreviewURL string    `json:"preview_url,omitempty"`
	Position   int       `json:"position"`
	AddedAt    time.Time `json:"addedAt"`
}

// RecalculateDuration sums the "M:SS" durations of every track.
func (p *Playlist) RecalculateDuration() {
	total := 0
	for _, t := range p.Tracks {
		total += catalog.ParseDuration(t.Duration, fallbackTrackSeconds)
	}
	p.TotalDuration = total
}

// Renumber rewrites positions to match slice order.
func (p *Playlist) Renumber() {
	for i := range p.Tracks {
		p.Tracks[i].Position = i
	}
}

func (p *Playlist) HasTrack(trackID string) bool {
	for _, t := range p.Tracks {
		if t.TrackID == trackID {
			return true
		}
	}
	return false
}
