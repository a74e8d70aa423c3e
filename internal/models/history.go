package models

import "time"

const (
	MaxLikedTracks    = 1000
	MaxRecentlyPlayed = 50

	PlaceholderImage = "/placeholder.svg?height=300&width=300"
)

// LikedTrack is one entry in a user's likes. A (user, track) pair exists at
// most once; liking again removes it.
type LikedTrack struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	UserID     uint      `gorm:"uniqueIndex:idx_liked_user_track;not null" json:"-"`
	TrackID    string    `gorm:"uniqueIndex:idx_liked_user_track;not null" json:"trackId"`
	Title      string    `gorm:"not null" json:"title"`
	Artist     string    `gorm:"not null" json:"artist"`
	Album      string    `json:"album,omitempty"`
	Image      string    `json:"image"`
	Duration   string    `json:"duration,omitempty"`
	PreviewURL string    `json:"preview_url,omitempty"`
	LikedAt    time.Time `gorm:"index" json:"likedAt"`
}

// RecentlyPlayed keeps the latest play of each track per user.
type RecentlyPlayed struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	UserID     uint      `gorm:"uniqueIndex:idx_recent_user_track;not null" json:"-"`
	TrackID    string    `gorm:"uniqueIndex:idx_recent_user_track;not null" json:"trackId"`
	Title      string    `gorm:"not null" json:"title"`
	Artist     string    `gorm:"not null" json:"artist"`
	Image      string    `json:"image"`
	PreviewURL string    `json:"preview_url,omitempty"`
	PlayedAt   time.Time `gorm:"index" json:"playedAt"`
}

func (RecentlyPlayed) TableName() string {
	return "recently_played"
}
