package database

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Harsh00198/Auraluxe-Music/internal/models"
)

// SeedAdminUser makes sure an admin account exists for email. An existing
// account is promoted and reactivated but keeps its password. The boolean
// reports whether a new row was created.
func SeedAdminUser(db *gorm.DB, email, username, password string) (*models.User, bool, error) {
	var existing models.User
	err := db.Where("email = ?", models.NormalizeEmail(email)).First(&existing).Error
	switch {
	case err == nil:
		if existing.Role != models.RoleAdmin || !existing.IsActive {
			existing.Role = models.RoleAdmin
			existing.IsActive = true
			if err := db.Save(&existing).Error; err != nil {
				return nil, false, err
			}
		}
		return &existing, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, err
	}

	if len(password) < 6 {
		return nil, false, fmt.Errorf("admin password must be at least 6 characters")
	}
	admin, err := models.NewUser(username, email, password)
	if err != nil {
		return nil, false, err
	}
	admin.Role = models.RoleAdmin
	if err := db.Create(admin).Error; err != nil {
		return nil, false, err
	}
	slog.Info("Admin user created", "email", admin.Email)
	return admin, true, nil
}

// SeedFile is the YAML layout accepted by SeedPlaylists.
type SeedFile struct {
	Playlists []SeedPlaylist `yaml:"playlists"`
}

type SeedPlaylist struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	CoverImage  string      `yaml:"cover_image"`
	Tracks      []SeedTrack `yaml:"tracks"`
}

type SeedTrack struct {
	ID         string `yaml:"id"`
	Title      string `yaml:"title"`
	Artist     string `yaml:"artist"`
	Album      string `yaml:"album"`
	Image      string `yaml:"image"`
	Duration   string `yaml:"duration"`
	PreviewURL string `yaml:"preview_url"`
}

func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, p := range f.Playlists {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("playlist #%d has no name", i+1)
		}
		for j, t := range p.Tracks {
			if t.ID == "" || t.Title == "" || t.Artist == "" {
				return nil, fmt.Errorf("playlist %q track #%d needs id, title and artist", p.Name, j+1)
			}
		}
	}
	return &f, nil
}

// SeedPlaylists upserts curated public playlists owned by owner. Playlists
// match by name; tracks already present are left alone.
func SeedPlaylists(db *gorm.DB, owner *models.User, playlists []SeedPlaylist) error {
	slog.Info("Seeding playlists", "count", len(playlists))

	return db.Transaction(func(tx *gorm.DB) error {
		for _, sp := range playlists {
			var pl models.Playlist
			err := tx.Where("owner_id = ? AND name = ?", owner.ID, sp.Name).First(&pl).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				pl = models.Playlist{Name: sp.Name, OwnerID: owner.ID}
			} else if err != nil {
				return err
			}
			pl.Description = sp.Description
			pl.CoverImage = sp.CoverImage
			pl.IsPublic = true
			if err := tx.Save(&pl).Error; err != nil {
				return err
			}

			var count int64
			tx.Model(&models.PlaylistTrack{}).Where("playlist_id = ?", pl.ID).Count(&count)

			now := time.Now()
			for i, st := range sp.Tracks {
				row := models.PlaylistTrack{
					PlaylistID: pl.ID,
					TrackID:    st.ID,
					Title:      st.Title,
					Artist:     st.Artist,
					Album:      st.Album,
					Image:      orDefault(st.Image, models.PlaceholderImage),
					Duration:   orDefault(st.Duration, models.DefaultTrackDuration),
					PreviewURL: st.PreviewURL,
					Position:   int(count) + i,
					AddedAt:    now,
				}
				// UPSERT on (playlist_id, track_id) so reruns don't duplicate.
				err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "playlist_id"}, {Name: "track_id"}},
					DoNothing: true,
				}).Create(&row).Error
				if err != nil {
					return err
				}
			}

			if err := tx.Preload("Tracks", func(db *gorm.DB) *gorm.DB {
				return db.Order("position ASC")
			}).First(&pl, pl.ID).Error; err != nil {
				return err
			}
			pl.Renumber()
			pl.RecalculateDuration()
			if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&pl).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
