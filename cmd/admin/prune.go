package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"
	"gorm.io/gorm"

	"github.com/Harsh00198/Auraluxe-Music/internal/api/handlers"
	"github.com/Harsh00198/Auraluxe-Music/internal/config"
	"github.com/Harsh00198/Auraluxe-Music/internal/models"
	"github.com/Harsh00198/Auraluxe-Music/internal/storage"
)

const coverPrefix = "covers/"

func pruneCoversCommand() *cli.Command {
	return &cli.Command{
		Name:  "prune-covers",
		Usage: "Delete uploaded covers no playlist references and clear dangling cover links",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Report what would change without touching storage or the database",
			},
		},
		Action: pruneCovers,
	}
}

// coverReport summarises one prune pass.
type coverReport struct {
	Orphaned []string // stored objects with no playlist pointing at them
	Dangling []uint   // playlists whose cover object is gone
}

func pruneCovers(ctx context.Context, cmd *cli.Command) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	st := storage.New(config.Load())
	report, err := repairCovers(ctx, db.DB, st, cmd.Bool("dry-run"))
	if err != nil {
		return err
	}
	slog.Info("Cover repair finished",
		"orphaned", len(report.Orphaned), "dangling", len(report.Dangling), "dry_run", cmd.Bool("dry-run"))
	return nil
}

// repairCovers reconciles playlist cover links with the asset bucket.
// Failures on individual objects are logged and skipped.
func repairCovers(ctx context.Context, db *gorm.DB, st *storage.Client, dryRun bool) (coverReport, error) {
	var report coverReport

	var playlists []models.Playlist
	if err := db.Select("id", "cover_image").Where("cover_image <> ''").Find(&playlists).Error; err != nil {
		return report, err
	}

	referenced := make(map[string]bool, len(playlists))
	for _, p := range playlists {
		key, ok := handlers.MediaKey(p.CoverImage)
		if !ok {
			continue
		}
		referenced[key] = true

		exists, err := st.AssetExists(ctx, key)
		if err != nil {
			slog.Warn("Cover check failed", "playlist_id", p.ID, "key", key, "error", err)
			continue
		}
		if exists {
			continue
		}
		report.Dangling = append(report.Dangling, p.ID)
		if dryRun {
			continue
		}
		if err := db.Model(&models.Playlist{}).Where("id = ?", p.ID).Update("cover_image", "").Error; err != nil {
			slog.Warn("Clearing cover failed", "playlist_id", p.ID, "error", err)
		}
	}

	keys, err := st.ListAssets(ctx, coverPrefix)
	if err != nil {
		return report, err
	}
	for _, key := range keys {
		if referenced[key] {
			continue
		}
		report.Orphaned = append(report.Orphaned, key)
		if dryRun {
			continue
		}
		if err := st.DeleteAsset(ctx, key); err != nil {
			slog.Warn("Deleting orphaned cover failed", "key", key, "error", err)
		}
	}
	return report, nil
}
