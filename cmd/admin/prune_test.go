package main

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/Harsh00198/Auraluxe-Music/internal/api/handlers"
	database "github.com/Harsh00198/Auraluxe-Music/internal/db"
	"github.com/Harsh00198/Auraluxe-Music/internal/models"
	"github.com/Harsh00198/Auraluxe-Music/internal/storage"
)

func setupCovers(t *testing.T) (*database.Client, *storage.Client, []models.Playlist) {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	st := storage.NewWithProvider(storage.NewLocalProvider(t.TempDir()), "assets")

	owner, err := models.NewUser("owner", "owner@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.DB.Create(owner).Error; err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{"covers/1-kept.png", "covers/9-stray.png"} {
		if err := st.UploadAsset(ctx, key, strings.NewReader("img"), "image/png"); err != nil {
			t.Fatal(err)
		}
	}

	playlists := []models.Playlist{
		{Name: "kept", OwnerID: owner.ID, CoverImage: handlers.MediaURL("covers/1-kept.png")},
		{Name: "dangling", OwnerID: owner.ID, CoverImage: handlers.MediaURL("covers/2-gone.png")},
		{Name: "external", OwnerID: owner.ID, CoverImage: "https://cdn.example.com/x.png"},
		{Name: "bare", OwnerID: owner.ID},
	}
	if err := db.DB.Create(&playlists).Error; err != nil {
		t.Fatal(err)
	}
	return db, st, playlists
}

func TestRepairCovers(t *testing.T) {
	ctx := context.Background()

	t.Run("dry run reports without changes", func(t *testing.T) {
		db, st, playlists := setupCovers(t)

		report, err := repairCovers(ctx, db.DB, st, true)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(report.Orphaned, []string{"covers/9-stray.png"}) {
			t.Errorf("Orphaned = %v", report.Orphaned)
		}
		if !slices.Equal(report.Dangling, []uint{playlists[1].ID}) {
			t.Errorf("Dangling = %v", report.Dangling)
		}

		if ok, _ := st.AssetExists(ctx, "covers/9-stray.png"); !ok {
			t.Error("dry run deleted a cover")
		}
		var p models.Playlist
		db.DB.First(&p, playlists[1].ID)
		if p.CoverImage == "" {
			t.Error("dry run cleared a cover link")
		}
	})

	t.Run("repairs storage and links", func(t *testing.T) {
		db, st, playlists := setupCovers(t)

		if _, err := repairCovers(ctx, db.DB, st, false); err != nil {
			t.Fatal(err)
		}

		if ok, _ := st.AssetExists(ctx, "covers/9-stray.png"); ok {
			t.Error("orphaned cover still stored")
		}
		if ok, _ := st.AssetExists(ctx, "covers/1-kept.png"); !ok {
			t.Error("referenced cover was deleted")
		}

		var dangling, external models.Playlist
		db.DB.First(&dangling, playlists[1].ID)
		db.DB.First(&external, playlists[2].ID)
		if dangling.CoverImage != "" {
			t.Errorf("dangling cover = %q, want cleared", dangling.CoverImage)
		}
		if external.CoverImage != "https://cdn.example.com/x.png" {
			t.Errorf("external cover changed to %q", external.CoverImage)
		}

		report, err := repairCovers(ctx, db.DB, st, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(report.Orphaned) != 0 || len(report.Dangling) != 0 {
			t.Errorf("second pass = %+v, want clean", report)
		}
	})
}
