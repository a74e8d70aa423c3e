package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/Harsh00198/Auraluxe-Music/internal/config"
	database "github.com/Harsh00198/Auraluxe-Music/internal/db"
	"github.com/Harsh00198/Auraluxe-Music/internal/models"
)

const defaultAdminEmail = "admin@auraluxe.com"

func createAdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-admin",
		Usage: "Create the admin account, or promote an existing one",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "email",
				Usage:   "Admin email address",
				Value:   defaultAdminEmail,
				Sources: cli.EnvVars("AURALUXE_ADMIN_EMAIL"),
			},
			&cli.StringFlag{
				Name:    "username",
				Usage:   "Admin username",
				Value:   "admin",
				Sources: cli.EnvVars("AURALUXE_ADMIN_USERNAME"),
			},
			&cli.StringFlag{
				Name:     "password",
				Usage:    "Password for a newly created admin (ignored when the account exists)",
				Required: true,
				Sources:  cli.EnvVars("AURALUXE_ADMIN_PASSWORD"),
			},
		},
		Action: createAdmin,
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Upsert curated public playlists from a YAML file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Path to the seed file",
				Value:   "seed.yaml",
			},
			&cli.StringFlag{
				Name:    "owner",
				Usage:   "Email of the account that owns the seeded playlists",
				Value:   defaultAdminEmail,
				Sources: cli.EnvVars("AURALUXE_ADMIN_EMAIL"),
			},
		},
		Action: seed,
	}
}

func openDatabase() (*database.Client, error) {
	cfg := config.Load()
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func createAdmin(ctx context.Context, cmd *cli.Command) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	user, created, err := database.SeedAdminUser(db.DB, cmd.String("email"), cmd.String("username"), cmd.String("password"))
	if err != nil {
		return err
	}
	if created {
		slog.Info("Admin account created", "email", user.Email, "id", user.ID)
	} else {
		slog.Info("Admin account already present", "email", user.Email, "id", user.ID)
	}
	return nil
}

func seed(ctx context.Context, cmd *cli.Command) error {
	file, err := database.LoadSeedFile(cmd.String("file"))
	if err != nil {
		return err
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	var owner models.User
	if err := db.DB.Where("email = ?", models.NormalizeEmail(cmd.String("owner"))).First(&owner).Error; err != nil {
		return fmt.Errorf("owner %s not found, run create-admin first: %w", cmd.String("owner"), err)
	}

	if err := database.SeedPlaylists(db.DB, &owner, file.Playlists); err != nil {
		return err
	}
	slog.Info("Playlists seeded", "count", len(file.Playlists), "owner", owner.Email)
	return nil
}
