package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/Harsh00198/Auraluxe-Music/internal/audio"
	"github.com/Harsh00198/Auraluxe-Music/internal/catalog"
	"github.com/Harsh00198/Auraluxe-Music/internal/logging"
	"github.com/Harsh00198/Auraluxe-Music/internal/player"
)

func main() {
	logger := logging.New("info", os.Stderr)
	slog.SetDefault(logger)

	app := &cli.Command{
		Name:  "auraluxe",
		Usage: "Search and play Auraluxe previews from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath(),
			},
			&cli.StringFlag{
				Name:    "api",
				Usage:   "API base URL (overrides the config file)",
				Sources: cli.EnvVars("AURALUXE_API_URL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in and store the token in the config file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, Sources: cli.EnvVars("AURALUXE_PASSWORD")},
				},
				Action: login,
			},
			{
				Name:      "search",
				Usage:     "Search every catalog and print the results",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: catalog.DefaultLimit},
				},
				Action: search,
			},
			{
				Name:      "play",
				Usage:     "Play search results, or trending tracks when no query is given",
				ArgsUsage: "[query]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: catalog.DefaultLimit},
				},
				Action: play,
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Error("player failed", "error", err)
		os.Exit(1)
	}
}

func loadFor(cmd *cli.Command) (playerConfig, error) {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return cfg, err
	}
	if api := cmd.String("api"); api != "" {
		cfg.APIURL = api
	}
	return cfg, nil
}

func login(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadFor(cmd)
	if err != nil {
		return err
	}

	token, user, err := newAPIClient(cfg.APIURL, "").Login(ctx, cmd.String("email"), cmd.String("password"))
	if err != nil {
		return err
	}
	cfg.Token = token
	cfg.UserID = fmt.Sprint(user.ID)
	cfg.Volume = user.Preferences.Volume

	if err := saveConfig(cmd.String("config"), cfg); err != nil {
		return err
	}
	slog.Info("Signed in", "username", user.Username)
	return nil
}

func search(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadFor(cmd)
	if err != nil {
		return err
	}
	query := strings.Join(cmd.Args().Slice(), " ")
	if query == "" {
		return errors.New("search needs a query")
	}

	tracks, err := newAPIClient(cfg.APIURL, cfg.Token).Search(ctx, query, int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		fmt.Println(dimStyle.Render("No results"))
		return nil
	}
	for i, t := range tracks {
		fmt.Printf("%2d. %s %s\n", i+1, trackLine(t), dimStyle.Render("["+t.ID+"]"))
	}
	return nil
}

func play(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadFor(cmd)
	if err != nil {
		return err
	}
	api := newAPIClient(cfg.APIURL, cfg.Token)
	limit := int(cmd.Int("limit"))

	var tracks []catalog.Track
	if query := strings.Join(cmd.Args().Slice(), " "); query != "" {
		tracks, err = api.Search(ctx, query, limit)
	} else {
		tracks, err = api.Trending(ctx, limit)
	}
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return errors.New("nothing to play")
	}

	// Logs go to a file so they do not tear the TUI.
	logPath := filepath.Join(filepath.Dir(cmd.String("config")), "player.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
		return err
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := logging.New("info", logFile)

	media := audio.NewFFPlay(cfg.FFPlay, cfg.FFProbe, logger)
	defer media.Close()

	ctrl := player.NewController(media, player.Options{
		Recorder: player.NewAPIRecorder(cfg.APIURL),
		Logger:   logger,
	})
	media.SetListener(ctrl)
	defer ctrl.Wait()

	volume := cfg.Volume
	if cfg.Token != "" {
		if me, err := api.Me(ctx); err == nil {
			ctrl.SetSession(&player.Session{UserID: fmt.Sprint(me.ID), Token: cfg.Token})
			volume = me.Preferences.Volume
		} else {
			logger.Warn("Stored token rejected, playing anonymously", "error", err)
		}
	}
	ctrl.ApplyPreferences(volume)
	ctrl.PlayTrack(tracks[0], tracks)

	if _, err := tea.NewProgram(newModel(ctrl), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	media.Pause()
	return nil
}
