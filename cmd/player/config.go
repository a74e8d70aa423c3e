package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// playerConfig is the listener's local settings, kept in player.toml.
type playerConfig struct {
	APIURL  string  `toml:"api_url"`
	Token   string  `toml:"token"`
	UserID  string  `toml:"user_id"`
	Volume  float64 `toml:"volume"`
	FFPlay  string  `toml:"ffplay"`
	FFProbe string  `toml:"ffprobe"`
}

func defaultConfig() playerConfig {
	return playerConfig{
		APIURL:  "http://localhost:5000/api/v1",
		Volume:  0.7,
		FFPlay:  "ffplay",
		FFProbe: "ffprobe",
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "player.toml"
	}
	return filepath.Join(dir, "auraluxe", "player.toml")
}

// loadConfig reads path over the defaults. A missing file is not an error.
func loadConfig(path string) (playerConfig, error) {
	cfg := defaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// saveConfig writes cfg to path with owner-only permissions since it holds a
// bearer token.
func saveConfig(path string, cfg playerConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
