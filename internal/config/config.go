package config

import (
	"errors"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port        string `mapstructure:"port"`
		MetricsPort string `mapstructure:"metrics_port"`
		FrontendURL string `mapstructure:"frontend_url"`
		LogLevel    string `mapstructure:"log_level"`
		TempDir     string `mapstructure:"temp_dir"`
	} `mapstructure:"server"`
	Database struct {
		Driver   string `mapstructure:"driver"`
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		Path     string `mapstructure:"path"`
	} `mapstructure:"database"`
	Auth struct {
		JWTSecret     string `mapstructure:"jwt_secret"`
		TokenTTLHours int    `mapstructure:"token_ttl_hours"`
	} `mapstructure:"auth"`
	Providers struct {
		TimeoutSeconds      int     `mapstructure:"timeout_seconds"`
		RateLimit           float64 `mapstructure:"rate_limit"`
		TrendingTTLSeconds  int     `mapstructure:"trending_ttl_seconds"`
		DeezerURL           string  `mapstructure:"deezer_url"`
		ITunesURL           string  `mapstructure:"itunes_url"`
		LastFmURL           string  `mapstructure:"lastfm_url"`
		LastFmAPIKey        string  `mapstructure:"lastfm_api_key"`
		YouTubeURL          string  `mapstructure:"youtube_url"`
		YouTubeAPIKey       string  `mapstructure:"youtube_api_key"`
		SpotifyURL          string  `mapstructure:"spotify_url"`
		SpotifyTokenURL     string  `mapstructure:"spotify_token_url"`
		SpotifyClientID     string  `mapstructure:"spotify_client_id"`
		SpotifyClientSecret string  `mapstructure:"spotify_client_secret"`
	} `mapstructure:"providers"`
	Storage struct {
		Provider     string `mapstructure:"provider"`
		LocalPath    string `mapstructure:"local_path"`
		KeyID        string `mapstructure:"key_id"`
		AppKey       string `mapstructure:"app_key"`
		Endpoint     string `mapstructure:"endpoint"`
		Region       string `mapstructure:"region"`
		BucketAssets string `mapstructure:"bucket_assets"`
	} `mapstructure:"storage"`
}

var keys = []string{
	"server.port",
	"server.metrics_port",
	"server.frontend_url",
	"server.log_level",
	"server.temp_dir",

	"database.driver",
	"database.host",
	"database.port",
	"database.user",
	"database.password",
	"database.name",
	"database.path",

	"auth.jwt_secret",
	"auth.token_ttl_hours",

	"providers.timeout_seconds",
	"providers.rate_limit",
	"providers.trending_ttl_seconds",
	"providers.deezer_url",
	"providers.itunes_url",
	"providers.lastfm_url",
	"providers.lastfm_api_key",
	"providers.youtube_url",
	"providers.youtube_api_key",
	"providers.spotify_url",
	"providers.spotify_token_url",
	"providers.spotify_client_id",
	"providers.spotify_client_secret",

	"storage.provider",
	"storage.local_path",
	"storage.key_id",
	"storage.app_key",
	"storage.endpoint",
	"storage.region",
	"storage.bucket_assets",
}

// setDefaults registers every default on v. Kept separate so tests can build
// a Config without touching the process environment.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":5000")
	v.SetDefault("server.metrics_port", ":9091")
	v.SetDefault("server.frontend_url", "http://localhost:3000")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.temp_dir", "/tmp/")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "auraluxe")
	v.SetDefault("database.path", "auraluxe.db")

	v.SetDefault("auth.token_ttl_hours", 168) // 7 days

	v.SetDefault("providers.timeout_seconds", 5)
	v.SetDefault("providers.rate_limit", 10)
	v.SetDefault("providers.trending_ttl_seconds", 300)
	v.SetDefault("providers.deezer_url", "https://api.deezer.com")
	v.SetDefault("providers.itunes_url", "https://itunes.apple.com")
	v.SetDefault("providers.lastfm_url", "https://ws.audioscrobbler.com/2.0/")
	v.SetDefault("providers.youtube_url", "https://www.googleapis.com/youtube/v3")
	v.SetDefault("providers.spotify_url", "https://api.spotify.com/v1")
	v.SetDefault("providers.spotify_token_url", "https://accounts.spotify.com/api/token")

	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.local_path", "./data")
	v.SetDefault("storage.bucket_assets", "auraluxe-assets")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("AURALUXE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, k := range keys {
		v.BindEnv(k)
	}
	setDefaults(v)
	return v
}

// Load reads configuration from the environment and an optional config.yaml.
// It exits the process when a mandatory value is missing.
func Load() *Config {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("../")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Config error: %s", err)
		} else {
			log.Println("Info: config.yaml not found, using Environment Variables only.")
		}
	}

	cfg, err := decode(v)
	if err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Critical: %v", err)
	}

	return cfg
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first mandatory setting that is missing or malformed.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is missing (AURALUXE_AUTH_JWT_SECRET)")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return errors.New("database.driver must be 'postgres' or 'sqlite'")
	}
	switch c.Storage.Provider {
	case "local":
	case "s3":
		if c.Storage.KeyID == "" || c.Storage.AppKey == "" {
			return errors.New("storage.key_id and storage.app_key are required for the s3 provider")
		}
	default:
		return errors.New("storage.provider must be 'local' or 's3'")
	}
	return nil
}
