package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Harsh00198/Auraluxe-Music/internal/config"
	"github.com/Harsh00198/Auraluxe-Music/internal/models"
)

type Client struct {
	DB *gorm.DB
}

// New connects using the configured driver.
func New(cfg *config.Config) (*Client, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.Path)
	default:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.Database.Host,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
			cfg.Database.Port,
		)
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Database.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	slog.Info("Database connected", "driver", cfg.Database.Driver)
	return &Client{DB: db}, nil
}

// NewMemory opens a private in-memory sqlite database, already migrated.
// Used by tests.
func NewMemory() (*Client, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	// Each pooled connection would otherwise see its own empty database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	c := &Client{DB: db}
	if err := c.AutoMigrate(); err != nil {
		return nil, err
	}
	return c, nil
}

// AutoMigrate creates/updates tables based on struct definitions
func (c *Client) AutoMigrate() error {
	slog.Debug("Running database migrations")
	err := c.DB.AutoMigrate(
		&models.User{},
		&models.LikedTrack{},
		&models.RecentlyPlayed{},
		&models.Playlist{},
		&models.PlaylistTrack{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
