package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Harsh00198/Auraluxe-Music/internal/catalog"
	"github.com/Harsh00198/Auraluxe-Music/internal/config"
	database "github.com/Harsh00198/Auraluxe-Music/internal/db"
	"github.com/Harsh00198/Auraluxe-Music/internal/models"
	"github.com/Harsh00198/Auraluxe-Music/internal/storage"

	"github.com/Harsh00198/Auraluxe-Music/internal/api/handlers"
	"github.com/Harsh00198/Auraluxe-Music/internal/api/middleware"
)

type Server struct {
	cfg     *config.Config
	db      *database.Client
	storage *storage.Client
	catalog *catalog.Aggregator
	logger  *slog.Logger
	router  *gin.Engine
}

func New(cfg *config.Config, db *database.Client, storage *storage.Client, agg *catalog.Aggregator, logger *slog.Logger) *Server {
	if cfg.Server.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:     cfg,
		db:      db,
		storage: storage,
		catalog: agg,
		logger:  logger,
		router:  gin.New(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{s.cfg.Server.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}

	// "Authorization" must be allowed so the frontend can send the JWT
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", middleware.HeaderRequestID}

	s.router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.SilentLogger(s.logger),
		middleware.SecurityHeaders(),
		cors.New(corsConfig),
	)
}

func (s *Server) setupRoutes() {
	secret := []byte(s.cfg.Auth.JWTSecret)
	ttl := time.Duration(s.cfg.Auth.TokenTTLHours) * time.Hour

	authHandler := handlers.NewAuthHandler(s.db.DB, secret, ttl)
	userHandler := handlers.NewUserHandler(s.db.DB)
	playlistHandler := handlers.NewPlaylistHandler(s.db.DB, s.storage)
	musicHandler := handlers.NewMusicHandler(s.db.DB, s.catalog, &http.Client{Timeout: 30 * time.Second}, s.cfg.Server.TempDir)
	adminHandler := handlers.NewAdminHandler(s.db.DB)
	mediaHandler := handlers.NewMediaHandler(s.storage)

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"service":   "auraluxe-music",
			"providers": s.catalog.Providers(),
			"timestamp": time.Now().UTC(),
		})
	})
	s.router.GET("/media/*key", mediaHandler.Serve)

	v1 := s.router.Group("/api/v1")
	{
		// ==========================================
		// PUBLIC ROUTES (No Token Required)
		// ==========================================
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)

		// Catalog browsing works anonymously; a token adds like state.
		music := v1.Group("/music")
		music.Use(middleware.OptionalAuth(secret))
		{
			music.GET("/search", musicHandler.Search)
			music.GET("/trending", musicHandler.Trending)
			music.GET("/track/:id", musicHandler.GetTrack)
			music.GET("/track/:id/download", musicHandler.Download)
		}

		// ==========================================
		// PROTECTED ROUTES (JWT Token Required)
		// ==========================================
		protected := v1.Group("/")
		protected.Use(middleware.RequireAuth(secret))
		{
			protected.GET("/auth/me", authHandler.Me)
			protected.PATCH("/auth/profile", authHandler.UpdateProfile)
			protected.PATCH("/auth/preferences", authHandler.UpdatePreferences)
			protected.PATCH("/auth/change-password", authHandler.ChangePassword)

			protected.POST("/users/like-track", userHandler.LikeTrack)
			protected.GET("/users/liked-tracks", userHandler.GetLikedTracks)
			protected.POST("/users/recently-played", userHandler.RecordPlay)
			protected.GET("/users/recently-played", userHandler.GetRecentlyPlayed)

			protected.GET("/playlists", playlistHandler.GetPlaylists)
			protected.POST("/playlists", playlistHandler.CreatePlaylist)
			protected.GET("/playlists/:id", playlistHandler.GetPlaylist)
			protected.PATCH("/playlists/:id", playlistHandler.UpdatePlaylist)
			protected.DELETE("/playlists/:id", playlistHandler.DeletePlaylist)
			protected.POST("/playlists/:id/tracks", playlistHandler.AddTrack)
			protected.DELETE("/playlists/:id/tracks/:trackId", playlistHandler.RemoveTrack)
			protected.PATCH("/playlists/:id/reorder", playlistHandler.ReorderTracks)
			protected.POST("/playlists/:id/cover", playlistHandler.UploadCover)

			// --- ADMIN ONLY ---
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/users", adminHandler.GetUsers)
				admin.GET("/users/:id", adminHandler.GetUser)
				admin.PATCH("/users/:id", adminHandler.UpdateUser)
				admin.DELETE("/users/:id", adminHandler.DeleteUser)
				admin.GET("/stats", adminHandler.GetStats)
			}
		}
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server on the configured port
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
