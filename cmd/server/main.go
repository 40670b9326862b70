package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"yatube/internal/auth"
	"yatube/internal/config"
	"yatube/internal/db"
	"yatube/internal/handlers"
	"yatube/internal/logger"
	"yatube/internal/services"
	"yatube/internal/views"
	"yatube/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := logger.Init(cfg.LogLevel, !cfg.Production()); err != nil {
		log.Fatal().Err(err).Msg("Failed to configure logger")
	}

	if err := ensureDataDir(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to create data directory")
	}

	// Set up database
	dbc, err := db.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("Failed to open database")
	}
	defer dbc.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx, dbc); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	userService := services.NewUserService(dbc)
	groupService := services.NewGroupService(dbc)
	postService := services.NewPostService(dbc)

	sessions := auth.NewManager(dbc, []byte(cfg.SessionSecret), cfg.SessionTTL, cfg.Production())
	janitor, err := auth.NewJanitor(sessions, cfg.SessionPurgeSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule session purge")
	}
	janitor.Start()

	tpls, err := handlers.NewRenderer(web.FS)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse templates")
	}
	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open static files")
	}

	h := handlers.New(views.NewPosts(postService, groupService, userService), userService, sessions, tpls)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           h.Routes(static),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("driver", cfg.DatabaseDriver).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	janitor.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

// ensureDataDir creates the parent directory of a file-backed SQLite DSN.
func ensureDataDir(cfg *config.Config) error {
	if cfg.DatabaseDriver != db.SQLite {
		return nil
	}
	dsn := strings.TrimPrefix(cfg.DatabaseDSN, "file:")
	if i := strings.IndexByte(dsn, '?'); i >= 0 {
		dsn = dsn[:i]
	}
	if dsn == "" || dsn == ":memory:" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(dsn), 0755)
}
