package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dkeita/ecole-portal/internal/auth"
	"github.com/dkeita/ecole-portal/internal/config"
	"github.com/dkeita/ecole-portal/internal/db"
	"github.com/dkeita/ecole-portal/internal/logger"
	"github.com/dkeita/ecole-portal/internal/models"
	"github.com/dkeita/ecole-portal/internal/storage"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB migrations and seeding, then exit")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	logger.Configure(logger.Config{
		Level:  logger.InfoLevel,
		Pretty: cfg.App.Dev,
	})

	dbConn, err := db.Connect(cfg.Database.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}

	if cfg.App.Migrations || *migrateOnlyFlag || *seedOnlyFlag {
		if err := db.Migrate(dbConn); err != nil {
			logger.Fatal().Err(err).Msg("migrations failed")
		}
	}
	if *migrateOnlyFlag {
		logger.Info().Msg("migrations completed, exiting")
		return
	}

	if err := db.Seed(dbConn, cfg.App.AdminEmail, cfg.App.AdminPassword); err != nil {
		logger.Fatal().Err(err).Msg("seeding failed")
	}
	if *seedOnlyFlag {
		if err := db.BackfillPlaceholderTranslations(dbConn); err != nil {
			logger.Fatal().Err(err).Msg("translation backfill failed")
		}
		logger.Info().Msg("seeding completed, exiting")
		return
	}

	// sessions for deleted accounts are rejected at the door
	auth.SetUserVerifier(func(ctx context.Context, uid uint) bool {
		var count int64
		dbConn.Model(&models.User{}).Where("id = ?", uid).Count(&count)
		return count > 0
	})

	store, err := storage.NewLocalStorage(cfg.App.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.App.UploadDir).Msg("upload directory unavailable")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withRequestLogging(NewApp(dbConn, store)),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Bool("dev", cfg.App.Dev).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	logger.Info().Msg("server stopped")
}

func withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
