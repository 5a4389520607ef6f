package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pet-care-log/internal/adapters/auth/idp"
	"pet-care-log/internal/adapters/auth/local"
	pg "pet-care-log/internal/adapters/storage/postgres"
	"pet-care-log/internal/config"
	"pet-care-log/internal/platform/logger"
	"pet-care-log/internal/ports/auth"
	"pet-care-log/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	// Provider de identidad: hosteado si hay AUTH_BASE_URL, si no el
	// local in-process (dev).
	var provider auth.Provider
	if cfg.AuthBaseURL != "" {
		c, err := idp.NewClient(idp.Config{
			BaseURL: cfg.AuthBaseURL,
			APIKey:  cfg.AuthAPIKey,
		})
		if err != nil {
			log.Error("idp client init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		provider = c
		log.Info("using hosted identity provider", map[string]any{"base_url": cfg.AuthBaseURL})
	} else {
		provider = local.New()
		log.Warn("AUTH_BASE_URL empty, using local in-process auth", nil)
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Error("time zone load failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	var db *sql.DB
	if cfg.DBDSN != "" {
		db, err = pg.Open(cfg.DBDSN)
		if err != nil {
			log.Error("postgres open failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		log.Info("connected to postgres", nil)
	} else {
		log.Warn("DB_DSN empty, using in-memory repos", nil)
	}

	h := router.NewRouter(router.Options{
		Provider:           provider,
		DB:                 db,
		Log:                log,
		Location:           loc,
		VisibilityTimeout:  cfg.ProfileVisibilityTimeout,
		VisibilityInterval: cfg.ProfileVisibilityInterval,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.Addr()})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", map[string]any{"error": err.Error()})
	}
	log.Info("server stopped", nil)
}
