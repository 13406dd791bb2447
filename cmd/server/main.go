package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weddingmarket/internal/config"
	"weddingmarket/internal/domain"
	"weddingmarket/internal/httpserver"
	"weddingmarket/internal/security"
	"weddingmarket/internal/session"
	"weddingmarket/internal/store/postgres"
	"weddingmarket/internal/store/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, cleanup := config.SetupLogger(cfg.LogFile, config.ParseLogLevel(cfg.LogLevel))
	defer cleanup()
	slog.SetDefault(logger)

	db, sessionRepo, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// Security components
	sessionTTL := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	tokenSvc := security.NewTokenService(cfg.JWTSecret, sessionTTL)
	passwordHasher := security.NewPasswordHasher(0)

	encryptor, err := security.NewEncryptor([]byte(cfg.EncryptKey))
	if err != nil {
		return fmt.Errorf("init encryptor: %w", err)
	}

	sessions := session.NewStore(sessionRepo, session.NewCache(cfg.SessionCacheSize))

	purgeCtx, stopPurge := context.WithCancel(context.Background())
	defer stopPurge()
	go purgeSessions(purgeCtx, sessions, logger)

	router := httpserver.NewRouter(cfg, db, sessions, tokenSvc, passwordHasher, encryptor)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr(), "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// purgeSessions deletes expired session rows on an hourly cadence.
func purgeSessions(ctx context.Context, sessions *session.Store, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("session purge failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("purged expired sessions", "count", n)
			}
		}
	}
}

// openStore opens the configured database, runs migrations, and returns the
// session repository backed by the same store.
func openStore(cfg *config.Config) (*sql.DB, domain.SessionRepository, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := postgres.Migrate(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return db, postgres.NewSessionRepo(db), nil
	default:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := sqlite.Migrate(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		return db, sqlite.NewSessionRepo(db), nil
	}
}
