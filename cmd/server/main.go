package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bingo-rooms/internal/config"
	"bingo-rooms/internal/db"
	"bingo-rooms/internal/logging"
	"bingo-rooms/internal/server"
	"bingo-rooms/internal/service"
	"bingo-rooms/internal/storage"
	"bingo-rooms/internal/storage/memory"
	"bingo-rooms/internal/storage/postgres"
	"bingo-rooms/internal/storage/redisstore"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		logrus.WithError(err).Warn("failed to load .env")
	}
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		logrus.WithError(err).Fatal("invalid logging configuration")
	}
	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// backend bundles the chosen store with its optional event journal.
type backend struct {
	store   storage.Store
	journal *postgres.Journal
	close   func()
}

func openBackend(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (backend, error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		conn, err := db.Open(cfg.DatabaseURL, db.PoolConfig{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime(),
			ConnMaxIdleTime: cfg.DBConnMaxIdleTime(),
		})
		if err != nil {
			return backend{}, fmt.Errorf("open database: %w", err)
		}
		if err := db.Migrate(conn); err != nil {
			return backend{}, fmt.Errorf("migrate database: %w", err)
		}
		journal := postgres.NewJournal(conn, log)
		closeDB := func() {
			journal.Close()
			if sqlDB, err := conn.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return backend{
			store:   postgres.NewStore(conn),
			journal: journal,
			close:   closeDB,
		}, nil
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return backend{}, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		return backend{
			store: redisstore.NewStore(client, cfg.RedisKeyPrefix),
			close: func() { _ = client.Close() },
		}, nil
	default:
		return backend{store: memory.NewStore(), close: func() {}}, nil
	}
}

func run(cfg config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer be.close()

	hub := server.NewHub(log)
	broadcasters := service.Broadcasters{hub}
	opts := server.Options{Log: log, FrontendURL: cfg.FrontendURL}
	if be.journal != nil {
		broadcasters = append(broadcasters, be.journal)
		opts.Events = be.journal
	}
	rooms := service.New(service.Options{
		Store:        be.store,
		Broadcaster:  broadcasters,
		Log:          log,
		CodeAttempts: cfg.CodeAttempts,
	})
	srv := server.New(rooms, hub, opts)

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":    httpServer.Addr,
			"storage": cfg.StorageBackend,
		}).Info("bingo server listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
