package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/internal/config"
	"github.com/robalobadob/connections/internal/httpserver"
	"github.com/robalobadob/connections/internal/persist"
	"github.com/robalobadob/connections/internal/session"
	"github.com/robalobadob/connections/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	st, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("failed to open store")
	}
	defer closeStore()

	gw := persist.New(st, cfg.PublicOrigin)
	srv := httpserver.New(gw, session.NewRegistry(), cfg.ClientOrigin)

	log.Info().Str("port", cfg.Port).Str("backend", cfg.StoreBackend).Msg("starting connections server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// openStore builds the configured puzzle store and a func that releases it.
func openStore(ctx context.Context, cfg config.Config) (store.Puzzles, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Warn().Msg("memory store: saved puzzles are lost on restart")
		return store.NewMemoryStore(), func() {}, nil

	case config.BackendSQLite:
		db, err := openDB(cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return store.NewSQLite(db), func() { _ = db.Close() }, nil

	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		rs, err := store.NewRedis(ctx, store.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return rs, func() { _ = rs.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
