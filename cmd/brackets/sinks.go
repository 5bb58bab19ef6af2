package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ryanznie/options-order-book/internal/archive"
	"github.com/ryanznie/options-order-book/internal/brackets"
	"github.com/ryanznie/options-order-book/internal/cache"
	"github.com/ryanznie/options-order-book/internal/config"
	"github.com/ryanznie/options-order-book/internal/database"
	"github.com/ryanznie/options-order-book/internal/model"
)

// sinks fans fetch results out to the optional archive and cache.
// Sink failures are logged and never fail the fetch.
type sinks struct {
	series  string
	pool    *pgxpool.Pool
	archive *archive.Archive
	cache   *cache.Publisher
	logger  *slog.Logger
}

func openSinks(ctx context.Context, cfg *config.Config, series string, logger *slog.Logger) (*sinks, error) {
	s := &sinks{series: series, logger: logger}

	if cfg.Database.Enabled {
		logger.Info("connecting to database",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"database", cfg.Database.Name,
		)
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		s.pool = pool
		s.archive = archive.New(pool, logger)
		if err := s.archive.EnsureSchema(ctx); err != nil {
			s.Close()
			return nil, err
		}
	}

	if cfg.Cache.Enabled {
		pub, err := cache.New(ctx, cfg.Cache, logger)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.cache = pub
	}

	return s, nil
}

func (s *sinks) Snapshot(ctx context.Context, w brackets.Window, fetchedAt time.Time, markets []model.Market) {
	if s.archive != nil {
		run := archive.NewRun(archive.KindSnapshot, s.series, w.Start, fetchedAt)
		if err := s.archive.WriteSnapshot(ctx, run, markets); err != nil {
			s.logger.Error("archive snapshot failed", "error", err)
		}
	}
	if s.cache != nil {
		if err := s.cache.PublishSnapshot(ctx, s.series, w.Date(), markets); err != nil {
			s.logger.Error("cache snapshot failed", "error", err)
		}
	}
}

func (s *sinks) Combined(ctx context.Context, w brackets.Window, fetchedAt time.Time, rows []model.CombinedRow) {
	if s.archive != nil {
		run := archive.NewRun(archive.KindCombined, s.series, w.Start, fetchedAt)
		if err := s.archive.WriteCombined(ctx, run, rows); err != nil {
			s.logger.Error("archive combined failed", "error", err)
		}
	}
	if s.cache != nil {
		if err := s.cache.PublishCombined(ctx, s.series, w.Date(), rows); err != nil {
			s.logger.Error("cache combined failed", "error", err)
		}
	}
}

func (s *sinks) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
}
