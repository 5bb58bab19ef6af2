// Package cache publishes the latest bracket results to Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ryanznie/options-order-book/internal/config"
	"github.com/ryanznie/options-order-book/internal/frame"
	"github.com/ryanznie/options-order-book/internal/model"
)

// Payload kinds.
const (
	KindSnapshot = "snapshot"
	KindCombined = "combined"
)

// Key returns the cache key for one series, day and kind,
// e.g. "brackets:INX:2024-01-15:combined".
func Key(series, day, kind string) string {
	return fmt.Sprintf("brackets:%s:%s:%s", series, day, kind)
}

// Channel returns the pub/sub channel announcing updated keys for a series.
func Channel(series string) string {
	return fmt.Sprintf("brackets:%s:updates", series)
}

// Publisher writes results to Redis with a TTL.
type Publisher struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", cfg.Addr, err)
	}

	return &Publisher{
		client: client,
		ttl:    cfg.TTL,
		logger: logger.With("component", "cache"),
	}, nil
}

// PublishSnapshot stores a day's markets as a record set.
func (p *Publisher) PublishSnapshot(ctx context.Context, series, day string, markets []model.Market) error {
	data, err := snapshotPayload(markets)
	if err != nil {
		return err
	}
	return p.publish(ctx, series, Key(series, day, KindSnapshot), data)
}

// PublishCombined stores a day's combined rows as a record set.
func (p *Publisher) PublishCombined(ctx context.Context, series, day string, rows []model.CombinedRow) error {
	data, err := combinedPayload(rows)
	if err != nil {
		return err
	}
	return p.publish(ctx, series, Key(series, day, KindCombined), data)
}

// Close closes the Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}

func (p *Publisher) publish(ctx context.Context, series, key string, data []byte) error {
	_, err := p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, p.ttl)
		pipe.Publish(ctx, Channel(series), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}

	p.logger.Debug("published", "key", key, "bytes", len(data))
	return nil
}

func snapshotPayload(markets []model.Market) ([]byte, error) {
	rs := &frame.RecordSet{
		Key:     model.MarketsKey,
		Columns: model.MarketColumns,
		Records: model.MarketRecords(markets),
	}
	data, err := json.Marshal(rs)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// combinedPayload adds the market id and any fetch error to each row.
func combinedPayload(rows []model.CombinedRow) ([]byte, error) {
	records := model.CombinedRecords(rows)
	for i, row := range rows {
		records[i]["market_id"] = row.MarketID
		if row.Err != nil {
			records[i]["error"] = row.Err.Error()
		}
	}
	rs := &frame.RecordSet{
		Key:     model.CombinedKey,
		Columns: append([]string{"market_id"}, model.CombinedColumns...),
		Records: records,
	}
	data, err := json.Marshal(rs)
	if err != nil {
		return nil, fmt.Errorf("encode combined: %w", err)
	}
	return data, nil
}
