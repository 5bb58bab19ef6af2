package archive

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS snapshot_runs (
		run_id      UUID PRIMARY KEY,
		kind        TEXT NOT NULL,
		series      TEXT NOT NULL,
		day         DATE NOT NULL,
		fetched_at  TIMESTAMPTZ NOT NULL,
		markets     INTEGER NOT NULL,
		failures    INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS snapshot_runs_series_day ON snapshot_runs (series, day)`,
	`CREATE TABLE IF NOT EXISTS bracket_markets (
		run_id           UUID NOT NULL REFERENCES snapshot_runs (run_id),
		position         INTEGER NOT NULL,
		market_id        TEXT NOT NULL,
		subtitle         TEXT NOT NULL,
		floor_strike     DOUBLE PRECISION,
		cap_strike       DOUBLE PRECISION,
		yes_bid          INTEGER NOT NULL,
		yes_ask          INTEGER NOT NULL,
		no_bid           INTEGER NOT NULL,
		no_ask           INTEGER NOT NULL,
		last_price       INTEGER NOT NULL,
		previous_price   INTEGER NOT NULL,
		previous_yes_bid INTEGER NOT NULL,
		previous_yes_ask INTEGER NOT NULL,
		volume           BIGINT NOT NULL,
		volume_24h       BIGINT NOT NULL,
		open_interest    BIGINT NOT NULL,
		liquidity        BIGINT NOT NULL,
		result           TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS bracket_orderbooks (
		run_id      UUID NOT NULL REFERENCES snapshot_runs (run_id),
		position    INTEGER NOT NULL,
		market_id   TEXT NOT NULL,
		subtitle    TEXT NOT NULL,
		yes_bids    JSONB,
		no_bids     JSONB,
		yes_dollars JSONB,
		no_dollars  JSONB,
		error       TEXT,
		PRIMARY KEY (run_id, position)
	)`,
}

// EnsureSchema creates the archive tables if they do not exist.
func (a *Archive) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := a.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
