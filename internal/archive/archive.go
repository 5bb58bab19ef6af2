package archive

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ryanznie/options-order-book/internal/model"
)

// Run kinds.
const (
	KindSnapshot = "snapshot"
	KindCombined = "combined"
)

// DB is the subset of *pgxpool.Pool the archive uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Run identifies one archived fetch.
type Run struct {
	ID        uuid.UUID
	Kind      string
	Series    string
	Day       time.Time // UTC midnight of the bracket day
	FetchedAt time.Time
}

// NewRun starts a run with a fresh id.
func NewRun(kind, series string, day, fetchedAt time.Time) Run {
	return Run{
		ID:        uuid.New(),
		Kind:      kind,
		Series:    series,
		Day:       day.UTC(),
		FetchedAt: fetchedAt.UTC(),
	}
}

// Archive writes runs to PostgreSQL.
type Archive struct {
	db     DB
	logger *slog.Logger
}

// New creates an Archive on db.
func New(db DB, logger *slog.Logger) *Archive {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archive{
		db:     db,
		logger: logger.With("component", "archive"),
	}
}

// WriteSnapshot stores a market snapshot as one run.
func (a *Archive) WriteSnapshot(ctx context.Context, run Run, markets []model.Market) error {
	batch := &pgx.Batch{}
	queueRun(batch, run, len(markets), 0)
	for i, m := range markets {
		r := newMarketRow(run.ID, i, m)
		batch.Queue(insertMarket, r.args()...)
	}

	if err := a.send(ctx, batch); err != nil {
		return fmt.Errorf("write snapshot run %s: %w", run.ID, err)
	}

	a.logger.Debug("archived snapshot",
		"run_id", run.ID,
		"series", run.Series,
		"markets", len(markets),
	)
	return nil
}

// WriteCombined stores combined rows as one run. Rows whose order book
// failed are kept with the error text and NULL ladders.
func (a *Archive) WriteCombined(ctx context.Context, run Run, rows []model.CombinedRow) error {
	batch := &pgx.Batch{}
	failures := 0
	for _, row := range rows {
		if row.Err != nil {
			failures++
		}
	}
	queueRun(batch, run, len(rows), failures)

	for i, row := range rows {
		r, err := newOrderbookRow(run.ID, i, row)
		if err != nil {
			return fmt.Errorf("encode %s: %w", row.MarketID, err)
		}
		batch.Queue(insertOrderbook, r.args()...)
	}

	if err := a.send(ctx, batch); err != nil {
		return fmt.Errorf("write combined run %s: %w", run.ID, err)
	}

	a.logger.Debug("archived combined",
		"run_id", run.ID,
		"series", run.Series,
		"rows", len(rows),
		"failures", failures,
	)
	return nil
}

func (a *Archive) send(ctx context.Context, batch *pgx.Batch) error {
	results := a.db.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

const insertRun = `
	INSERT INTO snapshot_runs (run_id, kind, series, day, fetched_at, markets, failures)
	VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)`

func queueRun(batch *pgx.Batch, run Run, markets, failures int) {
	batch.Queue(insertRun,
		run.ID.String(), run.Kind, run.Series, run.Day, run.FetchedAt, markets, failures)
}
