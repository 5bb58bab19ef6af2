package brackets

import (
	"context"
	"log/slog"
	"time"

	"github.com/ryanznie/options-order-book/internal/api"
	"github.com/ryanznie/options-order-book/internal/session"
)

// Exchange is the subset of the REST client the fetcher needs.
type Exchange interface {
	GetAllMarketsWithOptions(ctx context.Context, opts api.GetMarketsOptions) ([]*api.APIMarket, error)
	GetOrderbook(ctx context.Context, ticker string, depth int) (*api.OrderbookResponse, error)
}

// Fetcher retrieves bracket snapshots and order books for one series.
type Fetcher struct {
	ex     Exchange
	series string
	depth  int
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithDepth limits order book fetches to depth levels per side (0 = full book).
func WithDepth(depth int) Option {
	return func(f *Fetcher) {
		f.depth = depth
	}
}

// WithClock overrides the time source used to resolve day offsets.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		f.now = now
	}
}

// New creates a Fetcher for series.
func New(ex Exchange, series string, opts ...Option) *Fetcher {
	f := &Fetcher{
		ex:     ex,
		series: series,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With("component", "brackets", "series", series)
	return f
}

// ForSession binds a Fetcher to an established session.
func ForSession(sess *session.Session, logger *slog.Logger) *Fetcher {
	return New(sess.Client(), sess.SeriesTicker(),
		WithLogger(logger),
		WithDepth(sess.OrderbookDepth()),
	)
}

// Series returns the series ticker the fetcher queries.
func (f *Fetcher) Series() string {
	return f.series
}

// Window resolves a day offset against the fetcher's clock.
func (f *Fetcher) Window(dayOffset int) Window {
	return DayWindow(f.now(), dayOffset)
}
