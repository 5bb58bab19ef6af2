package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ryanznie/options-order-book/internal/model"
)

// Source produces the combined rows for a day.
type Source interface {
	FetchCombined(ctx context.Context, dayOffset int) ([]model.CombinedRow, error)
}

// Result is the outcome of one poll cycle.
type Result struct {
	DayOffset int
	FetchedAt time.Time
	Rows      []model.CombinedRow
}

// Handler receives each successful cycle.
type Handler interface {
	HandleCombined(ctx context.Context, result Result) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(context.Context, Result) error

func (f HandlerFunc) HandleCombined(ctx context.Context, r Result) error {
	return f(ctx, r)
}

// Config holds poller configuration.
type Config struct {
	Interval  time.Duration // Time between cycle starts
	DayOffset int           // Day to poll, relative to the current UTC day
	Timeout   time.Duration // Per-cycle timeout (0 = none)
}

// DefaultConfig returns defaults for polling today's brackets.
func DefaultConfig() Config {
	return Config{
		Interval: time.Minute,
		Timeout:  5 * time.Minute,
	}
}

// Poller periodically fetches the combined view.
type Poller struct {
	cfg     Config
	source  Source
	handler Handler
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, source Source, handler Handler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:     cfg,
		source:  source,
		handler: handler,
		logger:  logger.With("component", "poller"),
	}
}

// Start begins the polling loop. The first cycle runs immediately.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("poller started",
		"interval", p.cfg.Interval,
		"day_offset", p.cfg.DayOffset,
	)

	return nil
}

// Stop cancels the loop and waits for the current cycle to finish.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.poll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

// poll runs one cycle. Failures are logged; the loop keeps going.
func (p *Poller) poll() {
	start := time.Now()

	ctx := p.ctx
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(p.ctx, p.cfg.Timeout)
		defer cancel()
	}

	rows, err := p.source.FetchCombined(ctx, p.cfg.DayOffset)
	if err != nil {
		if p.ctx.Err() == nil {
			p.logger.Warn("poll cycle failed", "error", err)
		}
		return
	}

	failed := 0
	for _, r := range rows {
		if r.Err != nil {
			failed++
		}
	}

	if p.handler != nil {
		result := Result{DayOffset: p.cfg.DayOffset, FetchedAt: start, Rows: rows}
		if err := p.handler.HandleCombined(ctx, result); err != nil {
			p.logger.Warn("poll handler failed", "error", err)
		}
	}

	p.logger.Info("poll cycle complete",
		"markets", len(rows),
		"failed", failed,
		"duration", time.Since(start),
	)
}
