package brackets

import (
	"context"
	"fmt"

	"github.com/ryanznie/options-order-book/internal/api"
	"github.com/ryanznie/options-order-book/internal/frame"
	"github.com/ryanznie/options-order-book/internal/model"
)

// FetchSnapshot returns the series' markets closing on the day at dayOffset,
// in exchange order. An empty day is an empty slice and a nil error.
func (f *Fetcher) FetchSnapshot(ctx context.Context, dayOffset int) ([]model.Market, error) {
	w := f.Window(dayOffset)

	raw, err := f.ex.GetAllMarketsWithOptions(ctx, api.GetMarketsOptions{
		SeriesTicker: f.series,
		MinCloseTS:   w.MinCloseTS(),
		MaxCloseTS:   w.MaxCloseTS(),
	})
	if err != nil {
		f.logger.Error("market snapshot failed",
			"day", w.Date(),
			"error", err,
		)
		return nil, fmt.Errorf("snapshot %s %s: %w", f.series, w.Date(), err)
	}

	markets := make([]model.Market, 0, len(raw))
	skipped := 0
	for _, m := range raw {
		if m == nil {
			skipped++
			continue
		}
		markets = append(markets, m.ToModel())
	}

	f.logger.Debug("market snapshot",
		"day", w.Date(),
		"markets", len(markets),
		"skipped", skipped,
	)

	return markets, nil
}

// MarketSnapshot is FetchSnapshot shaped for display. The shape is checked
// before any request is made.
func (f *Fetcher) MarketSnapshot(ctx context.Context, dayOffset int, shape frame.Shape) (frame.Output, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	markets, err := f.FetchSnapshot(ctx, dayOffset)
	if err != nil {
		return nil, err
	}

	return frame.New(shape, model.MarketsKey, model.MarketColumns, model.MarketRecords(markets))
}
