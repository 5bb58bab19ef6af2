package brackets

import (
	"context"
	"fmt"

	"github.com/ryanznie/options-order-book/internal/frame"
	"github.com/ryanznie/options-order-book/internal/model"
)

// FetchOrderbook returns the current order book for one market.
func (f *Fetcher) FetchOrderbook(ctx context.Context, ticker string) (*model.Orderbook, error) {
	if ticker == "" {
		return nil, fmt.Errorf("orderbook: market ticker is required")
	}

	resp, err := f.ex.GetOrderbook(ctx, ticker, f.depth)
	if err != nil {
		f.logger.Error("orderbook fetch failed",
			"ticker", ticker,
			"error", err,
		)
		return nil, fmt.Errorf("orderbook %s: %w", ticker, err)
	}

	ob, err := resp.ToModel(ticker)
	if err != nil {
		f.logger.Error("orderbook decode failed",
			"ticker", ticker,
			"error", err,
		)
		return nil, fmt.Errorf("orderbook %s: %w", ticker, err)
	}
	return ob, nil
}

// Orderbook is FetchOrderbook shaped for display: one record with the
// book's ladders. The shape is checked before any request is made.
func (f *Fetcher) Orderbook(ctx context.Context, ticker string, shape frame.Shape) (frame.Output, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	ob, err := f.FetchOrderbook(ctx, ticker)
	if err != nil {
		return nil, err
	}

	return frame.New(shape, model.OrderbookKey, model.OrderbookColumns, []frame.Record{ob.Record()})
}
