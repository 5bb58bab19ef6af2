package brackets

import (
	"context"
	"fmt"

	"github.com/ryanznie/options-order-book/internal/frame"
	"github.com/ryanznie/options-order-book/internal/model"
)

// FetchCombined pairs each market of the day's snapshot with its order book.
//
// Rows follow snapshot order, one per market, duplicate subtitles included.
// Order books are fetched one at a time. A failed order book is logged and
// recorded on its row; only a failed snapshot or a cancelled context aborts.
func (f *Fetcher) FetchCombined(ctx context.Context, dayOffset int) ([]model.CombinedRow, error) {
	markets, err := f.FetchSnapshot(ctx, dayOffset)
	if err != nil {
		return nil, err
	}

	rows := make([]model.CombinedRow, 0, len(markets))
	failed := 0
	for _, m := range markets {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("combined: %w", err)
		}

		row := model.CombinedRow{
			Subtitle: m.Subtitle,
			MarketID: m.MarketID,
		}
		ob, err := f.FetchOrderbook(ctx, m.MarketID)
		if err != nil {
			row.Err = err
			failed++
		} else {
			row.Orderbook = ob
		}
		rows = append(rows, row)
	}

	if failed > 0 {
		f.logger.Warn("combined fetch incomplete",
			"markets", len(markets),
			"failed", failed,
		)
	}

	return rows, nil
}

// Combined is FetchCombined as a subtitle/orderbook table.
func (f *Fetcher) Combined(ctx context.Context, dayOffset int) (*frame.Table, error) {
	rows, err := f.FetchCombined(ctx, dayOffset)
	if err != nil {
		return nil, err
	}
	return CombinedTable(rows), nil
}

// CombinedTable lays combined rows out as a subtitle/orderbook table.
// Failed rows have a nil orderbook cell.
func CombinedTable(rows []model.CombinedRow) *frame.Table {
	rs := &frame.RecordSet{
		Key:     model.CombinedKey,
		Columns: model.CombinedColumns,
		Records: model.CombinedRecords(rows),
	}
	return rs.Table()
}
