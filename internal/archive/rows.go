package archive

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/ryanznie/options-order-book/internal/model"
)

const insertMarket = `
	INSERT INTO bracket_markets (run_id, position, market_id, subtitle, floor_strike, cap_strike,
		yes_bid, yes_ask, no_bid, no_ask, last_price, previous_price, previous_yes_bid, previous_yes_ask,
		volume, volume_24h, open_interest, liquidity, result)
	VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

const insertOrderbook = `
	INSERT INTO bracket_orderbooks (run_id, position, market_id, subtitle, yes_bids, no_bids, yes_dollars, no_dollars, error)
	VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9)`

type marketRow struct {
	RunID    string
	Position int
	Market   model.Market
}

func newMarketRow(runID uuid.UUID, position int, m model.Market) marketRow {
	return marketRow{RunID: runID.String(), Position: position, Market: m}
}

func (r marketRow) args() []any {
	m := r.Market
	return []any{
		r.RunID, r.Position, m.MarketID, m.Subtitle, m.FloorStrike, m.CapStrike,
		m.YesBid, m.YesAsk, m.NoBid, m.NoAsk, m.LastPrice, m.PreviousPrice, m.PreviousYesBid, m.PreviousYesAsk,
		m.Volume, m.Volume24h, m.OpenInterest, m.Liquidity, m.Result,
	}
}

type orderbookRow struct {
	RunID      string
	Position   int
	MarketID   string
	Subtitle   string
	YesBids    []byte // JSONB, nil = NULL
	NoBids     []byte
	YesDollars []byte
	NoDollars  []byte
	Error      *string
}

func newOrderbookRow(runID uuid.UUID, position int, row model.CombinedRow) (orderbookRow, error) {
	r := orderbookRow{
		RunID:    runID.String(),
		Position: position,
		MarketID: row.MarketID,
		Subtitle: row.Subtitle,
	}
	if row.Err != nil {
		msg := row.Err.Error()
		r.Error = &msg
	}
	if row.Orderbook == nil {
		return r, nil
	}

	rec := row.Orderbook.Record()
	var err error
	if r.YesBids, err = ladderJSON(rec["yes"]); err != nil {
		return r, err
	}
	if r.NoBids, err = ladderJSON(rec["no"]); err != nil {
		return r, err
	}
	if r.YesDollars, err = ladderJSON(rec["yes_dollars"]); err != nil {
		return r, err
	}
	if r.NoDollars, err = ladderJSON(rec["no_dollars"]); err != nil {
		return r, err
	}
	return r, nil
}

func (r orderbookRow) args() []any {
	return []any{
		r.RunID, r.Position, r.MarketID, r.Subtitle,
		r.YesBids, r.NoBids, r.YesDollars, r.NoDollars, r.Error,
	}
}

// ladderJSON encodes one side. A missing side stays NULL.
func ladderJSON(v any) ([]byte, error) {
	switch l := v.(type) {
	case nil:
		return nil, nil
	case [][]int:
		if l == nil {
			return nil, nil
		}
	case [][]any:
		if l == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}
