package model

import (
	"encoding/json"

	"github.com/ryanznie/options-order-book/internal/frame"
)

// Record set keys.
const (
	MarketsKey   = "markets"
	OrderbookKey = "orderbook"
	CombinedKey  = "combined"
)

// MarketColumns is the fixed field subset kept for each market, in table order.
var MarketColumns = []string{
	"market_id",
	"cap_strike",
	"floor_strike",
	"last_price",
	"liquidity",
	"no_ask",
	"no_bid",
	"open_interest",
	"previous_price",
	"previous_yes_ask",
	"previous_yes_bid",
	"result",
	"subtitle",
	"volume",
	"volume_24h",
	"yes_ask",
	"yes_bid",
}

// Market is one bracket in a day's snapshot.
type Market struct {
	MarketID       string   `json:"market_id"`    // Kalshi market ticker
	CapStrike      *float64 `json:"cap_strike"`   // Upper bound, nil when open-ended
	FloorStrike    *float64 `json:"floor_strike"` // Lower bound, nil when open-ended
	LastPrice      int      `json:"last_price"`
	Liquidity      int64    `json:"liquidity"`
	NoAsk          int      `json:"no_ask"`
	NoBid          int      `json:"no_bid"`
	OpenInterest   int64    `json:"open_interest"`
	PreviousPrice  int      `json:"previous_price"`
	PreviousYesAsk int      `json:"previous_yes_ask"`
	PreviousYesBid int      `json:"previous_yes_bid"`
	Result         string   `json:"result"`
	Subtitle       string   `json:"subtitle"`
	Volume         int64    `json:"volume"`
	Volume24h      int64    `json:"volume_24h"`
	YesAsk         int      `json:"yes_ask"`
	YesBid         int      `json:"yes_bid"`
}

// Record flattens the market into its fixed columns.
func (m Market) Record() frame.Record {
	return frame.Record{
		"market_id":        m.MarketID,
		"cap_strike":       floatOrNil(m.CapStrike),
		"floor_strike":     floatOrNil(m.FloorStrike),
		"last_price":       m.LastPrice,
		"liquidity":        m.Liquidity,
		"no_ask":           m.NoAsk,
		"no_bid":           m.NoBid,
		"open_interest":    m.OpenInterest,
		"previous_price":   m.PreviousPrice,
		"previous_yes_ask": m.PreviousYesAsk,
		"previous_yes_bid": m.PreviousYesBid,
		"result":           m.Result,
		"subtitle":         m.Subtitle,
		"volume":           m.Volume,
		"volume_24h":       m.Volume24h,
		"yes_ask":          m.YesAsk,
		"yes_bid":          m.YesBid,
	}
}

func floatOrNil(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// MarketRecords flattens a snapshot in order.
func MarketRecords(markets []Market) []frame.Record {
	records := make([]frame.Record, len(markets))
	for i, m := range markets {
		records[i] = m.Record()
	}
	return records
}

// OrderbookColumns are the ladders of an order book, in table order.
var OrderbookColumns = []string{"yes", "no", "yes_dollars", "no_dollars"}

// PriceLevel is one resting bid level in cents.
type PriceLevel struct {
	Price    int // Cents (1-99)
	Quantity int // Contracts
}

// DollarLevel is one resting bid level with a dollar price string.
// Quantity keeps the exchange's number text, which may be fractional.
type DollarLevel struct {
	Dollars  string // e.g. "0.52" or "0.5250"
	Quantity json.Number
}

// Orderbook holds the YES and NO bid ladders for one market.
// Kalshi only reports bids; a YES ask at X is a NO bid at 100-X.
type Orderbook struct {
	Ticker     string
	Yes        []PriceLevel
	No         []PriceLevel
	YesDollars []DollarLevel
	NoDollars  []DollarLevel
}

// Record returns the ladders as [price, quantity] pairs, the way the
// exchange sends them. A nil order book has a nil record.
func (o *Orderbook) Record() frame.Record {
	if o == nil {
		return nil
	}
	return frame.Record{
		"yes":         levelPairs(o.Yes),
		"no":          levelPairs(o.No),
		"yes_dollars": dollarPairs(o.YesDollars),
		"no_dollars":  dollarPairs(o.NoDollars),
	}
}

func levelPairs(levels []PriceLevel) [][]int {
	if levels == nil {
		return nil
	}
	pairs := make([][]int, len(levels))
	for i, l := range levels {
		pairs[i] = []int{l.Price, l.Quantity}
	}
	return pairs
}

func dollarPairs(levels []DollarLevel) [][]any {
	if levels == nil {
		return nil
	}
	pairs := make([][]any, len(levels))
	for i, l := range levels {
		pairs[i] = []any{l.Dollars, l.Quantity}
	}
	return pairs
}

// CombinedColumns are the columns of the combined table.
var CombinedColumns = []string{"subtitle", "orderbook"}

// CombinedRow pairs one snapshot market with its order book.
// Orderbook is nil and Err is set when that market's fetch failed.
type CombinedRow struct {
	Subtitle  string
	MarketID  string
	Orderbook *Orderbook
	Err       error
}

// Record returns the subtitle/orderbook pair.
func (r CombinedRow) Record() frame.Record {
	rec := frame.Record{
		"subtitle":  r.Subtitle,
		"orderbook": nil,
	}
	if r.Orderbook != nil {
		rec["orderbook"] = r.Orderbook.Record()
	}
	return rec
}

// CombinedRecords flattens combined rows in order.
func CombinedRecords(rows []CombinedRow) []frame.Record {
	records := make([]frame.Record, len(rows))
	for i, r := range rows {
		records[i] = r.Record()
	}
	return records
}
