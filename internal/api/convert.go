package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ryanznie/options-order-book/internal/model"
)

// ToModel projects an APIMarket onto the bracket field subset.
// Values pass through unchanged.
func (m *APIMarket) ToModel() model.Market {
	return model.Market{
		MarketID:       m.Ticker,
		CapStrike:      m.CapStrike,
		FloorStrike:    m.FloorStrike,
		LastPrice:      m.LastPrice,
		Liquidity:      m.Liquidity,
		NoAsk:          m.NoAsk,
		NoBid:          m.NoBid,
		OpenInterest:   m.OpenInterest,
		PreviousPrice:  m.PreviousPrice,
		PreviousYesAsk: m.PreviousYesAsk,
		PreviousYesBid: m.PreviousYesBid,
		Result:         m.Result,
		Subtitle:       m.Subtitle,
		Volume:         m.Volume,
		Volume24h:      m.Volume24h,
		YesAsk:         m.YesAsk,
		YesBid:         m.YesBid,
	}
}

// ToModel converts an OrderbookResponse to model.Orderbook. Dollar
// quantities keep the exchange's own number text ("100.00" stays
// "100.00"). A level that cannot be read fails the whole book.
func (o *OrderbookResponse) ToModel(ticker string) (*model.Orderbook, error) {
	ob := &model.Orderbook{Ticker: ticker}
	var err error
	if ob.Yes, err = centLevels(o.Orderbook.Yes); err != nil {
		return nil, fmt.Errorf("yes: %w", err)
	}
	if ob.No, err = centLevels(o.Orderbook.No); err != nil {
		return nil, fmt.Errorf("no: %w", err)
	}
	if ob.YesDollars, err = dollarLevels(o.Orderbook.YesDollars); err != nil {
		return nil, fmt.Errorf("yes_dollars: %w", err)
	}
	if ob.NoDollars, err = dollarLevels(o.Orderbook.NoDollars); err != nil {
		return nil, fmt.Errorf("no_dollars: %w", err)
	}
	return ob, nil
}

func centLevels(raw [][]int) ([]model.PriceLevel, error) {
	if raw == nil {
		return nil, nil
	}
	levels := make([]model.PriceLevel, 0, len(raw))
	for i, level := range raw {
		if len(level) != 2 {
			return nil, fmt.Errorf("level %d: want [price, quantity], got %v", i, level)
		}
		levels = append(levels, model.PriceLevel{
			Price:    level[0],
			Quantity: level[1],
		})
	}
	return levels, nil
}

func dollarLevels(raw [][]json.RawMessage) ([]model.DollarLevel, error) {
	if raw == nil {
		return nil, nil
	}
	levels := make([]model.DollarLevel, 0, len(raw))
	for i, level := range raw {
		if len(level) != 2 {
			return nil, fmt.Errorf("level %d: want [dollars, quantity], got %d entries", i, len(level))
		}
		dollars, err := numberText(level[0])
		if err != nil {
			return nil, fmt.Errorf("level %d dollars: %w", i, err)
		}
		qty, err := numberText(level[1])
		if err != nil {
			return nil, fmt.Errorf("level %d quantity: %w", i, err)
		}
		levels = append(levels, model.DollarLevel{
			Dollars:  dollars,
			Quantity: json.Number(qty),
		})
	}
	return levels, nil
}

// numberText accepts a JSON number or a quoted decimal string and returns
// the number's text as sent.
func numberText(raw json.RawMessage) (string, error) {
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, `"`) {
		if err := json.Unmarshal(raw, &text); err != nil {
			return "", err
		}
	}
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return "", fmt.Errorf("not a number: %s", raw)
	}
	return text, nil
}
