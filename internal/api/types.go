package api

import "encoding/json"

// ExchangeStatusResponse from GET /exchange/status
type ExchangeStatusResponse struct {
	ExchangeActive      bool   `json:"exchange_active"`
	TradingActive       bool   `json:"trading_active"`
	EstimatedResumeTime string `json:"exchange_estimated_resume_time,omitempty"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse from POST /login
type LoginResponse struct {
	MemberID string `json:"member_id"`
	Token    string `json:"token"`
}

// MarketsResponse from GET /markets
// Entries may be null; callers skip nil markets.
type MarketsResponse struct {
	Markets []*APIMarket `json:"markets"`
	Cursor  string       `json:"cursor"`
}

// APIMarket represents a market from the Kalshi API.
type APIMarket struct {
	Ticker      string `json:"ticker"`
	EventTicker string `json:"event_ticker"`
	MarketType  string `json:"market_type"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	YesSubTitle string `json:"yes_sub_title"`
	NoSubTitle  string `json:"no_sub_title"`
	Status      string `json:"status"`
	Result      string `json:"result"`

	// Strike bounds; nil for the open-ended tails of a range
	StrikeType  string   `json:"strike_type"`
	FloorStrike *float64 `json:"floor_strike"`
	CapStrike   *float64 `json:"cap_strike"`

	// Prices in cents
	YesBid         int `json:"yes_bid"`
	YesAsk         int `json:"yes_ask"`
	NoBid          int `json:"no_bid"`
	NoAsk          int `json:"no_ask"`
	LastPrice      int `json:"last_price"`
	PreviousYesBid int `json:"previous_yes_bid"`
	PreviousYesAsk int `json:"previous_yes_ask"`
	PreviousPrice  int `json:"previous_price"`

	// Volume
	Volume       int64 `json:"volume"`
	Volume24h    int64 `json:"volume_24h"`
	OpenInterest int64 `json:"open_interest"`
	Liquidity    int64 `json:"liquidity"`

	// Timestamps (ISO 8601)
	OpenTime       string `json:"open_time"`
	CloseTime      string `json:"close_time"`
	ExpirationTime string `json:"expiration_time"`
}

// SeriesResponse from GET /series/{series_ticker}
type SeriesResponse struct {
	Series APISeries `json:"series"`
}

// APISeries represents a series from the Kalshi API.
type APISeries struct {
	Ticker    string   `json:"ticker"`
	Title     string   `json:"title"`
	Category  string   `json:"category"`
	Frequency string   `json:"frequency"`
	Tags      []string `json:"tags"`
}

// OrderbookResponse from GET /markets/{ticker}/orderbook
type OrderbookResponse struct {
	Orderbook APIOrderbook `json:"orderbook"`
}

// APIOrderbook represents the orderbook from the Kalshi API.
// Either side is null when it has no resting orders.
type APIOrderbook struct {
	// Levels as [price_cents, quantity] pairs
	Yes [][]int `json:"yes"`
	No  [][]int `json:"no"`

	// Levels as ["0.5200", quantity] pairs. The quantity arrives as a
	// number or as a fixed-point string such as "100.00".
	YesDollars [][]json.RawMessage `json:"yes_dollars"`
	NoDollars  [][]json.RawMessage `json:"no_dollars"`
}

// GetMarketsOptions configures a GetMarkets request.
type GetMarketsOptions struct {
	Limit        int
	Cursor       string
	SeriesTicker string
	MinCloseTS   int64 // Unix seconds, inclusive; 0 = unset
	MaxCloseTS   int64 // Unix seconds, inclusive; 0 = unset
}
