package stream

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/ryanznie/options-order-book/internal/api"
	"github.com/ryanznie/options-order-book/internal/auth"
	"github.com/ryanznie/options-order-book/internal/model"
)

var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no ping)")
	ErrAlreadyClosed   = errors.New("already closed")
)

// Message is one raw frame with its local receive time.
type Message struct {
	Data       []byte
	ReceivedAt time.Time
}

// Config configures a Conn.
type Config struct {
	URL               string             // e.g. wss://demo-api.kalshi.co/trade-api/ws/v2
	Auth              auth.Authenticator // nil = unauthenticated
	PingTimeout       time.Duration      // Max time without ping/pong before the connection is stale
	WriteTimeout      time.Duration
	HeartbeatInterval time.Duration
	BufferSize        int
}

// DefaultConfig returns defaults for url.
func DefaultConfig(url string) Config {
	return Config{
		URL:               url,
		PingTimeout:       60 * time.Second,
		WriteTimeout:      5 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		BufferSize:        1000,
	}
}

// Command is a client command.
type Command struct {
	ID     int64  `json:"id"`
	Cmd    string `json:"cmd"`
	Params any    `json:"params"`
}

// SubscribeParams are the parameters of a subscribe command.
type SubscribeParams struct {
	Channels      []string `json:"channels"`
	MarketTickers []string `json:"market_tickers,omitempty"`
}

// envelope holds the fields shared by every server message.
type envelope struct {
	ID   int64           `json:"id,omitempty"`
	Type string          `json:"type"` // "subscribed", "error", "ticker", "orderbook_snapshot", ...
	SID  int64           `json:"sid"`
	Seq  int64           `json:"seq,omitempty"`
	Msg  json.RawMessage `json:"msg"`
}

type subscribedMsg struct {
	SID     int64  `json:"sid"`
	Channel string `json:"channel"`
}

type errorMsg struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
}

type tickerWire struct {
	MarketTicker  string `json:"market_ticker"`
	Price         int    `json:"price"`
	YesBid        int    `json:"yes_bid"`
	YesAsk        int    `json:"yes_ask"`
	PriceDollars  string `json:"price_dollars"`
	YesBidDollars string `json:"yes_bid_dollars"`
	YesAskDollars string `json:"yes_ask_dollars"`
	Volume        int64  `json:"volume"`
	OpenInterest  int64  `json:"open_interest"`
	Ts            int64  `json:"ts"` // Unix seconds
}

type snapshotWire struct {
	MarketTicker string `json:"market_ticker"`
	api.APIOrderbook
}

type deltaWire struct {
	MarketTicker string `json:"market_ticker"`
	Price        int    `json:"price"`
	PriceDollars string `json:"price_dollars"`
	Delta        int    `json:"delta"`
	Side         string `json:"side"`
}

// Update is one decoded market message.
type Update interface {
	Market() string
}

// TickerUpdate is a top-of-book and volume change.
type TickerUpdate struct {
	Ticker        string
	Price         int // Cents
	YesBid        int
	YesAsk        int
	PriceDollars  string
	YesBidDollars string
	YesAskDollars string
	Volume        int64
	OpenInterest  int64
	ExchangeTime  time.Time
	ReceivedAt    time.Time
}

func (u TickerUpdate) Market() string { return u.Ticker }

// BookSnapshot replaces a market's full order book.
type BookSnapshot struct {
	Book       *model.Orderbook
	SID        int64
	Seq        int64
	ReceivedAt time.Time
}

func (u BookSnapshot) Market() string { return u.Book.Ticker }

// BookDelta changes the quantity resting at one price.
type BookDelta struct {
	Ticker       string
	Side         string // "yes" or "no"
	Price        int    // Cents
	PriceDollars string
	Delta        int
	SID          int64
	Seq          int64
	ReceivedAt   time.Time
}

func (u BookDelta) Market() string { return u.Ticker }
