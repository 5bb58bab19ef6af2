package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ryanznie/options-order-book/internal/api"
)

// Handler receives decoded updates in arrival order.
type Handler func(Update)

// Watcher subscribes market tickers on a Conn and dispatches updates.
type Watcher struct {
	conn     *Conn
	channels []string
	tickers  []string
	handler  Handler
	logger   *slog.Logger

	nextID atomic.Int64
	subs   map[int64]string // sid -> channel
}

// NewWatcher creates a Watcher for tickers on channels
// (e.g. "ticker", "orderbook_delta").
func NewWatcher(conn *Conn, channels, tickers []string, handler Handler, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		conn:     conn,
		channels: channels,
		tickers:  tickers,
		handler:  handler,
		logger:   logger.With("component", "stream"),
		subs:     make(map[int64]string),
	}
}

// Run connects, subscribes and dispatches updates until ctx is done or the
// connection fails. A cancelled context is a clean exit.
func (w *Watcher) Run(ctx context.Context) error {
	if len(w.tickers) == 0 {
		return errors.New("watch: no market tickers")
	}

	if err := w.conn.Connect(ctx); err != nil {
		return err
	}
	defer w.conn.Close()

	if err := w.subscribe(); err != nil {
		return err
	}

	w.logger.Info("watching markets",
		"channels", w.channels,
		"markets", len(w.tickers),
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.conn.Errors():
			return fmt.Errorf("stream: %w", err)
		case msg := <-w.conn.Messages():
			if err := w.dispatch(msg); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) subscribe() error {
	cmd := Command{
		ID:  w.nextID.Add(1),
		Cmd: "subscribe",
		Params: SubscribeParams{
			Channels:      w.channels,
			MarketTickers: w.tickers,
		},
	}
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode subscribe: %w", err)
	}
	if err := w.conn.Send(data); err != nil {
		return fmt.Errorf("send subscribe: %w", err)
	}
	return nil
}

// dispatch decodes one frame. Only a command error stops the watcher;
// malformed or unknown data messages are logged and skipped.
func (w *Watcher) dispatch(msg Message) error {
	var env envelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		w.logger.Warn("undecodable message", "error", err)
		return nil
	}

	switch env.Type {
	case "subscribed":
		var sub subscribedMsg
		if err := json.Unmarshal(env.Msg, &sub); err != nil {
			w.logger.Warn("malformed subscribed ack", "id", env.ID, "error", err)
			return nil
		}
		w.subs[sub.SID] = sub.Channel
		w.logger.Debug("subscribed", "sid", sub.SID, "channel", sub.Channel)
		return nil
	case "error":
		var e errorMsg
		if err := json.Unmarshal(env.Msg, &e); err != nil || e.Message == "" {
			return fmt.Errorf("command %d failed: %s", env.ID, env.Msg)
		}
		return fmt.Errorf("command %d failed: code %d: %s", env.ID, e.Code, e.Message)
	}

	update, err := decodeUpdate(env, msg.ReceivedAt)
	if err != nil {
		w.logger.Warn("malformed update", "type", env.Type, "error", err)
		return nil
	}
	if update == nil {
		return nil
	}
	if w.handler != nil {
		w.handler(update)
	}
	return nil
}

// decodeUpdate returns nil, nil for message types the watcher ignores.
func decodeUpdate(env envelope, receivedAt time.Time) (Update, error) {
	switch env.Type {
	case "ticker", "ticker_v2":
		var t tickerWire
		if err := json.Unmarshal(env.Msg, &t); err != nil {
			return nil, err
		}
		u := TickerUpdate{
			Ticker:        t.MarketTicker,
			Price:         t.Price,
			YesBid:        t.YesBid,
			YesAsk:        t.YesAsk,
			PriceDollars:  t.PriceDollars,
			YesBidDollars: t.YesBidDollars,
			YesAskDollars: t.YesAskDollars,
			Volume:        t.Volume,
			OpenInterest:  t.OpenInterest,
			ReceivedAt:    receivedAt,
		}
		if t.Ts > 0 {
			u.ExchangeTime = time.Unix(t.Ts, 0).UTC()
		}
		return u, nil

	case "orderbook_snapshot":
		var s snapshotWire
		if err := json.Unmarshal(env.Msg, &s); err != nil {
			return nil, err
		}
		resp := api.OrderbookResponse{Orderbook: s.APIOrderbook}
		book, err := resp.ToModel(s.MarketTicker)
		if err != nil {
			return nil, err
		}
		return BookSnapshot{
			Book:       book,
			SID:        env.SID,
			Seq:        env.Seq,
			ReceivedAt: receivedAt,
		}, nil

	case "orderbook_delta":
		var d deltaWire
		if err := json.Unmarshal(env.Msg, &d); err != nil {
			return nil, err
		}
		return BookDelta{
			Ticker:       d.MarketTicker,
			Side:         d.Side,
			Price:        d.Price,
			PriceDollars: d.PriceDollars,
			Delta:        d.Delta,
			SID:          env.SID,
			Seq:          env.Seq,
			ReceivedAt:   receivedAt,
		}, nil
	}

	return nil, nil
}
