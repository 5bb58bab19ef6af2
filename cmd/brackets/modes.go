package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ryanznie/options-order-book/internal/brackets"
	"github.com/ryanznie/options-order-book/internal/config"
	"github.com/ryanznie/options-order-book/internal/frame"
	"github.com/ryanznie/options-order-book/internal/model"
	"github.com/ryanznie/options-order-book/internal/poller"
	"github.com/ryanznie/options-order-book/internal/session"
	"github.com/ryanznie/options-order-book/internal/stream"
)

func runSnapshot(ctx context.Context, f *brackets.Fetcher, out *sinks, opts options) error {
	fetchedAt := time.Now()
	markets, err := f.FetchSnapshot(ctx, opts.days)
	if err != nil {
		return err
	}

	out.Snapshot(ctx, f.Window(opts.days), fetchedAt, markets)

	result, err := frame.New(opts.shape, model.MarketsKey, model.MarketColumns, model.MarketRecords(markets))
	if err != nil {
		return err
	}
	return result.Render(os.Stdout)
}

func runOrderbook(ctx context.Context, f *brackets.Fetcher, opts options) error {
	if opts.market == "" {
		return errors.New("-mode orderbook requires -market")
	}
	result, err := f.Orderbook(ctx, opts.market, opts.shape)
	if err != nil {
		return err
	}
	return result.Render(os.Stdout)
}

func runCombined(ctx context.Context, f *brackets.Fetcher, out *sinks, opts options) error {
	fetchedAt := time.Now()
	rows, err := f.FetchCombined(ctx, opts.days)
	if err != nil {
		return err
	}

	out.Combined(ctx, f.Window(opts.days), fetchedAt, rows)
	return renderCombined(rows, opts.shape)
}

func renderCombined(rows []model.CombinedRow, shape frame.Shape) error {
	table := brackets.CombinedTable(rows)
	if shape == frame.ShapeRecordSet {
		return table.RecordSet().Render(os.Stdout)
	}
	return table.Render(os.Stdout)
}

func runPoll(ctx context.Context, f *brackets.Fetcher, out *sinks, opts options, logger *slog.Logger) error {
	handler := poller.HandlerFunc(func(ctx context.Context, r poller.Result) error {
		out.Combined(ctx, f.Window(r.DayOffset), r.FetchedAt, r.Rows)
		return renderCombined(r.Rows, opts.shape)
	})

	p := poller.New(poller.Config{
		Interval:  opts.interval,
		DayOffset: opts.days,
		Timeout:   opts.interval,
	}, f, handler, logger)

	if err := p.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return p.Stop(stopCtx)
}

func runWatch(ctx context.Context, cfg *config.Config, sess *session.Session, f *brackets.Fetcher, opts options, logger *slog.Logger) error {
	markets, err := f.FetchSnapshot(ctx, opts.days)
	if err != nil {
		return err
	}
	if len(markets) == 0 {
		return fmt.Errorf("no %s markets close on %s", f.Series(), f.Window(opts.days).Date())
	}

	tickers := make([]string, len(markets))
	subtitles := make(map[string]string, len(markets))
	for i, m := range markets {
		tickers[i] = m.MarketID
		subtitles[m.MarketID] = m.Subtitle
	}

	streamCfg := stream.DefaultConfig(sess.WSURL())
	streamCfg.Auth = sess.Authenticator()
	streamCfg.PingTimeout = cfg.Stream.PingTimeout
	streamCfg.WriteTimeout = cfg.Stream.WriteTimeout
	streamCfg.BufferSize = cfg.Stream.BufferSize

	handler := func(u stream.Update) {
		subtitle := subtitles[u.Market()]
		switch u := u.(type) {
		case stream.TickerUpdate:
			logger.Info("ticker",
				"subtitle", subtitle,
				"yes_bid", u.YesBid,
				"yes_ask", u.YesAsk,
				"last_price", u.Price,
				"volume", u.Volume,
			)
		case stream.BookSnapshot:
			logger.Info("orderbook snapshot",
				"subtitle", subtitle,
				"yes_levels", len(u.Book.Yes),
				"no_levels", len(u.Book.No),
			)
		case stream.BookDelta:
			logger.Info("orderbook delta",
				"subtitle", subtitle,
				"side", u.Side,
				"price", u.Price,
				"delta", u.Delta,
			)
		}
	}

	w := stream.NewWatcher(stream.NewConn(streamCfg, logger), cfg.Stream.Channels, tickers, handler, logger)
	return w.Run(ctx)
}
