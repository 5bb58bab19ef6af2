package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ryanznie/options-order-book/internal/brackets"
	"github.com/ryanznie/options-order-book/internal/config"
	"github.com/ryanznie/options-order-book/internal/frame"
	"github.com/ryanznie/options-order-book/internal/session"
	"github.com/ryanznie/options-order-book/internal/version"
)

const (
	modeSnapshot  = "snapshot"
	modeOrderbook = "orderbook"
	modeCombined  = "combined"
	modeWatch     = "watch"
)

type options struct {
	mode     string
	days     int
	shape    frame.Shape
	market   string
	interval time.Duration
}

func main() {
	configPath := flag.String("config", "", "path to YAML config (empty = defaults + environment)")
	envFiles := flag.String("env", strings.Join(config.DefaultEnvFiles, ","), "comma-separated env files to load")
	mode := flag.String("mode", modeCombined, "snapshot, orderbook, combined or watch")
	days := flag.Int("days", 0, "UTC day offset (0 = today, 1 = tomorrow)")
	shapeFlag := flag.String("shape", string(frame.ShapeTable), "output shape: record-set or table")
	market := flag.String("market", "", "market ticker for -mode orderbook")
	interval := flag.Duration("interval", 0, "poll interval for -mode combined (overrides poller.interval)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if err := config.LoadEnvFiles(splitList(*envFiles)...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	shape, err := frame.ParseShape(*shapeFlag)
	if err != nil {
		logger.Error("invalid -shape", "error", err)
		os.Exit(2)
	}

	opts := options{
		mode:     *mode,
		days:     *days,
		shape:    shape,
		market:   *market,
		interval: cfg.Poller.Interval,
	}
	if *interval > 0 {
		opts.interval = *interval
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting brackets",
		"version", version.Version,
		"commit", version.Commit,
		"mode", opts.mode,
		"series", cfg.Brackets.SeriesTicker,
		"api_url", cfg.API.RestURL,
	)

	if err := run(ctx, cfg, opts, logger); err != nil {
		logger.Error("brackets failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, logger *slog.Logger) error {
	sess, err := session.Establish(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("establish session: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sess.Close(closeCtx); err != nil {
			logger.Warn("logout failed", "error", err)
		}
	}()

	if series, err := sess.Client().GetSeries(ctx, sess.SeriesTicker()); err != nil {
		logger.Warn("series lookup failed", "series", sess.SeriesTicker(), "error", err)
	} else {
		logger.Info("series", "ticker", series.Ticker, "title", series.Title, "frequency", series.Frequency)
	}

	fetcher := brackets.ForSession(sess, logger)

	out, err := openSinks(ctx, cfg, sess.SeriesTicker(), logger)
	if err != nil {
		return err
	}
	defer out.Close()

	switch opts.mode {
	case modeSnapshot:
		return runSnapshot(ctx, fetcher, out, opts)
	case modeOrderbook:
		return runOrderbook(ctx, fetcher, opts)
	case modeCombined:
		if opts.interval > 0 {
			return runPoll(ctx, fetcher, out, opts, logger)
		}
		return runCombined(ctx, fetcher, out, opts)
	case modeWatch:
		return runWatch(ctx, cfg, sess, fetcher, opts, logger)
	default:
		return fmt.Errorf("unknown -mode %q", opts.mode)
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, handlerOpts))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
