package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ryanznie/options-order-book/internal/api"
	"github.com/ryanznie/options-order-book/internal/auth"
	"github.com/ryanznie/options-order-book/internal/config"
)

// Mode identifies how a session is authorized.
type Mode string

const (
	ModeAnonymous Mode = "anonymous"
	ModeLogin     Mode = "login"
	ModeKey       Mode = "key"
)

// Session is an established connection to the exchange.
// It is safe for concurrent use once Establish returns.
type Session struct {
	client *api.Client
	auth   auth.Authenticator
	mode   Mode
	status *api.ExchangeStatusResponse

	series string
	depth  int
	wsURL  string

	logger *slog.Logger
}

// Establish authorizes against cfg.API.RestURL and checks the exchange
// status once. Errors from login or the status call are returned as-is.
func Establish(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "session")

	client := api.NewClient(cfg.API.RestURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.Retries(), cfg.API.RetryBackoff),
		api.WithLogger(logger),
	)

	s := &Session{
		client: client,
		mode:   ModeAnonymous,
		series: cfg.Brackets.SeriesTicker,
		depth:  cfg.Brackets.OrderbookDepth,
		wsURL:  cfg.API.WSURL,
		logger: logger,
	}

	switch {
	case cfg.API.HasLogin():
		resp, err := client.Login(ctx, cfg.API.Email, cfg.API.Password)
		if err != nil {
			return nil, err
		}
		token, err := auth.NewToken(resp.MemberID, resp.Token)
		if err != nil {
			return nil, fmt.Errorf("login response: %w", err)
		}
		s.auth = token
		s.mode = ModeLogin
	case cfg.API.HasKey():
		signer, err := auth.LoadKeySigner(cfg.API.APIKey, cfg.API.PrivateKeyPath)
		if err != nil {
			return nil, err
		}
		s.auth = signer
		s.mode = ModeKey
	}

	if s.auth != nil {
		s.client = client.Authenticated(s.auth)
	}

	status, err := s.client.GetExchangeStatus(ctx)
	if err != nil {
		return nil, err
	}
	s.status = status

	logger.Info("session established",
		"host", cfg.API.RestURL,
		"mode", s.mode,
		"exchange_active", status.ExchangeActive,
		"trading_active", status.TradingActive,
	)

	return s, nil
}

// Client returns the authorized REST client.
func (s *Session) Client() *api.Client { return s.client }

// Authenticator returns the request authenticator, or nil for anonymous sessions.
func (s *Session) Authenticator() auth.Authenticator { return s.auth }

// Mode reports how the session is authorized.
func (s *Session) Mode() Mode { return s.mode }

// Status returns the exchange status observed when the session was established.
func (s *Session) Status() *api.ExchangeStatusResponse { return s.status }

// SeriesTicker returns the series whose markets make up a day's brackets.
func (s *Session) SeriesTicker() string { return s.series }

// OrderbookDepth returns the configured orderbook depth (0 = full book).
func (s *Session) OrderbookDepth() int { return s.depth }

// WSURL returns the WebSocket endpoint paired with the REST host.
func (s *Session) WSURL() string { return s.wsURL }

// Close ends a login session. It is a no-op for other modes.
func (s *Session) Close(ctx context.Context) error {
	if s.mode != ModeLogin {
		return nil
	}
	if err := s.client.Logout(ctx); err != nil {
		return err
	}
	s.logger.Info("session closed")
	return nil
}
