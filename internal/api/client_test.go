package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ryanznie/options-order-book/internal/auth"
)

// TestNewClient tests client construction with various options.
func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("https://api.example.com")

		if c.baseURL != "https://api.example.com" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "https://api.example.com")
		}
		if c.auth != nil {
			t.Errorf("auth = %v, want nil", c.auth)
		}
		if c.httpClient.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 30*time.Second)
		}
		if c.maxRetries != 3 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 3)
		}
		if c.retryBackoff != time.Second {
			t.Errorf("retryBackoff = %v, want %v", c.retryBackoff, time.Second)
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("with multiple options", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tok := &auth.Token{MemberID: "m", Token: "t"}
		c := NewClient("https://api.example.com",
			WithTimeout(15*time.Second),
			WithRetries(10, 500*time.Millisecond),
			WithLogger(logger),
			WithAuthenticator(tok),
		)
		if c.httpClient.Timeout != 15*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 15*time.Second)
		}
		if c.maxRetries != 10 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 10)
		}
		if c.retryBackoff != 500*time.Millisecond {
			t.Errorf("retryBackoff = %v, want %v", c.retryBackoff, 500*time.Millisecond)
		}
		if c.logger != logger {
			t.Error("logger not set correctly")
		}
		if c.auth != tok {
			t.Error("authenticator not set correctly")
		}
	})

	t.Run("with custom HTTP client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		c := NewClient("https://api.example.com", WithHTTPClient(customClient))
		if c.httpClient != customClient {
			t.Error("custom HTTP client not set")
		}
	})

	t.Run("authenticated copy", func(t *testing.T) {
		base := NewClient("https://api.example.com")
		tok := &auth.Token{MemberID: "m", Token: "t"}
		authed := base.Authenticated(tok)

		if base.auth != nil {
			t.Error("Authenticated must not modify the original client")
		}
		if authed.auth != tok {
			t.Error("copy does not carry the authenticator")
		}
		if authed.httpClient != base.httpClient {
			t.Error("copy should share the HTTP client")
		}
		if authed.BaseURL() != base.BaseURL() {
			t.Errorf("BaseURL = %q, want %q", authed.BaseURL(), base.BaseURL())
		}
	})
}

// TestAPIError tests the APIError type.
func TestAPIError(t *testing.T) {
	t.Run("Error method", func(t *testing.T) {
		err := &APIError{StatusCode: 404, Message: "Not Found"}
		expected := "kalshi api error 404: Not Found"
		if err.Error() != expected {
			t.Errorf("Error() = %q, want %q", err.Error(), expected)
		}
	})

	t.Run("message from error envelope", func(t *testing.T) {
		err := newAPIError(401, []byte(`{"error": {"code": "unauthorized", "message": "invalid credentials"}}`))
		if err.Message != "invalid credentials" {
			t.Errorf("Message = %q, want %q", err.Message, "invalid credentials")
		}
	})

	t.Run("status text without envelope", func(t *testing.T) {
		err := newAPIError(502, []byte(`<html>bad gateway</html>`))
		if err.Message != "Bad Gateway" {
			t.Errorf("Message = %q, want %q", err.Message, "Bad Gateway")
		}
	})

	t.Run("IsRetryable", func(t *testing.T) {
		tests := []struct {
			code     int
			expected bool
		}{
			{500, true},
			{502, true},
			{503, true},
			{429, true},
			{400, false},
			{401, false},
			{404, false},
			{499, false},
		}

		for _, tt := range tests {
			err := &APIError{StatusCode: tt.code}
			if got := err.IsRetryable(); got != tt.expected {
				t.Errorf("IsRetryable() for status %d = %v, want %v", tt.code, got, tt.expected)
			}
		}
	})
}

// TestDoRequest tests the HTTP request functionality.
func TestDoRequest(t *testing.T) {
	t.Run("token authorization", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Accept") != "application/json" {
				t.Errorf("Accept header = %q, want %q", r.Header.Get("Accept"), "application/json")
			}
			if r.Header.Get("Authorization") != "member-1 tok" {
				t.Errorf("Authorization header = %q, want %q", r.Header.Get("Authorization"), "member-1 tok")
			}
			w.Write([]byte(`{"status": "ok"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, WithAuthenticator(&auth.Token{MemberID: "member-1", Token: "tok"}))
		body, err := c.doRequest(context.Background(), http.MethodGet, "/test", nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(body) != `{"status": "ok"}` {
			t.Errorf("body = %q, want %q", string(body), `{"status": "ok"}`)
		}
	})

	t.Run("signs the full path", func(t *testing.T) {
		var signedPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		recorder := authFunc(func(method, path string) (map[string]string, error) {
			signedPath = method + " " + path
			return nil, nil
		})

		c := NewClient(server.URL+"/trade-api/v2", WithAuthenticator(recorder))
		query := url.Values{"limit": []string{"10"}}
		if _, err := c.doRequest(context.Background(), http.MethodGet, "/markets", query, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if signedPath != "GET /trade-api/v2/markets" {
			t.Errorf("signed = %q, want %q", signedPath, "GET /trade-api/v2/markets")
		}
	})

	t.Run("authenticator failure", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
		}))
		defer server.Close()

		failing := authFunc(func(method, path string) (map[string]string, error) {
			return nil, errors.New("no key")
		})
		c := NewClient(server.URL, WithAuthenticator(failing))
		_, err := c.doRequest(context.Background(), http.MethodGet, "/test", nil, nil)
		if err == nil || !strings.Contains(err.Error(), "authorize request") {
			t.Fatalf("error = %v, want authorize request failure", err)
		}
		if hits.Load() != 0 {
			t.Error("request should not be sent when authorization fails")
		}
	})

	t.Run("request without authenticator", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "" {
				t.Errorf("Authorization header should be empty, got %q", r.Header.Get("Authorization"))
			}
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		if _, err := c.doRequest(context.Background(), http.MethodGet, "/test", nil, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("json body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %q, want POST", r.Method)
			}
			if r.Header.Get("Content-Type") != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", r.Header.Get("Content-Type"))
			}
			data, _ := io.ReadAll(r.Body)
			if string(data) != `{"a":1}` {
				t.Errorf("body = %q, want %q", data, `{"a":1}`)
			}
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		if _, err := c.doRequest(context.Background(), http.MethodPost, "/test", nil, []byte(`{"a":1}`)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("4xx error returns APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": {"code": "not_found", "message": "market not found"}}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		_, err := c.doRequest(context.Background(), http.MethodGet, "/test", nil, nil)

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %T", err)
		}
		if apiErr.StatusCode != 404 {
			t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, 404)
		}
		if apiErr.Message != "market not found" {
			t.Errorf("Message = %q, want %q", apiErr.Message, "market not found")
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
		}))
		defer server.Close()

		c := NewClient(server.URL)
		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		_, err := c.doRequest(ctx, http.MethodGet, "/test", nil, nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

// TestDoWithRetry tests the retry logic.
func TestDoWithRetry(t *testing.T) {
	t.Run("retries on 5xx and succeeds", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := atomic.AddInt32(&attempts, 1)
			if n < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{"ok": true}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(3, 10*time.Millisecond))
		body, err := c.doWithRetry(context.Background(), http.MethodGet, "/test", nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(body) != `{"ok": true}` {
			t.Errorf("body = %q, want %q", string(body), `{"ok": true}`)
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("retries on 429 and succeeds", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&attempts, 1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(3, 10*time.Millisecond))
		if _, err := c.doWithRetry(context.Background(), http.MethodGet, "/test", nil, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if attempts != 2 {
			t.Errorf("attempts = %d, want 2", attempts)
		}
	})

	t.Run("does not retry on 4xx (except 429)", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(3, 10*time.Millisecond))
		if _, err := c.doWithRetry(context.Background(), http.MethodGet, "/test", nil, nil); err == nil {
			t.Fatal("expected error, got nil")
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})

	t.Run("max retries exceeded", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(2, 10*time.Millisecond))
		_, err := c.doWithRetry(context.Background(), http.MethodGet, "/test", nil, nil)
		if err == nil || !strings.Contains(err.Error(), "max retries exceeded") {
			t.Errorf("error should contain 'max retries exceeded', got %v", err)
		}
		// 1 initial + 2 retries = 3 attempts
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("zero backoff", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(1, 0))
		if _, err := c.doWithRetry(context.Background(), http.MethodGet, "/test", nil, nil); err == nil {
			t.Fatal("expected error, got nil")
		}
		if attempts != 2 {
			t.Errorf("attempts = %d, want 2", attempts)
		}
	})

	t.Run("context cancellation during retry", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(5, 50*time.Millisecond))
		ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
		defer cancel()

		_, err := c.doWithRetry(ctx, http.MethodGet, "/test", nil, nil)
		if err == nil || !strings.Contains(err.Error(), "context") {
			t.Errorf("error should be context-related, got %v", err)
		}
	})
}

// TestGetExchangeStatus tests the GetExchangeStatus method.
func TestGetExchangeStatus(t *testing.T) {
	t.Run("successful response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/exchange/status" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/exchange/status")
			}
			json.NewEncoder(w).Encode(ExchangeStatusResponse{
				ExchangeActive: true,
				TradingActive:  true,
			})
		}))
		defer server.Close()

		c := NewClient(server.URL)
		status, err := c.GetExchangeStatus(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !status.ExchangeActive || !status.TradingActive {
			t.Errorf("status = %+v, want active", status)
		}
	})

	t.Run("error response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		c := NewClient(server.URL, WithRetries(0, time.Millisecond))
		if _, err := c.GetExchangeStatus(context.Background()); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

// TestGetMarkets tests the GetMarkets method.
func TestGetMarkets(t *testing.T) {
	t.Run("close window and series", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("series_ticker") != "INX" {
				t.Errorf("series_ticker = %q, want %q", q.Get("series_ticker"), "INX")
			}
			if q.Get("min_close_ts") != "1705276800" {
				t.Errorf("min_close_ts = %q, want %q", q.Get("min_close_ts"), "1705276800")
			}
			if q.Get("max_close_ts") != "1705363199" {
				t.Errorf("max_close_ts = %q, want %q", q.Get("max_close_ts"), "1705363199")
			}
			w.Write([]byte(`{"markets": [{"ticker": "MKT1", "floor_strike": 4800, "cap_strike": 4824.99}, null], "cursor": ""}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		resp, err := c.GetMarkets(context.Background(), GetMarketsOptions{
			SeriesTicker: "INX",
			MinCloseTS:   1705276800,
			MaxCloseTS:   1705363199,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Markets) != 2 {
			t.Fatalf("len(Markets) = %d, want 2", len(resp.Markets))
		}
		if resp.Markets[0].Ticker != "MKT1" {
			t.Errorf("Markets[0].Ticker = %q, want %q", resp.Markets[0].Ticker, "MKT1")
		}
		if resp.Markets[0].CapStrike == nil || *resp.Markets[0].CapStrike != 4824.99 {
			t.Errorf("Markets[0].CapStrike = %v, want 4824.99", resp.Markets[0].CapStrike)
		}
		if resp.Markets[1] != nil {
			t.Errorf("Markets[1] = %+v, want nil for a null entry", resp.Markets[1])
		}
	})

	t.Run("unset filters are omitted", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.RawQuery != "" {
				t.Errorf("query = %q, want empty", r.URL.RawQuery)
			}
			w.Write([]byte(`{"markets": []}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		if _, err := c.GetMarkets(context.Background(), GetMarketsOptions{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestGetAllMarketsWithOptions(t *testing.T) {
	var pages atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages.Add(1)
		if r.URL.Query().Get("limit") != "1000" {
			t.Errorf("limit = %q, want 1000", r.URL.Query().Get("limit"))
		}
		switch r.URL.Query().Get("cursor") {
		case "":
			w.Write([]byte(`{"markets": [{"ticker": "A"}, {"ticker": "B"}], "cursor": "page2"}`))
		case "page2":
			w.Write([]byte(`{"markets": [{"ticker": "C"}], "cursor": ""}`))
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
	}))
	defer server.Close()

	c := NewClient(server.URL)
	markets, err := c.GetAllMarketsWithOptions(context.Background(), GetMarketsOptions{SeriesTicker: "INX"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var tickers []string
	for _, m := range markets {
		tickers = append(tickers, m.Ticker)
	}
	if strings.Join(tickers, ",") != "A,B,C" {
		t.Errorf("tickers = %v, want [A B C]", tickers)
	}
	if pages.Load() != 2 {
		t.Errorf("pages = %d, want 2", pages.Load())
	}
}

func TestGetOrderbook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/markets/INX-24JAN15-B4812/orderbook" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("depth") != "5" {
			t.Errorf("depth = %q, want 5", r.URL.Query().Get("depth"))
		}
		w.Write([]byte(`{"orderbook": {"yes": [[12, 100], [11, 5]], "no": null, "yes_dollars": [["0.1200", 100]]}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	resp, err := c.GetOrderbook(context.Background(), "INX-24JAN15-B4812", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Orderbook.Yes) != 2 {
		t.Errorf("len(Yes) = %d, want 2", len(resp.Orderbook.Yes))
	}
	if resp.Orderbook.No != nil {
		t.Errorf("No = %v, want nil", resp.Orderbook.No)
	}
}

func TestLoginLogout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			var req LoginRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode login body: %v", err)
			}
			if req.Email != "trader@example.com" || req.Password != "hunter2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(LoginResponse{MemberID: "member-1", Token: "tok"})
		case "/logout":
			if r.Header.Get("Authorization") != "member-1 tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := NewClient(server.URL, WithRetries(0, 0))

	resp, err := c.Login(context.Background(), "trader@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.MemberID != "member-1" || resp.Token != "tok" {
		t.Errorf("login = %+v", resp)
	}

	authed := c.Authenticated(&auth.Token{MemberID: resp.MemberID, Token: resp.Token})
	if err := authed.Logout(context.Background()); err != nil {
		t.Errorf("Logout failed: %v", err)
	}

	_, err = c.Login(context.Background(), "trader@example.com", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad password error = %v, want 401 APIError", err)
	}
}

func TestGetSeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/series/INX" {
			t.Errorf("path = %q, want /series/INX", r.URL.Path)
		}
		w.Write([]byte(`{"series": {"ticker": "INX", "title": "S&P 500 daily range", "frequency": "daily"}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	series, err := c.GetSeries(context.Background(), "INX")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Title != "S&P 500 daily range" {
		t.Errorf("Title = %q", series.Title)
	}
}

// authFunc adapts a function to auth.Authenticator.
type authFunc func(method, path string) (map[string]string, error)

func (f authFunc) Headers(method, path string) (map[string]string, error) {
	return f(method, path)
}
