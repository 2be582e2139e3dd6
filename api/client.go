package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Default endpoints for the hosted venues.
const (
	DefaultBaseURL = "https://api.stockfighter.io/ob/api"
	DefaultGameURL = "https://www.stockfighter.io/gm"
	DefaultWSURL   = "wss://api.stockfighter.io/ob/api/ws"
)

// Client provides access to the Stockfighter order-book and Game Master APIs.
// It also carries the session account used by order placement and streaming
// when no account is supplied per call; game-lifecycle responses update it.
type Client struct {
	baseURL    string
	gameURL    string
	wsURL      string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger

	mu      sync.RWMutex
	account string
}

// Option configures a Client.
type Option func(*Client)

// New creates a client for the given API key.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		gameURL: DefaultGameURL,
		wsURL:   DefaultWSURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithBaseURL sets the order-book API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithGameURL sets the Game Master base URL.
func WithGameURL(u string) Option {
	return func(c *Client) {
		c.gameURL = u
	}
}

// WithWSURL sets the streaming base URL.
func WithWSURL(u string) Option {
	return func(c *Client) {
		c.wsURL = u
	}
}

// WithAccount sets the initial session account.
func WithAccount(account string) Option {
	return func(c *Client) {
		c.account = account
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}
