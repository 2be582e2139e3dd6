package stream

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// Errors
var (
	ErrMissingAccount = errors.New("stream: account is required")
	ErrMissingURL     = errors.New("stream: base URL is required")
	ErrUnknownFeed    = errors.New("stream: unknown feed kind")
	ErrBadFrame       = errors.New("stream: undecodable frame")
)

// Feed selects the streaming category.
type Feed string

const (
	// FeedTickertape streams quotes as trades print.
	FeedTickertape Feed = "tickertape"

	// FeedExecutions streams the account's fills.
	FeedExecutions Feed = "executions"
)

// Message is one decoded inbound frame.
type Message struct {
	Data       json.RawMessage // validated JSON frame
	ReceivedAt time.Time       // local timestamp when the frame was read
}

// CloseInfo describes one underlying connection termination. Code and Text
// come from the close frame when the peer sent one; Err carries the terminal
// read error otherwise.
type CloseInfo struct {
	Code int
	Text string
	Err  error
}

// Config parameterizes one subscription.
type Config struct {
	URL     string // base, e.g. wss://api.stockfighter.io/ob/api/ws
	Account string
	Venue   string // optional
	Stock   string // optional
	Feed    Feed

	// Reconnect re-dials with the same subscription parameters after each
	// disconnect until the handle is closed.
	Reconnect bool

	// Handlers. OnOpen fires once per established connection (so once per
	// reconnect cycle), OnClose once per termination. Parse failures go to
	// OnError and never reach OnMessage.
	OnOpen    func()
	OnMessage func(Message)
	OnClose   func(CloseInfo)
	OnError   func(error)

	DialTimeout       time.Duration
	PingInterval      time.Duration
	PingTimeout       time.Duration
	WriteTimeout      time.Duration
	ReconnectBaseWait time.Duration
	ReconnectMaxWait  time.Duration

	Logger *slog.Logger
}

func (c *Config) applyDefaults() {
	if c.DialTimeout == 0 {
		c.DialTimeout = 10 * time.Second
	}
	if c.PingInterval == 0 {
		c.PingInterval = 15 * time.Second
	}
	if c.PingTimeout == 0 {
		c.PingTimeout = 60 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 5 * time.Second
	}
	if c.ReconnectBaseWait == 0 {
		c.ReconnectBaseWait = time.Second
	}
	if c.ReconnectMaxWait == 0 {
		c.ReconnectMaxWait = 60 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

func (c *Config) validate() error {
	if c.URL == "" {
		return ErrMissingURL
	}
	if c.Account == "" {
		return ErrMissingAccount
	}
	switch c.Feed {
	case FeedTickertape, FeedExecutions:
	default:
		return ErrUnknownFeed
	}
	return nil
}
