package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mfine/stockfighter/stream"
)

// StreamOpts parameterize a tickertape or executions channel. Account falls
// back to the session account; Venue and Stock narrow the subscription.
// The timing fields default to the stream package's values when zero.
type StreamOpts struct {
	Account   string
	Venue     string
	Stock     string
	Reconnect bool

	DialTimeout       time.Duration
	ReconnectBaseWait time.Duration
	ReconnectMaxWait  time.Duration

	OnOpen    func()
	OnMessage func(stream.Message)
	OnClose   func(stream.CloseInfo)
	OnError   func(error)
}

// Tickertape opens the quote stream.
func (c *Client) Tickertape(ctx context.Context, opts StreamOpts) (*stream.Handle, error) {
	return c.openStream(ctx, opts, stream.FeedTickertape)
}

// Executions opens the fill stream.
func (c *Client) Executions(ctx context.Context, opts StreamOpts) (*stream.Handle, error) {
	return c.openStream(ctx, opts, stream.FeedExecutions)
}

func (c *Client) openStream(ctx context.Context, opts StreamOpts, feed stream.Feed) (*stream.Handle, error) {
	account, err := c.resolveAccount(opts.Account)
	if err != nil {
		return nil, err
	}

	return stream.Open(ctx, stream.Config{
		URL:               c.wsURL,
		Account:           account,
		Venue:             opts.Venue,
		Stock:             opts.Stock,
		Feed:              feed,
		Reconnect:         opts.Reconnect,
		DialTimeout:       opts.DialTimeout,
		ReconnectBaseWait: opts.ReconnectBaseWait,
		ReconnectMaxWait:  opts.ReconnectMaxWait,
		OnOpen:            opts.OnOpen,
		OnMessage:         opts.OnMessage,
		OnClose:           opts.OnClose,
		OnError:           opts.OnError,
		Logger:            c.logger,
	})
}

// QuoteFrame is one tickertape frame.
type QuoteFrame struct {
	OK    bool  `json:"ok"`
	Quote Quote `json:"quote"`
}

// DecodeQuoteFrame decodes a tickertape message.
func DecodeQuoteFrame(m stream.Message) (*QuoteFrame, error) {
	var f QuoteFrame
	if err := json.Unmarshal(m.Data, &f); err != nil {
		return nil, fmt.Errorf("decode quote frame: %w", err)
	}
	return &f, nil
}

// ExecutionFrame is one executions frame: a fill against one of the
// account's orders.
type ExecutionFrame struct {
	OK               bool      `json:"ok"`
	Account          string    `json:"account"`
	Venue            string    `json:"venue"`
	Symbol           string    `json:"symbol"`
	Order            Order     `json:"order"`
	StandingID       int       `json:"standingId"`
	IncomingID       int       `json:"incomingId"`
	Price            int       `json:"price"`
	Filled           int       `json:"filled"`
	FilledAt         time.Time `json:"filledAt"`
	StandingComplete bool      `json:"standingComplete"`
	IncomingComplete bool      `json:"incomingComplete"`
}

// DecodeExecutionFrame decodes an executions message.
func DecodeExecutionFrame(m stream.Message) (*ExecutionFrame, error) {
	var f ExecutionFrame
	if err := json.Unmarshal(m.Data, &f); err != nil {
		return nil, fmt.Errorf("decode execution frame: %w", err)
	}
	return &f, nil
}
