package api

import (
	"errors"
	"time"
)

// Precondition errors, surfaced before any request is made.
var (
	// ErrMissingAccount means an operation needs an account and none was
	// supplied in the call or configured on the session.
	ErrMissingAccount = errors.New("no account configured or supplied")

	// ErrInvalidPrice means a price string contained no parseable digits.
	ErrInvalidPrice = errors.New("invalid price format")
)

// Order directions.
const (
	DirectionBuy  = "buy"
	DirectionSell = "sell"
)

// Order types accepted by the venue.
const (
	OrderLimit             = "limit"
	OrderMarket            = "market"
	OrderFillOrKill        = "fill-or-kill"
	OrderImmediateOrCancel = "immediate-or-cancel"
)

// Response is the envelope every venue body carries.
type Response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Err turns an ok:false body into an error. No client method calls this
// internally; application failure is returned as data and escalation is the
// caller's choice.
func (r Response) Err() error {
	if r.OK {
		return nil
	}
	if r.Error == "" {
		return errors.New("venue reported failure")
	}
	return errors.New(r.Error)
}

// Heartbeat is the response to GET /heartbeat.
type Heartbeat struct {
	Response
}

// VenueHeartbeat is the response to GET /venues/{venue}/heartbeat.
type VenueHeartbeat struct {
	Response
	Venue string `json:"venue"`
}

// VenueList is the response to GET /venues.
type VenueList struct {
	Response
	Venues []Venue `json:"venues"`
}

// Venue describes one exchange.
type Venue struct {
	Name  string `json:"name"`
	Venue string `json:"venue"`
	State string `json:"state"`
}

// StockList is the response to GET /venues/{venue}/stocks.
type StockList struct {
	Response
	Symbols []Stock `json:"symbols"`
}

// Stock describes one tradable symbol.
type Stock struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Orderbook is the response to GET /venues/{venue}/stocks/{stock}.
type Orderbook struct {
	Response
	Venue  string      `json:"venue"`
	Symbol string      `json:"symbol"`
	Bids   []BookEntry `json:"bids"`
	Asks   []BookEntry `json:"asks"`
	TS     time.Time   `json:"ts"`
}

// BookEntry is one resting price level.
type BookEntry struct {
	Price int  `json:"price"` // cents
	Qty   int  `json:"qty"`
	IsBuy bool `json:"isBuy"`
}

// Quote is the response to GET /venues/{venue}/stocks/{stock}/quote, and the
// payload of tickertape frames.
type Quote struct {
	Response
	Venue     string    `json:"venue"`
	Symbol    string    `json:"symbol"`
	Bid       int       `json:"bid"` // cents
	Ask       int       `json:"ask"`
	BidSize   int       `json:"bidSize"`
	AskSize   int       `json:"askSize"`
	BidDepth  int       `json:"bidDepth"`
	AskDepth  int       `json:"askDepth"`
	Last      int       `json:"last"`
	LastSize  int       `json:"lastSize"`
	LastTrade time.Time `json:"lastTrade"`
	QuoteTime time.Time `json:"quoteTime"`
}

// OrderRequest is the typed body for order placement. Venue and Stock select
// the path and never appear on the wire. Price is cents and is omitted when
// zero, matching the market-order convention.
type OrderRequest struct {
	Account   string `json:"account"`
	Venue     string `json:"-"`
	Stock     string `json:"-"`
	Direction string `json:"direction"`
	OrderType string `json:"orderType"`
	Qty       int    `json:"qty"`
	Price     int    `json:"price,omitempty"`
}

// Order is the venue's view of one order: the response to placement, status,
// and cancellation.
type Order struct {
	Response
	Venue       string    `json:"venue"`
	Symbol      string    `json:"symbol"`
	Direction   string    `json:"direction"`
	OriginalQty int       `json:"originalQty"`
	Qty         int       `json:"qty"` // still open
	Price       int       `json:"price"`
	OrderType   string    `json:"orderType"`
	ID          int       `json:"id"`
	Account     string    `json:"account"`
	TS          time.Time `json:"ts"`
	Fills       []Fill    `json:"fills"`
	TotalFilled int       `json:"totalFilled"`
	Open        bool      `json:"open"`
}

// Fill is one matched portion of an order.
type Fill struct {
	Price int       `json:"price"`
	Qty   int       `json:"qty"`
	TS    time.Time `json:"ts"`
}

// OrderList is the response to the account-scoped order listings.
type OrderList struct {
	Response
	Venue  string  `json:"venue"`
	Orders []Order `json:"orders"`
}

// Level is the Game Master's response to starting, restarting, stopping or
// resuming a level instance.
type Level struct {
	Response
	InstanceID           int               `json:"instanceId"`
	Account              string            `json:"account"`
	Tickers              []string          `json:"tickers"`
	Venues               []string          `json:"venues"`
	SecondsPerTradingDay int               `json:"secondsPerTradingDay"`
	Balances             map[string]int    `json:"balances,omitempty"`
	Instructions         map[string]string `json:"instructions,omitempty"`
}

// LevelState is the response to GET /instances/{id}.
type LevelState struct {
	Response
	ID      int               `json:"id"`
	Done    bool              `json:"done"`
	State   string            `json:"state"`
	Details LevelDetails      `json:"details"`
	Flash   map[string]string `json:"flash,omitempty"`
}

// LevelDetails reports level progress.
type LevelDetails struct {
	EndOfTheWorldDay int `json:"endOfTheWorldDay"`
	TradingDay       int `json:"tradingDay"`
}
