package model

import "github.com/google/uuid"

// Quote record sources.
const (
	SourceStream = "stream"
	SourceRest   = "rest"
)

// QuoteRecord is one observed quote, from either the tickertape stream or
// the REST poller.
type QuoteRecord struct {
	ID         uuid.UUID // Locally generated record id
	Venue      string
	Symbol     string
	Bid        int // cents
	Ask        int
	BidSize    int
	AskSize    int
	BidDepth   int
	AskDepth   int
	Last       int
	LastSize   int
	QuoteTime  int64  // Venue quote timestamp (µs since epoch)
	ReceivedAt int64  // Local receive timestamp (µs since epoch)
	Source     string // SourceStream or SourceRest
}

// ExecutionRecord is one fill event from the executions stream.
type ExecutionRecord struct {
	ID               uuid.UUID // Locally generated record id
	Account          string
	Venue            string
	Symbol           string
	OrderID          int
	StandingID       int
	IncomingID       int
	Price            int // cents
	Filled           int
	FilledAt         int64 // Venue fill timestamp (µs since epoch)
	ReceivedAt       int64 // Local receive timestamp (µs since epoch)
	StandingComplete bool
	IncomingComplete bool
}
