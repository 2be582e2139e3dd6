package api

import (
	"context"
	"fmt"
)

// Heartbeat checks whether the API is up.
func (c *Client) Heartbeat(ctx context.Context) (*Heartbeat, error) {
	var resp Heartbeat
	if err := c.get(ctx, "heartbeat", &resp); err != nil {
		return nil, fmt.Errorf("heartbeat: %w", err)
	}
	return &resp, nil
}

// VenueHeartbeat checks whether a venue is up.
func (c *Client) VenueHeartbeat(ctx context.Context, venue string) (*VenueHeartbeat, error) {
	var resp VenueHeartbeat
	if err := c.get(ctx, "venues/"+venue+"/heartbeat", &resp); err != nil {
		return nil, fmt.Errorf("venue heartbeat %s: %w", venue, err)
	}
	return &resp, nil
}

// Venues lists all venues.
func (c *Client) Venues(ctx context.Context) (*VenueList, error) {
	var resp VenueList
	if err := c.get(ctx, "venues", &resp); err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return &resp, nil
}

// Stocks lists the symbols trading on a venue.
func (c *Client) Stocks(ctx context.Context, venue string) (*StockList, error) {
	var resp StockList
	if err := c.get(ctx, "venues/"+venue+"/stocks", &resp); err != nil {
		return nil, fmt.Errorf("list stocks %s: %w", venue, err)
	}
	return &resp, nil
}

// OrderbookFor fetches the current resting orders for a stock.
func (c *Client) OrderbookFor(ctx context.Context, venue, stock string) (*Orderbook, error) {
	var resp Orderbook
	if err := c.get(ctx, "venues/"+venue+"/stocks/"+stock, &resp); err != nil {
		return nil, fmt.Errorf("orderbook %s/%s: %w", venue, stock, err)
	}
	return &resp, nil
}

// QuoteFor fetches the most recent quote for a stock.
func (c *Client) QuoteFor(ctx context.Context, venue, stock string) (*Quote, error) {
	var resp Quote
	if err := c.get(ctx, "venues/"+venue+"/stocks/"+stock+"/quote", &resp); err != nil {
		return nil, fmt.Errorf("quote %s/%s: %w", venue, stock, err)
	}
	return &resp, nil
}
