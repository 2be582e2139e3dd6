package api

import (
	"context"
	"fmt"
	"strconv"
)

// OrderOpts are the caller-facing parameters for Buy and Sell. Price is a
// decimal dollar string ("50.42"); leave it empty for a pure market order.
// Account falls back to the session account when empty.
type OrderOpts struct {
	Account string
	Venue   string
	Stock   string
	Price   string
	Qty     int
	Type    string
}

// Buy places a buy order.
func (c *Client) Buy(ctx context.Context, opts OrderOpts) (*Order, error) {
	return c.placeDirected(ctx, opts, DirectionBuy)
}

// Sell places a sell order.
func (c *Client) Sell(ctx context.Context, opts OrderOpts) (*Order, error) {
	return c.placeDirected(ctx, opts, DirectionSell)
}

func (c *Client) placeDirected(ctx context.Context, opts OrderOpts, direction string) (*Order, error) {
	account, err := c.resolveAccount(opts.Account)
	if err != nil {
		return nil, err
	}

	req := OrderRequest{
		Account:   account,
		Venue:     opts.Venue,
		Stock:     opts.Stock,
		Direction: direction,
		OrderType: opts.Type,
		Qty:       opts.Qty,
	}

	if opts.Price != "" {
		cents, err := ToCents(opts.Price)
		if err != nil {
			return nil, err
		}
		req.Price = cents
	}

	return c.PlaceOrder(ctx, req)
}

// PlaceOrder posts a fully-specified order. An empty Account resolves
// through the session; Price is passed through verbatim.
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if req.Account == "" {
		account, err := c.resolveAccount("")
		if err != nil {
			return nil, err
		}
		req.Account = account
	}

	var resp Order
	path := "venues/" + req.Venue + "/stocks/" + req.Stock + "/orders"
	if err := c.post(ctx, path, req, &resp); err != nil {
		return nil, fmt.Errorf("place order %s/%s: %w", req.Venue, req.Stock, err)
	}
	return &resp, nil
}

// OrderStatus fetches the current state of an order.
func (c *Client) OrderStatus(ctx context.Context, venue, stock string, id int) (*Order, error) {
	var resp Order
	path := "venues/" + venue + "/stocks/" + stock + "/orders/" + strconv.Itoa(id)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("order status %d: %w", id, err)
	}
	return &resp, nil
}

// CancelOrder cancels an order. The response reflects the order's final
// state, including any fills that landed before cancellation.
func (c *Client) CancelOrder(ctx context.Context, venue, stock string, id int) (*Order, error) {
	var resp Order
	path := "venues/" + venue + "/stocks/" + stock + "/orders/" + strconv.Itoa(id)
	if err := c.del(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("cancel order %d: %w", id, err)
	}
	return &resp, nil
}

// Orders lists an account's orders on a venue, scoped to one stock when
// stock is non-empty. An empty account resolves through the session.
func (c *Client) Orders(ctx context.Context, venue, account, stock string) (*OrderList, error) {
	account, err := c.resolveAccount(account)
	if err != nil {
		return nil, err
	}

	path := "venues/" + venue + "/accounts/" + account + "/orders"
	if stock != "" {
		path = "venues/" + venue + "/accounts/" + account + "/stocks/" + stock + "/orders"
	}

	var resp OrderList
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("list orders %s/%s: %w", venue, account, err)
	}
	return &resp, nil
}
