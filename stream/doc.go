// Package stream implements the persistent market-data and execution feeds.
//
// A Handle owns one logical subscription. The underlying websocket
// connection may be torn down and re-dialed across reconnect cycles, but the
// handle identity the caller holds is stable. All handlers for a handle run
// sequentially on the handle's goroutine: a handler always finishes before
// the next event for that channel is dispatched.
//
// Channel URLs take the form
//
//	{base}/{account}[/venues/{venue}]/{tickertape|executions}[/stocks/{stock}]
package stream
