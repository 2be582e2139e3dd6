// Package api provides the Stockfighter client for the order-book API and
// the Game Master control plane.
//
// REST endpoints:
//   - Order-book API: https://api.stockfighter.io/ob/api
//   - Game Master:    https://www.stockfighter.io/gm
//
// Streaming endpoint:
//   - wss://api.stockfighter.io/ob/api/ws (see the stream package)
//
// Every request carries the key in the X-Starfighter-Authorization header.
// Bodies that decode cleanly are returned to the caller even when they carry
// ok:false; only transport faults and undecodable bodies surface as errors.
package api
