// Package model defines the rows the recorder persists.
//
// Conventions:
//   - Timestamps: int64 microseconds since epoch (venue clock vs local clock
//     kept separate)
//   - Prices: integer cents, matching the wire format
//   - IDs: uuid.UUID generated locally at record time
package model
