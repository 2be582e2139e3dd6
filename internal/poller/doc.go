// Package poller periodically fetches quotes over REST as a gap-filler for
// tickertape stream outages.
package poller
