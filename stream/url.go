package stream

import "strings"

// ChannelURL builds the socket URL for a subscription. Segments are
// interpolated verbatim; callers supply URL-safe identifiers.
func ChannelURL(base, account, venue string, feed Feed, stock string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(base, "/"))
	b.WriteByte('/')
	b.WriteString(account)
	if venue != "" {
		b.WriteString("/venues/")
		b.WriteString(venue)
	}
	b.WriteByte('/')
	b.WriteString(string(feed))
	if stock != "" {
		b.WriteString("/stocks/")
		b.WriteString(stock)
	}
	return b.String()
}
