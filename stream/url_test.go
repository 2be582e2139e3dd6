package stream

import "testing"

func TestChannelURL(t *testing.T) {
	const base = "wss://api.stockfighter.io/ob/api/ws"

	tests := []struct {
		name    string
		account string
		venue   string
		feed    Feed
		stock   string
		want    string
	}{
		{
			name:    "tickertape all venues",
			account: "EXB123456",
			feed:    FeedTickertape,
			want:    base + "/EXB123456/tickertape",
		},
		{
			name:    "tickertape one venue",
			account: "EXB123456",
			venue:   "TESTEX",
			feed:    FeedTickertape,
			want:    base + "/EXB123456/venues/TESTEX/tickertape",
		},
		{
			name:    "tickertape one stock",
			account: "EXB123456",
			venue:   "TESTEX",
			feed:    FeedTickertape,
			stock:   "FOOBAR",
			want:    base + "/EXB123456/venues/TESTEX/tickertape/stocks/FOOBAR",
		},
		{
			name:    "executions all venues",
			account: "EXB123456",
			feed:    FeedExecutions,
			want:    base + "/EXB123456/executions",
		},
		{
			name:    "executions one stock",
			account: "EXB123456",
			venue:   "TESTEX",
			feed:    FeedExecutions,
			stock:   "FOOBAR",
			want:    base + "/EXB123456/venues/TESTEX/executions/stocks/FOOBAR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChannelURL(base, tt.account, tt.venue, tt.feed, tt.stock)
			if got != tt.want {
				t.Errorf("ChannelURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChannelURL_TrailingSlash(t *testing.T) {
	got := ChannelURL("ws://host/ws/", "ACC", "", FeedTickertape, "")
	if got != "ws://host/ws/ACC/tickertape" {
		t.Errorf("ChannelURL = %q", got)
	}
}
