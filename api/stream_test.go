package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mfine/stockfighter/stream"
)

func TestStreams_RequireAccount(t *testing.T) {
	c := New("test-key")
	ctx := context.Background()

	if _, err := c.Tickertape(ctx, StreamOpts{Venue: "TESTEX"}); !errors.Is(err, ErrMissingAccount) {
		t.Errorf("Tickertape error = %v, want ErrMissingAccount", err)
	}
	if _, err := c.Executions(ctx, StreamOpts{Venue: "TESTEX"}); !errors.Is(err, ErrMissingAccount) {
		t.Errorf("Executions error = %v, want ErrMissingAccount", err)
	}
}

func TestStreams_ChannelURL(t *testing.T) {
	// No server: the handle dials asynchronously and the dial failure goes to
	// OnError, so Open succeeds and the URL is inspectable.
	c := New("test-key",
		WithWSURL("ws://127.0.0.1:1/ws"),
		WithAccount("EXB123456"),
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t.Run("tickertape session account", func(t *testing.T) {
		h, err := c.Tickertape(ctx, StreamOpts{Venue: "TESTEX", Stock: "FOOBAR"})
		if err != nil {
			t.Fatalf("Tickertape failed: %v", err)
		}
		defer h.Close()
		want := "ws://127.0.0.1:1/ws/EXB123456/venues/TESTEX/tickertape/stocks/FOOBAR"
		if h.URL() != want {
			t.Errorf("URL = %q, want %q", h.URL(), want)
		}
	})

	t.Run("executions explicit account wins", func(t *testing.T) {
		h, err := c.Executions(ctx, StreamOpts{Account: "OTHER99"})
		if err != nil {
			t.Fatalf("Executions failed: %v", err)
		}
		defer h.Close()
		want := "ws://127.0.0.1:1/ws/OTHER99/executions"
		if h.URL() != want {
			t.Errorf("URL = %q, want %q", h.URL(), want)
		}
	})
}

func TestStreams_ReconnectWaitsApplied(t *testing.T) {
	var dials atomic.Int64
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		dials.Add(1)
		ws.Close()
	}))
	defer server.Close()

	c := New("test-key",
		WithWSURL("ws"+strings.TrimPrefix(server.URL, "http")),
		WithAccount("EXB123456"),
	)

	h, err := c.Tickertape(context.Background(), StreamOpts{
		Venue:             "TESTEX",
		Reconnect:         true,
		ReconnectBaseWait: 10 * time.Millisecond,
		ReconnectMaxWait:  50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Tickertape failed: %v", err)
	}

	// The 1s default wait cannot produce a third dial this fast; only the
	// configured 10ms base wait can.
	deadline := time.After(time.Second)
	for dials.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d dials within a second; reconnect waits not applied", dials.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	h.Close()
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for handle to finish")
	}
}

func TestDecodeQuoteFrame(t *testing.T) {
	raw := `{"ok":true,"quote":{"venue":"TESTEX","symbol":"FOOBAR","bid":5000,"ask":5100,"last":5050,"lastSize":10}}`
	f, err := DecodeQuoteFrame(stream.Message{Data: json.RawMessage(raw), ReceivedAt: time.Now()})
	if err != nil {
		t.Fatalf("DecodeQuoteFrame failed: %v", err)
	}
	if !f.OK {
		t.Error("expected ok frame")
	}
	if f.Quote.Symbol != "FOOBAR" || f.Quote.Bid != 5000 || f.Quote.Last != 5050 {
		t.Errorf("quote = %+v", f.Quote)
	}

	if _, err := DecodeQuoteFrame(stream.Message{Data: json.RawMessage(`42`)}); err == nil {
		t.Error("expected error for non-object frame")
	}
}

func TestDecodeExecutionFrame(t *testing.T) {
	raw := `{
		"ok": true,
		"account": "EXB123456",
		"venue": "TESTEX",
		"symbol": "FOOBAR",
		"order": {"ok":true,"id":42,"direction":"buy","qty":0,"originalQty":10,"totalFilled":10,"open":false,"fills":[{"price":5142,"qty":10,"ts":"2015-12-04T09:02:16.680986205Z"}]},
		"standingId": 42,
		"incomingId": 43,
		"price": 5142,
		"filled": 10,
		"filledAt": "2015-12-04T09:02:16.680986205Z",
		"standingComplete": true,
		"incomingComplete": false
	}`
	f, err := DecodeExecutionFrame(stream.Message{Data: json.RawMessage(raw)})
	if err != nil {
		t.Fatalf("DecodeExecutionFrame failed: %v", err)
	}
	if f.Account != "EXB123456" || f.StandingID != 42 || f.IncomingID != 43 {
		t.Errorf("frame = %+v", f)
	}
	if f.Price != 5142 || f.Filled != 10 || !f.StandingComplete || f.IncomingComplete {
		t.Errorf("fill fields = %+v", f)
	}
	if f.Order.ID != 42 || f.Order.TotalFilled != 10 || len(f.Order.Fills) != 1 {
		t.Errorf("order = %+v", f.Order)
	}
	if f.FilledAt.IsZero() {
		t.Error("filledAt should parse")
	}
}
