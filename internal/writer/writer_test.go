package writer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mfine/stockfighter/api"
	"github.com/mfine/stockfighter/internal/model"
)

// fakeDB records every batch it receives and the liveness of the context it
// was sent on.
type fakeDB struct {
	mu      sync.Mutex
	rows    int
	ctxErrs []error
}

func (f *fakeDB) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows += b.Len()
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	return fakeResults{}
}

type fakeResults struct{}

func (fakeResults) Exec() (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}
func (fakeResults) Query() (pgx.Rows, error) { return nil, errors.New("not implemented") }
func (fakeResults) QueryRow() pgx.Row        { return nil }
func (fakeResults) Close() error             { return nil }

func TestTransformQuote(t *testing.T) {
	quoteTime := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	receivedAt := quoteTime.Add(50 * time.Millisecond)

	q := &api.Quote{
		Venue:    "TESTEX",
		Symbol:   "FOOBAR",
		Bid:      5000,
		Ask:      5100,
		BidSize:  10,
		AskSize:  20,
		BidDepth: 100,
		AskDepth: 200,
		Last:     5050,
		LastSize: 5,
	}
	q.QuoteTime = quoteTime

	rec := TransformQuote(q, receivedAt, model.SourceStream)

	if rec.ID == uuid.Nil {
		t.Error("record id should be generated")
	}
	if rec.Venue != "TESTEX" || rec.Symbol != "FOOBAR" {
		t.Errorf("record = %+v", rec)
	}
	if rec.Bid != 5000 || rec.Ask != 5100 || rec.Last != 5050 {
		t.Errorf("prices = bid %d ask %d last %d", rec.Bid, rec.Ask, rec.Last)
	}
	if rec.QuoteTime != quoteTime.UnixMicro() {
		t.Errorf("quote time = %d, want %d", rec.QuoteTime, quoteTime.UnixMicro())
	}
	if rec.ReceivedAt != receivedAt.UnixMicro() {
		t.Errorf("received at = %d, want %d", rec.ReceivedAt, receivedAt.UnixMicro())
	}
	if rec.Source != model.SourceStream {
		t.Errorf("source = %q", rec.Source)
	}

	// Two transforms of the same quote get distinct ids.
	if other := TransformQuote(q, receivedAt, model.SourceStream); other.ID == rec.ID {
		t.Error("record ids should be unique")
	}
}

func TestTransformExecution(t *testing.T) {
	filledAt := time.Date(2026, 8, 31, 10, 0, 1, 0, time.UTC)
	receivedAt := filledAt.Add(20 * time.Millisecond)

	f := &api.ExecutionFrame{
		Account:          "EXB123456",
		Venue:            "TESTEX",
		Symbol:           "FOOBAR",
		StandingID:       42,
		IncomingID:       43,
		Price:            5142,
		Filled:           10,
		FilledAt:         filledAt,
		StandingComplete: true,
	}
	f.Order.ID = 42

	rec := TransformExecution(f, receivedAt)

	if rec.Account != "EXB123456" || rec.OrderID != 42 {
		t.Errorf("record = %+v", rec)
	}
	if rec.StandingID != 42 || rec.IncomingID != 43 || rec.Price != 5142 || rec.Filled != 10 {
		t.Errorf("fill fields = %+v", rec)
	}
	if rec.FilledAt != filledAt.UnixMicro() || rec.ReceivedAt != receivedAt.UnixMicro() {
		t.Errorf("timestamps = %d / %d", rec.FilledAt, rec.ReceivedAt)
	}
	if !rec.StandingComplete || rec.IncomingComplete {
		t.Errorf("completion flags = %+v", rec)
	}
}

func TestQuoteWriter_EnqueueDropsWhenFull(t *testing.T) {
	// Writer never started: nothing drains the input channel.
	w := NewQuoteWriter(Config{BatchSize: 10, FlushInterval: time.Second, BufferSize: 2}, nil, nil)

	rec := model.QuoteRecord{Venue: "TESTEX", Symbol: "FOOBAR"}
	if !w.Enqueue(rec) || !w.Enqueue(rec) {
		t.Fatal("first two records should fit the buffer")
	}
	if w.Enqueue(rec) {
		t.Error("third record should be dropped")
	}

	if got := w.Stats().Dropped; got != 1 {
		t.Errorf("dropped = %d, want 1", got)
	}
}

func TestExecutionWriter_EnqueueDropsWhenFull(t *testing.T) {
	w := NewExecutionWriter(Config{BatchSize: 10, FlushInterval: time.Second, BufferSize: 1}, nil, nil)

	rec := model.ExecutionRecord{Venue: "TESTEX", Symbol: "FOOBAR"}
	if !w.Enqueue(rec) {
		t.Fatal("first record should fit the buffer")
	}
	if w.Enqueue(rec) {
		t.Error("second record should be dropped")
	}
	if got := w.Stats().Dropped; got != 1 {
		t.Errorf("dropped = %d, want 1", got)
	}
}

func TestQuoteWriter_StopFlushesPendingRecords(t *testing.T) {
	db := &fakeDB{}
	w := NewQuoteWriter(Config{BatchSize: 100, FlushInterval: time.Hour, BufferSize: 10}, db, nil)

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if !w.Enqueue(model.QuoteRecord{Venue: "TESTEX", Symbol: "FOOBAR"}) {
			t.Fatal("enqueue failed")
		}
	}

	// Run context dies first, as it does on a shutdown signal; Stop must
	// still land every queued record.
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err := w.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	if db.rows != 3 {
		t.Errorf("flushed %d rows, want 3", db.rows)
	}
	for _, e := range db.ctxErrs {
		if e != nil {
			t.Errorf("final flush used a dead context: %v", e)
		}
	}
	if got := w.Stats().Inserts; got != 3 {
		t.Errorf("inserts = %d, want 3", got)
	}
}

func TestExecutionWriter_StopFlushesPendingRecords(t *testing.T) {
	db := &fakeDB{}
	w := NewExecutionWriter(Config{BatchSize: 100, FlushInterval: time.Hour, BufferSize: 10}, db, nil)

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if !w.Enqueue(model.ExecutionRecord{Venue: "TESTEX", Symbol: "FOOBAR"}) {
			t.Fatal("enqueue failed")
		}
	}
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err := w.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	if db.rows != 2 {
		t.Errorf("flushed %d rows, want 2", db.rows)
	}
	for _, e := range db.ctxErrs {
		if e != nil {
			t.Errorf("final flush used a dead context: %v", e)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.BatchSize != 500 || cfg.FlushInterval != time.Second || cfg.BufferSize != 10000 {
		t.Errorf("defaults = %+v", cfg)
	}
}
