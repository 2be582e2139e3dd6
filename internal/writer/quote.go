package writer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mfine/stockfighter/api"
	"github.com/mfine/stockfighter/internal/model"
)

// QuoteWriter persists quote records to the quotes table.
type QuoteWriter struct {
	cfg    Config
	logger *slog.Logger

	input chan model.QuoteRecord
	db    DB

	batch       []model.QuoteRecord
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	metrics Metrics
}

// NewQuoteWriter creates a new QuoteWriter.
func NewQuoteWriter(cfg Config, db DB, logger *slog.Logger) *QuoteWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteWriter{
		cfg:    cfg,
		db:     db,
		logger: logger,
		input:  make(chan model.QuoteRecord, cfg.BufferSize),
		batch:  make([]model.QuoteRecord, 0, cfg.BatchSize),
	}
}

// Enqueue offers a record without blocking; a full buffer drops it.
func (w *QuoteWriter) Enqueue(rec model.QuoteRecord) bool {
	select {
	case w.input <- rec:
		return true
	default:
		w.batchMu.Lock()
		w.metrics.Dropped++
		w.batchMu.Unlock()
		w.logger.Warn("quote buffer full, dropping record", "symbol", rec.Symbol)
		return false
	}
}

// EnqueueQuote transforms a wire quote and enqueues it.
func (w *QuoteWriter) EnqueueQuote(q *api.Quote, receivedAt time.Time, source string) bool {
	return w.Enqueue(TransformQuote(q, receivedAt, source))
}

// TransformQuote converts a wire quote to a row.
func TransformQuote(q *api.Quote, receivedAt time.Time, source string) model.QuoteRecord {
	return model.QuoteRecord{
		ID:         uuid.New(),
		Venue:      q.Venue,
		Symbol:     q.Symbol,
		Bid:        q.Bid,
		Ask:        q.Ask,
		BidSize:    q.BidSize,
		AskSize:    q.AskSize,
		BidDepth:   q.BidDepth,
		AskDepth:   q.AskDepth,
		Last:       q.Last,
		LastSize:   q.LastSize,
		QuoteTime:  q.QuoteTime.UnixMicro(),
		ReceivedAt: receivedAt.UnixMicro(),
		Source:     source,
	}
}

// Start begins consuming records and writing to the database.
func (w *QuoteWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.consumeLoop()

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("quote writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the writer. Records still queued are drained
// into the batch and flushed on the caller's context; the run context is
// already canceled by then.
func (w *QuoteWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping quote writer")

	if w.cancel != nil {
		w.cancel()
	}
	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("quote writer stopped")
	case <-ctx.Done():
		w.logger.Warn("quote writer stop timed out")
	}

	w.drain()
	w.flush(ctx)

	return nil
}

// Stats returns current metrics.
func (w *QuoteWriter) Stats() Metrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

func (w *QuoteWriter) consumeLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case rec := <-w.input:
			w.add(rec)
		}
	}
}

func (w *QuoteWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush(w.ctx)
		}
	}
}

func (w *QuoteWriter) add(rec model.QuoteRecord) {
	w.batchMu.Lock()
	w.batch = append(w.batch, rec)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush(w.ctx)
	}
}

// drain moves records still sitting in the input channel into the batch.
// Only called after the consume loop has exited.
func (w *QuoteWriter) drain() {
	for {
		select {
		case rec := <-w.input:
			w.batchMu.Lock()
			w.batch = append(w.batch, rec)
			w.batchMu.Unlock()
		default:
			return
		}
	}
}

// flush writes the current batch to the database.
func (w *QuoteWriter) flush(ctx context.Context) {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]model.QuoteRecord, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	conflicts, err := w.batchInsert(ctx, batch)
	if err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		return
	}

	w.batchMu.Lock()
	w.metrics.Inserts += int64(len(batch) - conflicts)
	w.metrics.Conflicts += int64(conflicts)
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed quotes",
		"count", len(batch),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

func (w *QuoteWriter) batchInsert(ctx context.Context, rows []model.QuoteRecord) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO quotes (id, venue, symbol, bid, ask, bid_size, ask_size, bid_depth, ask_depth, last, last_size, quote_time, received_at, source)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (venue, symbol, quote_time) DO NOTHING
		`, r.ID, r.Venue, r.Symbol, r.Bid, r.Ask, r.BidSize, r.AskSize, r.BidDepth, r.AskDepth, r.Last, r.LastSize, r.QuoteTime, r.ReceivedAt, r.Source)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
