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

// ExecutionWriter persists fill events to the executions table.
type ExecutionWriter struct {
	cfg    Config
	logger *slog.Logger

	input chan model.ExecutionRecord
	db    DB

	batch       []model.ExecutionRecord
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	metrics Metrics
}

// NewExecutionWriter creates a new ExecutionWriter.
func NewExecutionWriter(cfg Config, db DB, logger *slog.Logger) *ExecutionWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecutionWriter{
		cfg:    cfg,
		db:     db,
		logger: logger,
		input:  make(chan model.ExecutionRecord, cfg.BufferSize),
		batch:  make([]model.ExecutionRecord, 0, cfg.BatchSize),
	}
}

// Enqueue offers a record without blocking; a full buffer drops it.
func (w *ExecutionWriter) Enqueue(rec model.ExecutionRecord) bool {
	select {
	case w.input <- rec:
		return true
	default:
		w.batchMu.Lock()
		w.metrics.Dropped++
		w.batchMu.Unlock()
		w.logger.Warn("execution buffer full, dropping record", "symbol", rec.Symbol)
		return false
	}
}

// EnqueueExecution transforms a wire execution frame and enqueues it.
func (w *ExecutionWriter) EnqueueExecution(f *api.ExecutionFrame, receivedAt time.Time) bool {
	return w.Enqueue(TransformExecution(f, receivedAt))
}

// TransformExecution converts a wire execution frame to a row.
func TransformExecution(f *api.ExecutionFrame, receivedAt time.Time) model.ExecutionRecord {
	return model.ExecutionRecord{
		ID:               uuid.New(),
		Account:          f.Account,
		Venue:            f.Venue,
		Symbol:           f.Symbol,
		OrderID:          f.Order.ID,
		StandingID:       f.StandingID,
		IncomingID:       f.IncomingID,
		Price:            f.Price,
		Filled:           f.Filled,
		FilledAt:         f.FilledAt.UnixMicro(),
		ReceivedAt:       receivedAt.UnixMicro(),
		StandingComplete: f.StandingComplete,
		IncomingComplete: f.IncomingComplete,
	}
}

// Start begins consuming records and writing to the database.
func (w *ExecutionWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.consumeLoop()

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("execution writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the writer. Records still queued are drained
// into the batch and flushed on the caller's context; the run context is
// already canceled by then.
func (w *ExecutionWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping execution writer")

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
		w.logger.Info("execution writer stopped")
	case <-ctx.Done():
		w.logger.Warn("execution writer stop timed out")
	}

	w.drain()
	w.flush(ctx)

	return nil
}

// Stats returns current metrics.
func (w *ExecutionWriter) Stats() Metrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

func (w *ExecutionWriter) consumeLoop() {
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

func (w *ExecutionWriter) flushLoop() {
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

func (w *ExecutionWriter) add(rec model.ExecutionRecord) {
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
func (w *ExecutionWriter) drain() {
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

func (w *ExecutionWriter) flush(ctx context.Context) {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	batch := w.batch
	w.batch = make([]model.ExecutionRecord, 0, w.cfg.BatchSize)
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

	w.logger.Debug("flushed executions",
		"count", len(batch),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

func (w *ExecutionWriter) batchInsert(ctx context.Context, rows []model.ExecutionRecord) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO executions (id, account, venue, symbol, order_id, standing_id, incoming_id, price, filled, filled_at, received_at, standing_complete, incoming_complete)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (venue, standing_id, incoming_id, filled_at) DO NOTHING
		`, r.ID, r.Account, r.Venue, r.Symbol, r.OrderID, r.StandingID, r.IncomingID, r.Price, r.Filled, r.FilledAt, r.ReceivedAt, r.StandingComplete, r.IncomingComplete)
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
