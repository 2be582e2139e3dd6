package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mfine/stockfighter/api"
)

// QuoteHandler receives fetched quotes.
type QuoteHandler interface {
	HandleQuote(q *api.Quote, receivedAt time.Time) error
}

// QuoteHandlerFunc is a function adapter for QuoteHandler.
type QuoteHandlerFunc func(*api.Quote, time.Time) error

func (f QuoteHandlerFunc) HandleQuote(q *api.Quote, receivedAt time.Time) error {
	return f(q, receivedAt)
}

// Config holds poller configuration.
type Config struct {
	Interval    time.Duration // Poll interval
	Concurrency int           // Max concurrent requests
	Timeout     time.Duration // Per-request timeout
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    30 * time.Second,
		Concurrency: 4,
		Timeout:     10 * time.Second,
	}
}

// Poller periodically fetches quotes for a fixed set of stocks.
type Poller struct {
	cfg     Config
	client  *api.Client
	venue   string
	stocks  []string
	handler QuoteHandler
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, client *api.Client, venue string, stocks []string, handler QuoteHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:     cfg,
		client:  client,
		venue:   venue,
		stocks:  stocks,
		handler: handler,
		logger:  logger,
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("quote poller started",
		"venue", p.venue,
		"stocks", len(p.stocks),
		"interval", p.cfg.Interval,
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("quote poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.pollAll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.pollAll()
		}
	}
}

// pollAll fetches quotes for all configured stocks concurrently.
func (p *Poller) pollAll() {
	start := time.Now()

	// Semaphore for bounded concurrency.
	sem := make(chan struct{}, p.cfg.Concurrency)
	var wg sync.WaitGroup
	var fetched, failures atomic.Int64

	for _, stock := range p.stocks {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-p.ctx.Done():
				return
			}

			if err := p.pollStock(symbol); err != nil {
				p.logger.Warn("failed to poll quote",
					"symbol", symbol,
					"err", err,
				)
				failures.Add(1)
				return
			}

			fetched.Add(1)
		}(stock)
	}

	wg.Wait()

	p.logger.Debug("poll cycle complete",
		"stocks", len(p.stocks),
		"fetched", fetched.Load(),
		"failures", failures.Load(),
		"duration", time.Since(start),
	)
}

// pollStock fetches and handles a single stock's quote.
func (p *Poller) pollStock(symbol string) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	q, err := p.client.QuoteFor(ctx, p.venue, symbol)
	if err != nil {
		return err
	}

	if p.handler != nil {
		if err := p.handler.HandleQuote(q, time.Now()); err != nil {
			return err
		}
	}

	return nil
}
