// recorder streams tickertape quotes and executions for a configured venue
// into Postgres, with a REST quote poller filling gaps during stream outages.
// Usage: go run ./cmd/recorder --config configs/recorder.local.yaml
//
// Required environment variables (referenced from the config file):
//
//	STARFIGHTER_API_KEY - your API key
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mfine/stockfighter/api"
	"github.com/mfine/stockfighter/internal/config"
	"github.com/mfine/stockfighter/internal/database"
	"github.com/mfine/stockfighter/internal/model"
	"github.com/mfine/stockfighter/internal/poller"
	"github.com/mfine/stockfighter/internal/version"
	"github.com/mfine/stockfighter/internal/writer"
	"github.com/mfine/stockfighter/stream"
)

func main() {
	configPath := flag.String("config", "configs/recorder.example.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting recorder",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"venue", cfg.API.Venue,
		"stocks", cfg.API.Stocks,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connected",
		"host", cfg.Database.Postgres.Host,
		"database", cfg.Database.Postgres.Name,
	)

	// Writers
	wcfg := writer.Config{
		BatchSize:     cfg.Writers.BatchSize,
		FlushInterval: cfg.Writers.FlushInterval,
		BufferSize:    cfg.Writers.BufferSize,
	}
	quotes := writer.NewQuoteWriter(wcfg, pool, logger.With("writer", "quotes"))
	executions := writer.NewExecutionWriter(wcfg, pool, logger.With("writer", "executions"))

	if err := quotes.Start(ctx); err != nil {
		logger.Error("failed to start quote writer", "error", err)
		os.Exit(1)
	}
	if err := executions.Start(ctx); err != nil {
		logger.Error("failed to start execution writer", "error", err)
		os.Exit(1)
	}

	// API client
	client := api.New(cfg.API.APIKey,
		api.WithBaseURL(cfg.API.RestURL),
		api.WithGameURL(cfg.API.GameURL),
		api.WithWSURL(cfg.API.WSURL),
		api.WithAccount(cfg.API.Account),
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(logger),
	)

	// REST quote poller feeding the quote writer
	pcfg := poller.Config{
		Interval:    cfg.Poller.Interval,
		Concurrency: cfg.Poller.Concurrency,
		Timeout:     cfg.Poller.Timeout,
	}
	handler := poller.QuoteHandlerFunc(func(q *api.Quote, receivedAt time.Time) error {
		quotes.EnqueueQuote(q, receivedAt, model.SourceRest)
		return nil
	})
	quotePoller := poller.New(pcfg, client, cfg.API.Venue, cfg.API.Stocks, handler, logger)
	if err := quotePoller.Start(ctx); err != nil {
		logger.Error("failed to start poller", "error", err)
		os.Exit(1)
	}

	// Streams
	tape, err := openTickertape(ctx, client, cfg, quotes, logger)
	if err != nil {
		logger.Error("failed to open tickertape", "error", err)
		os.Exit(1)
	}
	fills, err := openExecutions(ctx, client, cfg, executions, logger)
	if err != nil {
		logger.Error("failed to open executions", "error", err)
		os.Exit(1)
	}

	logger.Info("recorder running")

	// A stream handle only terminates on shutdown when reconnect is enabled;
	// if one dies, take the whole process down so the supervisor restarts it.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return watchHandle(gctx, tape.Done(), "tickertape") })
	g.Go(func() error { return watchHandle(gctx, fills.Done(), "executions") })

	err = g.Wait()
	cancel()

	// Graceful teardown
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()

	tape.Close()
	fills.Close()
	quotePoller.Stop(stopCtx)
	quotes.Stop(stopCtx)
	executions.Stop(stopCtx)

	qs, es := quotes.Stats(), executions.Stats()
	logger.Info("recorder stopped",
		"quotes_inserted", qs.Inserts,
		"executions_inserted", es.Inserts,
	)

	if err != nil {
		logger.Error("recorder exited", "error", err)
		os.Exit(1)
	}
}

// watchHandle turns an unexpected stream termination into a fatal error.
// During shutdown every handle terminates and both cases below may be ready
// at once; a terminated handle counts as clean whenever shutdown has begun.
func watchHandle(ctx context.Context, done <-chan struct{}, name string) error {
	select {
	case <-done:
		if ctx.Err() != nil {
			return nil
		}
		return errors.New(name + " channel terminated")
	case <-ctx.Done():
		return nil
	}
}

func openTickertape(ctx context.Context, client *api.Client, cfg *config.RecorderConfig, quotes *writer.QuoteWriter, logger *slog.Logger) (*stream.Handle, error) {
	return client.Tickertape(ctx, api.StreamOpts{
		Venue:             cfg.API.Venue,
		Reconnect:         cfg.Stream.Reconnect,
		ReconnectBaseWait: cfg.Stream.ReconnectBaseWait,
		ReconnectMaxWait:  cfg.Stream.ReconnectMaxWait,
		OnOpen: func() {
			logger.Info("tickertape connected", "venue", cfg.API.Venue)
		},
		OnMessage: func(m stream.Message) {
			frame, err := api.DecodeQuoteFrame(m)
			if err != nil {
				logger.Warn("bad tickertape frame", "error", err)
				return
			}
			quotes.EnqueueQuote(&frame.Quote, m.ReceivedAt, model.SourceStream)
		},
		OnClose: func(info stream.CloseInfo) {
			logger.Warn("tickertape closed", "code", info.Code, "error", info.Err)
		},
		OnError: func(err error) {
			logger.Warn("tickertape error", "error", err)
		},
	})
}

func openExecutions(ctx context.Context, client *api.Client, cfg *config.RecorderConfig, executions *writer.ExecutionWriter, logger *slog.Logger) (*stream.Handle, error) {
	return client.Executions(ctx, api.StreamOpts{
		Venue:             cfg.API.Venue,
		Reconnect:         cfg.Stream.Reconnect,
		ReconnectBaseWait: cfg.Stream.ReconnectBaseWait,
		ReconnectMaxWait:  cfg.Stream.ReconnectMaxWait,
		OnOpen: func() {
			logger.Info("executions connected", "venue", cfg.API.Venue)
		},
		OnMessage: func(m stream.Message) {
			frame, err := api.DecodeExecutionFrame(m)
			if err != nil {
				logger.Warn("bad execution frame", "error", err)
				return
			}
			executions.EnqueueExecution(frame, m.ReceivedAt)
		},
		OnClose: func(info stream.CloseInfo) {
			logger.Warn("executions closed", "code", info.Code, "error", info.Err)
		},
		OnError: func(err error) {
			logger.Warn("executions error", "error", err)
		},
	})
}
