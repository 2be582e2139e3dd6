// streamtest opens a streaming channel and prints frames to the console.
// Usage: STARFIGHTER_API_KEY=... go run ./cmd/streamtest --account EXB123456 --venue TESTEX
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mfine/stockfighter/api"
	"github.com/mfine/stockfighter/stream"
)

func main() {
	account := flag.String("account", "", "trading account")
	venue := flag.String("venue", "", "venue symbol (optional)")
	stock := flag.String("stock", "", "stock symbol (optional)")
	executions := flag.Bool("executions", false, "stream executions instead of tickertape")
	verbose := flag.Bool("verbose", false, "print full frame JSON")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	client := api.New(os.Getenv("STARFIGHTER_API_KEY"),
		api.WithAccount(*account),
		api.WithLogger(logger),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	opts := api.StreamOpts{
		Venue:     *venue,
		Stock:     *stock,
		Reconnect: true,
		OnOpen: func() {
			logger.Info("channel open")
		},
		OnMessage: func(m stream.Message) {
			if *verbose {
				var pretty map[string]any
				json.Unmarshal(m.Data, &pretty)
				fmt.Printf("%s %+v\n", m.ReceivedAt.Format("15:04:05.000"), pretty)
				return
			}
			printSummary(m, *executions)
		},
		OnClose: func(info stream.CloseInfo) {
			logger.Warn("channel closed", "code", info.Code, "error", info.Err)
		},
		OnError: func(err error) {
			logger.Warn("channel error", "error", err)
		},
	}

	open := client.Tickertape
	if *executions {
		open = client.Executions
	}

	h, err := open(ctx, opts)
	if err != nil {
		logger.Error("failed to open channel", "error", err)
		os.Exit(1)
	}
	logger.Info("streaming", "url", h.URL())

	<-ctx.Done()
	h.Close()
	<-h.Done()
}

func printSummary(m stream.Message, executions bool) {
	if executions {
		f, err := api.DecodeExecutionFrame(m)
		if err != nil {
			return
		}
		fmt.Printf("%s fill %s/%s qty=%d price=%d order=%d\n",
			m.ReceivedAt.Format("15:04:05.000"),
			f.Venue, f.Symbol, f.Filled, f.Price, f.Order.ID)
		return
	}

	f, err := api.DecodeQuoteFrame(m)
	if err != nil {
		return
	}
	fmt.Printf("%s quote %s/%s bid=%d ask=%d last=%d\n",
		m.ReceivedAt.Format("15:04:05.000"),
		f.Quote.Venue, f.Quote.Symbol, f.Quote.Bid, f.Quote.Ask, f.Quote.Last)
}
