// apitest exercises the REST surface against the test venue.
// Usage: STARFIGHTER_API_KEY=... go run ./cmd/apitest --venue TESTEX --stock FOOBAR
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mfine/stockfighter/api"
)

func main() {
	venue := flag.String("venue", "TESTEX", "venue symbol")
	stock := flag.String("stock", "FOOBAR", "stock symbol")
	account := flag.String("account", "", "trading account (enables order tests)")
	flag.Parse()

	client := api.New(os.Getenv("STARFIGHTER_API_KEY"),
		api.WithTimeout(30*time.Second),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fmt.Println("=== API heartbeat ===")
	hb, err := client.Heartbeat(ctx)
	if err != nil {
		log.Fatalf("Heartbeat failed: %v", err)
	}
	fmt.Printf("ok=%v error=%q\n", hb.OK, hb.Error)

	fmt.Printf("\n=== Venue heartbeat (%s) ===\n", *venue)
	vhb, err := client.VenueHeartbeat(ctx, *venue)
	if err != nil {
		log.Fatalf("VenueHeartbeat failed: %v", err)
	}
	fmt.Printf("ok=%v venue=%s\n", vhb.OK, vhb.Venue)

	fmt.Printf("\n=== Stocks on %s ===\n", *venue)
	stocks, err := client.Stocks(ctx, *venue)
	if err != nil {
		log.Fatalf("Stocks failed: %v", err)
	}
	for i, s := range stocks.Symbols {
		fmt.Printf("  %d. %s - %s\n", i+1, s.Symbol, s.Name)
	}

	fmt.Printf("\n=== Orderbook %s/%s ===\n", *venue, *stock)
	book, err := client.OrderbookFor(ctx, *venue, *stock)
	if err != nil {
		log.Fatalf("OrderbookFor failed: %v", err)
	}
	fmt.Printf("ok=%v bids=%d asks=%d ts=%s\n", book.OK, len(book.Bids), len(book.Asks), book.TS)

	fmt.Printf("\n=== Quote %s/%s ===\n", *venue, *stock)
	quote, err := client.QuoteFor(ctx, *venue, *stock)
	if err != nil {
		log.Fatalf("QuoteFor failed: %v", err)
	}
	fmt.Printf("bid=%d ask=%d last=%d\n", quote.Bid, quote.Ask, quote.Last)

	if *account == "" {
		return
	}

	fmt.Printf("\n=== Limit buy on %s/%s ===\n", *venue, *stock)
	order, err := client.Buy(ctx, api.OrderOpts{
		Account: *account,
		Venue:   *venue,
		Stock:   *stock,
		Price:   "1.00",
		Qty:     1,
		Type:    api.OrderLimit,
	})
	if err != nil {
		log.Fatalf("Buy failed: %v", err)
	}
	fmt.Printf("ok=%v id=%d open=%v filled=%d\n", order.OK, order.ID, order.Open, order.TotalFilled)

	if order.Open {
		fmt.Printf("\n=== Cancel order %d ===\n", order.ID)
		cancelled, err := client.CancelOrder(ctx, *venue, *stock, order.ID)
		if err != nil {
			log.Fatalf("CancelOrder failed: %v", err)
		}
		fmt.Printf("ok=%v open=%v\n", cancelled.OK, cancelled.Open)
	}

	fmt.Printf("\n=== Orders for %s on %s ===\n", *account, *venue)
	orders, err := client.Orders(ctx, *venue, *account, "")
	if err != nil {
		log.Fatalf("Orders failed: %v", err)
	}
	fmt.Printf("ok=%v count=%d\n", orders.OK, len(orders.Orders))
}
