// paymentwatch drives the payment confirmation protocol for one order
// against a running checkout server: poll until the status leaves pending,
// time out into a manual re-check hint otherwise.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/yansassi23/restaurapro/internal/confirm"
)

func main() {
	var (
		serverAddr   string
		orderNumber  string
		pollInterval time.Duration
		pollTimeout  time.Duration
	)

	flag.StringVar(&serverAddr, "a", "http://localhost:8080", "checkout server address")
	flag.StringVar(&orderNumber, "n", "", "order number to watch")
	flag.DurationVar(&pollInterval, "i", 3*time.Second, "poll interval")
	flag.DurationVar(&pollTimeout, "t", 5*time.Minute, "poll timeout")
	flag.Parse()

	if orderNumber == "" {
		log.Fatal("order number is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	done := make(chan struct{})

	client := confirm.NewStatusClient(serverAddr)
	watcher := confirm.NewWatcher(client, orderNumber, func() {
		close(done)
	}, confirm.Options{
		Interval: pollInterval,
		Timeout:  pollTimeout,
	})

	if err := watcher.Start(ctx); err != nil {
		log.Fatalf("cannot start watching: %v", err)
	}
	defer watcher.Stop()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("cancelled")
			return
		case <-done:
			fmt.Printf("order %s: payment confirmed\n", orderNumber)
			return
		case <-ticker.C:
			switch watcher.State() {
			case confirm.StateFailed:
				fmt.Printf("order %s: payment failed, re-check manually with -n %s\n", orderNumber, orderNumber)
				return
			case confirm.StateTimedOut:
				fmt.Printf("order %s: no confirmation within %s, re-check manually\n", orderNumber, pollTimeout)
				return
			}
		}
	}
}
