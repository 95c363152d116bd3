// Command apicall sends one declared API request and prints the decoded
// JSON response.
//
//	apicall --base-url https://api.example.com -p id=42 GET /users/{id}
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
