// gosock-client reads requests from stdin and prints the server's
// responses.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gosock/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.NewClientCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "gosock-client: %v\n", err)
		os.Exit(1)
	}
}
