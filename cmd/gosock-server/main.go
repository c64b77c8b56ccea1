// gosock-server answers set-key requests with paced timestamp bursts.
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

	if err := cli.NewServerCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "gosock-server: %v\n", err)
		os.Exit(1)
	}
}
