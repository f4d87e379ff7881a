// lotbook tracks recipe trial lots and shows what changed between them.
//
// Usage:
//
//	lotbook [--store badger|memory] [--data-dir DIR] <command>
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hammamikhairi/lotbook/internal/display"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, display.RenderError(err))
		cancel()
		os.Exit(1)
	}
}
