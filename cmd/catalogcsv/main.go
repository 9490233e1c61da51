// Package main provides the catalogcsv command-line tool for the product export CSV.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"catalogcsv/cmd/catalogcsv/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.ExecuteContext(ctx)
}
