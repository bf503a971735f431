package main

import (
	"log/slog"
	"os"

	"github.com/blechwerk/oseon-mcp/cmd/oseon-mcp/cli"
	"github.com/blechwerk/oseon-mcp/internal/app"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
