// Package cli wires the oseon-mcp commands: the stdio MCP server, the
// tool listing and the backend health probe.
package cli

import (
	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "oseon-mcp",
	Short: "Read-only MCP tool server for TRUMPF Oseon order data",
	Long: `oseon-mcp exposes customer and production orders from a TRUMPF Oseon
manufacturing ERP as Model Context Protocol tools over stdio. All tools
are read-only; the server never writes to the backend.`,
	SilenceUsage: true,
}

// Execute runs the root command with all subcommands attached.
func Execute() error {
	rootCmd.Version = version
	return rootCmd.Execute()
}
