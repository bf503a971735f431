package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blechwerk/oseon-mcp/internal/app"
	"github.com/blechwerk/oseon-mcp/internal/oseon"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe the configured Oseon backend once",
	Long:  "Issue a minimal single-record query against the backend and report connectivity, credentials and API health.",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := app.NewLogger(cfg)
	client := oseon.NewClient(oseonConfig(cfg), logger, nil)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.OseonTimeout)
	defer cancel()

	if err := client.Health(ctx); err != nil {
		return fmt.Errorf("%s: %w", checkCategory(err), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %s (api-version %s)\n", cfg.OseonBaseURL, cfg.OseonAPIVersion)
	return nil
}

func checkCategory(err error) string {
	switch {
	case errors.Is(err, oseon.ErrAuthentication):
		return "authentication"
	case errors.Is(err, oseon.ErrRateLimit):
		return "rate limit"
	case errors.Is(err, oseon.ErrServer):
		return "backend server"
	case errors.Is(err, oseon.ErrNotFound):
		return "endpoint"
	default:
		return "connection"
	}
}
