package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/blechwerk/oseon-mcp/internal/render"
	"github.com/blechwerk/oseon-mcp/internal/tools"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the registered MCP tools",
	Args:  cobra.NoArgs,
	RunE:  runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, _ []string) error {
	engine, err := render.NewEngine()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	// Registration needs no backend: the service is only touched when a
	// tool is invoked.
	_, registry := tools.NewServer(tools.Deps{Render: engine, Version: version})

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tDESCRIPTION")
	for _, info := range registry.List() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, info.Category, info.Description)
	}
	return w.Flush()
}
