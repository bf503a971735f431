package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/blechwerk/oseon-mcp/internal/app"
	"github.com/blechwerk/oseon-mcp/internal/observability"
	"github.com/blechwerk/oseon-mcp/internal/orders"
	"github.com/blechwerk/oseon-mcp/internal/oseon"
	"github.com/blechwerk/oseon-mcp/internal/render"
	"github.com/blechwerk/oseon-mcp/internal/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Start the MCP server on stdin/stdout. The protocol owns stdout, so all
logging goes to stderr. When OPS_ADDR is set an HTTP sidecar serves
liveness, readiness, Prometheus metrics and plain-JSON tool invocation.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := app.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := oseon.NewClient(oseonConfig(cfg), logger, metrics)
	service := orders.NewService(client, logger)

	engine, err := render.NewEngine()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	server, registry := tools.NewServer(tools.Deps{
		Service:  service,
		Render:   engine,
		Logger:   logger,
		Metrics:  metrics,
		DemoMode: cfg.DemoMode,
		Version:  version,
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting mcp server",
			slog.String("transport", "stdio"),
			slog.String("backend", cfg.OseonBaseURL),
			slog.Bool("demo_mode", cfg.DemoMode))
		return tools.Run(ctx, server)
	})

	if cfg.OpsAddr != "" {
		router := app.NewRouter(app.RouterParams{
			Logger:   logger,
			Config:   cfg,
			Registry: registry,
			Ready:    client.Health,
			Metrics:  metrics,
		})
		ops := &http.Server{
			Addr:         cfg.OpsAddr,
			Handler:      router,
			ReadTimeout:  cfg.OpsReadTimeout,
			WriteTimeout: cfg.OpsWriteTimeout,
		}
		g.Go(func() error {
			logger.Info("starting ops server", slog.String("addr", cfg.OpsAddr))
			if err := ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return ops.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", slog.Any("error", err))
		return err
	}
	logger.Info("shutting down")
	return nil
}

func oseonConfig(cfg *app.Config) oseon.Config {
	return oseon.Config{
		BaseURL:        cfg.OseonBaseURL,
		Username:       cfg.OseonUsername,
		Password:       cfg.OseonPassword,
		APIVersion:     cfg.OseonAPIVersion,
		UserHeader:     cfg.OseonUserHeader,
		TerminalHeader: cfg.OseonTerminalHeader,
		Timeout:        cfg.OseonTimeout,
	}
}
