package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/blechwerk/oseon-mcp/internal/observability"
	"github.com/blechwerk/oseon-mcp/internal/orders"
	"github.com/blechwerk/oseon-mcp/internal/render"
)

// Deps carries everything the tool handlers need.
type Deps struct {
	Service  *orders.Service
	Render   *render.Engine
	Logger   *slog.Logger
	Metrics  *observability.Metrics
	Validate *validator.Validate
	DemoMode bool
	Version  string
}

// binder threads the shared dependencies through tool registration.
type binder struct {
	deps     Deps
	server   *mcp.Server
	registry *Registry
}

// NewServer builds the MCP server with every tool registered, plus the
// registry mirroring the same tool set for the ops HTTP surface.
func NewServer(deps Deps) (*mcp.Server, *Registry) {
	if deps.Validate == nil {
		deps.Validate = validator.New()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	version := deps.Version
	if version == "" {
		version = "dev"
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "oseon-mcp",
		Version: version,
	}, nil)
	registry := NewRegistry()

	b := &binder{deps: deps, server: server, registry: registry}
	registerCustomerOrderTools(b)
	registerProductionOrderTools(b)
	registerDashboardTools(b)

	return server, registry
}

// Run serves the MCP protocol over stdio until the context is cancelled
// or stdin closes.
func Run(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// register binds one tool function to both the MCP server and the
// registry, so the two surfaces can never drift apart. Input validation
// failures are tool errors; operational failures were already turned
// into descriptive text by the handler.
func register[In any](b *binder, info ToolInfo, fn func(ctx context.Context, deps *Deps, in In) (string, error)) {
	deps := &b.deps

	handler := func(ctx context.Context, in In) (string, error) {
		start := time.Now()
		invocationID := uuid.NewString()

		if err := deps.Validate.Struct(in); err != nil {
			deps.Metrics.ObserveTool(info.Name, "invalid", time.Since(start))
			return "", fmt.Errorf("invalid arguments for %s: %w", info.Name, err)
		}

		text, err := fn(ctx, deps, in)
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		deps.Metrics.ObserveTool(info.Name, outcome, time.Since(start))
		deps.Logger.Info("tool invocation",
			slog.String("invocation_id", invocationID),
			slog.String("tool", info.Name),
			slog.String("outcome", outcome),
			slog.Duration("elapsed", time.Since(start)),
		)
		return text, err
	}

	mcp.AddTool(b.server, &mcp.Tool{
		Name:        info.Name,
		Description: info.Description,
	}, func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		text, err := handler(ctx, in)
		if err != nil {
			return nil, nil, err
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	})

	b.registry.add(info, func(ctx context.Context, args json.RawMessage) (string, error) {
		var in In
		if len(args) > 0 && string(args) != "null" {
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("decode arguments for %s: %w", info.Name, err)
			}
		}
		return handler(ctx, in)
	})
}

// boolDefault resolves an optional boolean argument against its default.
func boolDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
