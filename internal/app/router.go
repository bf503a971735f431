package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/blechwerk/oseon-mcp/internal/observability"
	"github.com/blechwerk/oseon-mcp/internal/platform/httpx"
	"github.com/blechwerk/oseon-mcp/internal/tools"
)

// RouterParams groups dependencies for building the ops HTTP router.
type RouterParams struct {
	Logger   *slog.Logger
	Config   *Config
	Registry *tools.Registry
	Ready    func(ctx context.Context) error
	Metrics  *observability.Metrics
}

// readyGroup collapses concurrent readiness probes into one backend call.
var readyGroup singleflight.Group

// NewRouter constructs the chi.Router for the operational surface:
// liveness, readiness, metrics and tool invocation over plain JSON.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if params.Ready == nil {
			httpx.Problem(w, http.StatusServiceUnavailable, "Not Ready", "no readiness probe configured")
			return
		}
		_, err, _ := readyGroup.Do("ready", func() (any, error) {
			return nil, params.Ready(r.Context())
		})
		if err != nil {
			params.Logger.Warn("readiness probe failed", slog.Any("error", err))
			httpx.Problem(w, http.StatusServiceUnavailable, "Not Ready", err.Error())
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.Registry != nil {
		r.Get("/v1/tools", func(w http.ResponseWriter, r *http.Request) {
			httpx.JSON(w, http.StatusOK, params.Registry.List())
		})

		r.Post("/v1/tools/{name}", func(w http.ResponseWriter, r *http.Request) {
			name := chi.URLParam(r, "name")
			var args json.RawMessage
			if err := httpx.DecodeJSON(r, &args); err != nil {
				httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be a JSON object")
				return
			}
			text, err := params.Registry.Invoke(r.Context(), name, args)
			switch {
			case errors.Is(err, tools.ErrUnknownTool):
				httpx.Problem(w, http.StatusNotFound, "Unknown Tool", err.Error())
			case err != nil:
				httpx.Problem(w, http.StatusBadRequest, "Invalid Arguments", err.Error())
			default:
				httpx.JSON(w, http.StatusOK, map[string]string{"tool": name, "text": text})
			}
		})
	}

	return r
}
