package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blechwerk/oseon-mcp/internal/orders"
	"github.com/blechwerk/oseon-mcp/internal/oseon"
	"github.com/blechwerk/oseon-mcp/internal/render"
)

func registerDashboardTools(b *binder) {
	register(b, ToolInfo{
		Name:        "get_production_dashboard",
		Description: "Production overview: active work, release pipeline, recent completions and overdue orders in one view.",
		Category:    "dashboards",
	}, getProductionDashboard)

	register(b, ToolInfo{
		Name:        "get_sales_dashboard",
		Description: "Sales overview: new business, orders ready for production, delivery issues and recent changes.",
		Category:    "dashboards",
	}, getSalesDashboard)

	register(b, ToolInfo{
		Name:        "check_oseon_health",
		Description: "Probe backend connectivity and credentials with a minimal single-record query.",
		Category:    "dashboards",
	}, checkOseonHealth)
}

type dashboardInput struct{}

func getProductionDashboard(ctx context.Context, deps *Deps, _ dashboardInput) (string, error) {
	dash := deps.Service.ProductionDashboard(ctx)
	return deps.Render.Render("dashboard.tmpl", render.DashboardData{
		Dashboard: dash,
		Summary:   dashboardSummary(dash, []string{"active", "pipeline", "completed", "issues"}),
	})
}

func getSalesDashboard(ctx context.Context, deps *Deps, _ dashboardInput) (string, error) {
	dash := deps.Service.SalesDashboard(ctx)
	return deps.Render.Render("dashboard.tmpl", render.DashboardData{
		Dashboard: dash,
		Summary:   dashboardSummary(dash, []string{"new", "ready", "overdue", "changed"}),
	})
}

// dashboardSummary builds the one-line recap, e.g.
// "12 active | 5 pipeline | 3 completed | 1 issues". Failed sections
// show "?" instead of a count.
func dashboardSummary(dash orders.Dashboard, labels []string) string {
	parts := make([]string, 0, len(dash.Sections))
	for i, section := range dash.Sections {
		label := section.Name
		if i < len(labels) {
			label = labels[i]
		}
		if section.Err != nil {
			parts = append(parts, "? "+label)
			continue
		}
		parts = append(parts, fmt.Sprintf("%d %s", section.Count, label))
	}
	return strings.Join(parts, " | ")
}

type healthInput struct{}

func checkOseonHealth(ctx context.Context, deps *Deps, _ healthInput) (string, error) {
	if err := deps.Service.Health(ctx); err != nil {
		switch {
		case errors.Is(err, oseon.ErrAuthentication):
			return fmt.Sprintf("UNHEALTHY: authentication rejected by the Oseon backend (%v)", err), nil
		case errors.Is(err, oseon.ErrRateLimit):
			return fmt.Sprintf("DEGRADED: Oseon backend is rate limiting requests (%v)", err), nil
		case errors.Is(err, oseon.ErrServer):
			return fmt.Sprintf("UNHEALTHY: Oseon backend server error (%v)", err), nil
		default:
			return fmt.Sprintf("UNHEALTHY: cannot reach the Oseon backend (%v)", err), nil
		}
	}
	return "HEALTHY: Oseon backend is reachable and credentials are accepted.", nil
}
