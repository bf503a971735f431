package tools

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blechwerk/oseon-mcp/internal/orders"
	"github.com/blechwerk/oseon-mcp/internal/oseon"
	"github.com/blechwerk/oseon-mcp/internal/render"
	_ "github.com/blechwerk/oseon-mcp/testing"
)

// fakeBackend answers both collection endpoints from canned envelopes
// and the detail endpoint from a single order.
type fakeBackend struct {
	customers   []orders.CustomerOrder
	productions []orders.ProductionOrder
	detail      *orders.CustomerOrder
	err         error
}

func (f *fakeBackend) Request(_ context.Context, endpoint string, _ map[string]string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	switch endpoint {
	case oseon.EndpointCustomerOrders:
		return json.Marshal(map[string]any{"collection": f.customers, "records": len(f.customers), "pages": 1})
	case oseon.EndpointProductionOrders:
		return json.Marshal(map[string]any{"collection": f.productions, "records": len(f.productions), "pages": 1})
	}
	if f.detail != nil {
		return json.Marshal(f.detail)
	}
	return nil, oseon.ErrNotFound
}

func newTestRegistry(t *testing.T, backend *fakeBackend, demoMode bool) *Registry {
	t.Helper()
	engine, err := render.NewEngine()
	require.NoError(t, err)

	_, registry := NewServer(Deps{
		Service:  orders.NewService(backend, nil),
		Render:   engine,
		DemoMode: demoMode,
	})
	return registry
}

var allToolNames = []string{
	"check_customer_order_overdue",
	"check_oseon_health",
	"check_production_order_overdue",
	"get_customer_order_details",
	"get_customer_order_for_production_order",
	"get_customer_orders",
	"get_customer_orders_bulk",
	"get_customer_orders_by_status",
	"get_finished_production_orders",
	"get_in_progress_production_orders",
	"get_latest_orders_for_customer",
	"get_orders_with_advanced_filter",
	"get_production_dashboard",
	"get_production_orders",
	"get_production_orders_by_status",
	"get_production_orders_for_customer_order",
	"get_released_production_orders",
	"get_sales_dashboard",
	"search_customer_orders",
	"search_production_orders",
}

func TestRegistryListsAllTools(t *testing.T) {
	registry := newTestRegistry(t, &fakeBackend{}, false)

	infos := registry.List()
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
		assert.NotEmpty(t, info.Description, "%s needs a description", info.Name)
		assert.NotEmpty(t, info.Category, "%s needs a category", info.Name)
	}

	assert.Len(t, infos, 20)
	assert.True(t, sort.StringsAreSorted(names), "listing is sorted by name")
	for _, want := range allToolNames {
		assert.Contains(t, names, want)
	}
}

func TestRegistryInvokeRendersOrders(t *testing.T) {
	backend := &fakeBackend{customers: []orders.CustomerOrder{
		{CustomerOrderNo: "CO-24001", CustomerName: "Blechbau Nord GmbH", CustomerNo: "K1001", Status: "RELEASED"},
	}}
	registry := newTestRegistry(t, backend, false)

	text, err := registry.Invoke(context.Background(), "get_customer_orders", nil)
	require.NoError(t, err)
	assert.Contains(t, text, "CUSTOMER ORDERS")
	assert.Contains(t, text, "Order #CO-24001")
	assert.Contains(t, text, "Blechbau Nord GmbH")
}

func TestRegistryInvokeUnknownTool(t *testing.T) {
	registry := newTestRegistry(t, &fakeBackend{}, false)

	_, err := registry.Invoke(context.Background(), "drop_all_orders", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTool))
}

func TestRegistryInvokeValidatesArguments(t *testing.T) {
	registry := newTestRegistry(t, &fakeBackend{}, false)

	_, err := registry.Invoke(context.Background(), "search_customer_orders", json.RawMessage(`{}`))
	require.Error(t, err, "search_pattern is required")
	assert.Contains(t, err.Error(), "invalid arguments")

	_, err = registry.Invoke(context.Background(), "get_customer_orders", json.RawMessage(`{"size": 500}`))
	require.Error(t, err, "size beyond the cap is rejected up front")
}

func TestRegistryInvokeBadJSON(t *testing.T) {
	registry := newTestRegistry(t, &fakeBackend{}, false)

	_, err := registry.Invoke(context.Background(), "get_customer_orders", json.RawMessage(`{broken`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode arguments")
}

func TestOperationalErrorsBecomeText(t *testing.T) {
	backend := &fakeBackend{err: oseon.ErrConnection}
	registry := newTestRegistry(t, backend, false)

	text, err := registry.Invoke(context.Background(), "get_customer_orders", nil)
	require.NoError(t, err, "backend failures are reported in the text channel")
	assert.Contains(t, text, "Error retrieving customer orders:")
}

func TestNoResultsMessage(t *testing.T) {
	registry := newTestRegistry(t, &fakeBackend{}, false)

	text, err := registry.Invoke(context.Background(), "get_customer_orders", nil)
	require.NoError(t, err)
	assert.Equal(t, "No customer orders found matching the criteria.", text)
}

func TestDetailNotFoundMessage(t *testing.T) {
	registry := newTestRegistry(t, &fakeBackend{}, false)

	text, err := registry.Invoke(context.Background(), "get_customer_order_details",
		json.RawMessage(`{"customer_order_no":"CO-MISSING"}`))
	require.NoError(t, err)
	assert.Equal(t, "No customer order found with number: CO-MISSING", text)
}

func TestDemoModeSanitizesCustomerIdentity(t *testing.T) {
	backend := &fakeBackend{customers: []orders.CustomerOrder{
		{CustomerOrderNo: "CO-24001", CustomerName: "Blechbau Nord GmbH", CustomerNo: "K1001", Status: "RELEASED"},
	}}
	registry := newTestRegistry(t, backend, true)

	text, err := registry.Invoke(context.Background(), "get_customer_orders", nil)
	require.NoError(t, err)
	assert.Contains(t, text, "Sheet Metal Connect")
	assert.Contains(t, text, "(C1)")
	assert.NotContains(t, text, "Blechbau Nord GmbH")
	assert.NotContains(t, text, "K1001")
}

func TestHealthToolReportsTaxonomy(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		registry := newTestRegistry(t, &fakeBackend{}, false)
		text, err := registry.Invoke(context.Background(), "check_oseon_health", nil)
		require.NoError(t, err)
		assert.Contains(t, text, "HEALTHY")
	})

	t.Run("auth failure", func(t *testing.T) {
		registry := newTestRegistry(t, &fakeBackend{err: oseon.ErrAuthentication}, false)
		text, err := registry.Invoke(context.Background(), "check_oseon_health", nil)
		require.NoError(t, err)
		assert.Contains(t, text, "UNHEALTHY: authentication rejected")
	})
}

func TestDashboardToolSummaryLine(t *testing.T) {
	backend := &fakeBackend{productions: []orders.ProductionOrder{
		{OrderNo: "PO-5001", Status: 40, CustomerName: "Blechbau Nord GmbH"},
		{OrderNo: "PO-5002", Status: 40, CustomerName: "Maschinen Vogel AG"},
	}}
	registry := newTestRegistry(t, backend, false)

	text, err := registry.Invoke(context.Background(), "get_production_dashboard", nil)
	require.NoError(t, err)
	assert.Contains(t, text, "PRODUCTION DASHBOARD")
	assert.Contains(t, text, "SUMMARY: 2 active | 2 pipeline | 2 completed | 0 issues")
}
