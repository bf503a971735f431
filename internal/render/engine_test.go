package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blechwerk/oseon-mcp/internal/orders"
	_ "github.com/blechwerk/oseon-mcp/testing"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine()
	require.NoError(t, err)
	return engine
}

func TestRenderCustomerOrderList(t *testing.T) {
	engine := newTestEngine(t)

	out, err := engine.Render("customer_order_list.tmpl", CustomerOrderListData{
		Title:    "CUSTOMER ORDERS",
		Filters:  "Recent (12 months) | Quality filtered",
		PageInfo: "Page 1: 2 records shown of 2 total",
		Orders: []orders.CustomerOrder{
			{CustomerOrderNo: "CO-24001", CustomerName: "Blechbau Nord GmbH", CustomerNo: "K1001", Status: "RELEASED"},
			{CustomerOrderNo: "CO-24002", CustomerName: "Maschinen Vogel AG", CustomerNo: "K1002", Status: "IN_PROGRESS"},
		},
		NextHint: "More results available: use page=2 to continue (3 pages total).",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "CUSTOMER ORDERS (Recent (12 months) | Quality filtered)")
	assert.Contains(t, out, "Order #CO-24001")
	assert.Contains(t, out, "Customer: Blechbau Nord GmbH (K1001)")
	assert.Contains(t, out, "Status: RELEASED (RELEASED - In production)")
	assert.Contains(t, out, "use page=2 to continue")
}

func TestRenderOrderDetailTotals(t *testing.T) {
	engine := newTestEngine(t)

	order := orders.CustomerOrder{
		CustomerOrderNo: "CO-24004",
		CustomerName:    "Stahlpartner Süd KG",
		CustomerNo:      "K1003",
		Status:          "COMPLETED",
		Positions: []orders.Position{
			{
				PositionNo:      "10",
				ItemNo:          "ITEM-300",
				NetPricePerUnit: decimal.RequireFromString("99.00"),
				TargetQuantity:  decimal.RequireFromString("12"),
				Currency:        "EUR",
			},
			{
				PositionNo:      "20",
				ItemNo:          "ITEM-310",
				NetPricePerUnit: decimal.RequireFromString("0.50"),
				TargetQuantity:  decimal.RequireFromString("1000"),
				Currency:        "EUR",
			},
		},
	}

	out, err := engine.Render("order_detail.tmpl", OrderDetailData{Order: order})
	require.NoError(t, err)

	assert.Contains(t, out, "ORDER POSITIONS (2 items):")
	assert.Contains(t, out, "Line Total: EUR 1,188.00")
	assert.Contains(t, out, "TOTAL ORDER VALUE: EUR 1,688.00")
	assert.Contains(t, out, "(COMPLETED - Delivered/Invoiced)")
}

func TestRenderProductionOrderList(t *testing.T) {
	engine := newTestEngine(t)

	out, err := engine.Render("production_order_list.tmpl", ProductionOrderListData{
		Title:    "PRODUCTION ORDERS",
		PageInfo: "Page 1: 1 records shown of 1 total",
		Orders: []orders.ProductionOrder{
			{OrderNo: "PO-5001", CustomerOrderNo: "CO-24001", ItemNo: "ITEM-100", Status: 40, Quantity: decimal.NewFromInt(100), Unit: "pcs"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, out, "PO-5001")
	assert.Contains(t, out, "40 (STARTED)")
}

func TestRenderDashboard(t *testing.T) {
	engine := newTestEngine(t)

	out, err := engine.Render("dashboard.tmpl", DashboardData{
		Dashboard: orders.Dashboard{
			Title:       "PRODUCTION DASHBOARD",
			GeneratedAt: time.Date(2026, 8, 15, 12, 0, 0, 0, time.Local),
			Sections: []orders.DashboardSection{
				{Name: "Active Production", Timeframe: "7 days", Detail: "orders currently in progress (last 7 days)", Count: 12},
				{Name: "Production Pipeline", Timeframe: "14 days", Detail: "orders ready to start production (last 14 days)", Err: errors.New("backend unavailable")},
			},
		},
		Summary: "12 active | ? pipeline",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "PRODUCTION DASHBOARD - 2026-08-15 12:00:00")
	assert.Contains(t, out, "Active Production: 12 orders")
	assert.Contains(t, out, "section unavailable: backend unavailable")
	assert.Contains(t, out, "SUMMARY: 12 active | ? pipeline")
}

func TestRenderUnknownTemplate(t *testing.T) {
	engine := newTestEngine(t)
	_, err := engine.Render("missing.tmpl", nil)
	require.Error(t, err)
}

func TestMoneyFormatting(t *testing.T) {
	engine := newTestEngine(t)

	out, err := engine.Render("order_detail.tmpl", OrderDetailData{Order: orders.CustomerOrder{
		CustomerOrderNo: "CO-1",
		Positions: []orders.Position{{
			PositionNo:      "10",
			NetPricePerUnit: decimal.RequireFromString("1234567.891"),
			TargetQuantity:  decimal.NewFromInt(1),
		}},
	}})
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "EUR 1,234,567.89"), "grouped thousands in money output:\n%s", out)
}
