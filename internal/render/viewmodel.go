package render

import "github.com/blechwerk/oseon-mcp/internal/orders"

// CustomerOrderListData feeds the customer order list template.
type CustomerOrderListData struct {
	Title    string
	Filters  string
	PageInfo string
	Orders   []orders.CustomerOrder
	NextHint string
}

// ProductionOrderListData feeds the production order list template.
type ProductionOrderListData struct {
	Title    string
	Filters  string
	PageInfo string
	Orders   []orders.ProductionOrder
	NextHint string
}

// OrderDetailData feeds the single-order detail template.
type OrderDetailData struct {
	Order orders.CustomerOrder
}

// OverdueProductionData feeds the overdue production report template.
type OverdueProductionData struct {
	SearchTerm string
	Orders     []orders.OverdueProductionOrder
}

// OverdueCustomerData feeds the overdue customer order report template.
type OverdueCustomerData struct {
	CustomerNo  string
	DaysOverdue int
	Orders      []orders.OverdueCustomerOrder
}

// OrderLinkData feeds the cross-reference template.
type OrderLinkData struct {
	Link orders.OrderLink
}

// DashboardData feeds the dashboard template. Summary is the one-line
// pipe-joined recap under the sections.
type DashboardData struct {
	Dashboard orders.Dashboard
	Summary   string
}
