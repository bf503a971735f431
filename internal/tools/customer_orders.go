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

func registerCustomerOrderTools(b *binder) {
	register(b, ToolInfo{
		Name:        "get_customer_orders",
		Description: "List customer orders, newest first. Defaults to the last 12 months, quality-filtered, auto-paginated up to 200 records.",
		Category:    "customer-orders",
	}, getCustomerOrders)

	register(b, ToolInfo{
		Name:        "search_customer_orders",
		Description: "Search customer orders by order number or external reference. Supports % wildcards, single page.",
		Category:    "customer-orders",
	}, searchCustomerOrders)

	register(b, ToolInfo{
		Name:        "get_customer_orders_by_status",
		Description: "List customer orders with a fixed status such as RELEASED, COMPLETED or INVOICED.",
		Category:    "customer-orders",
	}, getCustomerOrdersByStatus)

	register(b, ToolInfo{
		Name:        "get_customer_order_details",
		Description: "Fetch one customer order by exact order number, including all positions and the recomputed total value.",
		Category:    "customer-orders",
	}, getCustomerOrderDetails)

	register(b, ToolInfo{
		Name:        "get_latest_orders_for_customer",
		Description: "List a customer's most recent orders within a lookback window (default 90 days).",
		Category:    "customer-orders",
	}, getLatestOrdersForCustomer)

	register(b, ToolInfo{
		Name:        "check_customer_order_overdue",
		Description: "Find a customer's orders whose planned delivery date has passed without a terminal status.",
		Category:    "customer-orders",
	}, checkCustomerOrderOverdue)

	register(b, ToolInfo{
		Name:        "get_orders_with_advanced_filter",
		Description: "Filter customer orders by date range, comma-separated status list and customer number.",
		Category:    "customer-orders",
	}, getOrdersWithAdvancedFilter)

	register(b, ToolInfo{
		Name:        "get_customer_orders_bulk",
		Description: "Fetch an explicit range of customer order pages (up to 10) without the recency default.",
		Category:    "customer-orders",
	}, getCustomerOrdersBulk)
}

type customerOrdersInput struct {
	Size           int    `json:"size,omitempty" validate:"omitempty,min=1,max=50"`
	Page           int    `json:"page,omitempty" validate:"omitempty,min=1"`
	Status         string `json:"status,omitempty"`
	CustomerNo     string `json:"customer_no,omitempty"`
	SearchTerm     string `json:"search_term,omitempty"`
	ItemNo         string `json:"item_no,omitempty"`
	SinceDate      string `json:"since_date,omitempty"`
	IncludeAllData bool   `json:"include_all_data,omitempty"`
	AutoPaginate   *bool  `json:"auto_paginate,omitempty"`
	FilterQuality  *bool  `json:"filter_quality,omitempty"`
}

func (in customerOrdersInput) query() orders.CustomerOrderQuery {
	return orders.CustomerOrderQuery{
		Size:          in.Size,
		Page:          in.Page,
		Status:        in.Status,
		CustomerNo:    in.CustomerNo,
		Search:        in.SearchTerm,
		ItemNo:        in.ItemNo,
		Since:         in.SinceDate,
		IncludeAll:    in.IncludeAllData,
		AutoPaginate:  boolDefault(in.AutoPaginate, true),
		FilterQuality: boolDefault(in.FilterQuality, true),
	}
}

func getCustomerOrders(ctx context.Context, deps *Deps, in customerOrdersInput) (string, error) {
	q := in.query()
	res, err := deps.Service.ListCustomerOrders(ctx, q)
	if err != nil {
		return fmt.Sprintf("Error retrieving customer orders: %v", err), nil
	}
	if len(res.Records) == 0 {
		return "No customer orders found matching the criteria.", nil
	}
	return renderCustomerList(deps, "CUSTOMER ORDERS", customerFilters(q), res)
}

type searchCustomerOrdersInput struct {
	SearchPattern string `json:"search_pattern" validate:"required"`
	Size          int    `json:"size,omitempty" validate:"omitempty,min=1,max=50"`
	Page          int    `json:"page,omitempty" validate:"omitempty,min=1"`
	Status        string `json:"status,omitempty"`
	FilterQuality *bool  `json:"filter_quality,omitempty"`
}

func searchCustomerOrders(ctx context.Context, deps *Deps, in searchCustomerOrdersInput) (string, error) {
	q := orders.CustomerOrderQuery{
		Size:          in.Size,
		Page:          in.Page,
		Status:        in.Status,
		FilterQuality: boolDefault(in.FilterQuality, true),
	}
	res, err := deps.Service.SearchCustomerOrders(ctx, in.SearchPattern, q)
	if err != nil {
		return fmt.Sprintf("Error searching customer orders: %v", err), nil
	}
	if len(res.Records) == 0 {
		return fmt.Sprintf("No customer orders found matching '%s'.", in.SearchPattern), nil
	}
	filters := []string{"Pattern: " + in.SearchPattern}
	if in.Status != "" {
		filters = append(filters, "Status: "+strings.ToUpper(in.Status))
	}
	if q.FilterQuality {
		filters = append(filters, "Quality filtered")
	}
	return renderCustomerList(deps, "CUSTOMER ORDER SEARCH", filters, res)
}

type customerOrdersByStatusInput struct {
	Status     string `json:"status" validate:"required"`
	Size       int    `json:"size,omitempty" validate:"omitempty,min=1,max=50"`
	Page       int    `json:"page,omitempty" validate:"omitempty,min=1"`
	CustomerNo string `json:"customer_no,omitempty"`
}

func getCustomerOrdersByStatus(ctx context.Context, deps *Deps, in customerOrdersByStatusInput) (string, error) {
	q := orders.CustomerOrderQuery{
		Size:          in.Size,
		Page:          in.Page,
		Status:        in.Status,
		CustomerNo:    in.CustomerNo,
		AutoPaginate:  true,
		FilterQuality: true,
	}
	res, err := deps.Service.ListCustomerOrders(ctx, q)
	if err != nil {
		return fmt.Sprintf("Error retrieving customer orders with status %s: %v", in.Status, err), nil
	}
	if len(res.Records) == 0 {
		return fmt.Sprintf("No customer orders found with status %s.", in.Status), nil
	}
	return renderCustomerList(deps, "CUSTOMER ORDERS BY STATUS", customerFilters(q), res)
}

type customerOrderDetailsInput struct {
	CustomerOrderNo string `json:"customer_order_no" validate:"required"`
}

func getCustomerOrderDetails(ctx context.Context, deps *Deps, in customerOrderDetailsInput) (string, error) {
	order, err := deps.Service.CustomerOrderDetails(ctx, in.CustomerOrderNo)
	if err != nil {
		if errors.Is(err, oseon.ErrNotFound) {
			return fmt.Sprintf("No customer order found with number: %s", in.CustomerOrderNo), nil
		}
		return fmt.Sprintf("Error retrieving customer order details: %v", err), nil
	}
	display := *order
	if deps.DemoMode {
		display = order.Sanitized()
	}
	return deps.Render.Render("order_detail.tmpl", render.OrderDetailData{Order: display})
}

type latestOrdersInput struct {
	CustomerNo string `json:"customer_no" validate:"required"`
	DaysBack   int    `json:"days_back,omitempty" validate:"omitempty,min=1"`
	MaxResults int    `json:"max_results,omitempty" validate:"omitempty,min=1,max=50"`
}

func getLatestOrdersForCustomer(ctx context.Context, deps *Deps, in latestOrdersInput) (string, error) {
	daysBack := in.DaysBack
	if daysBack <= 0 {
		daysBack = 90
	}
	res, err := deps.Service.LatestOrdersForCustomer(ctx, in.CustomerNo, daysBack, in.MaxResults)
	if err != nil {
		return fmt.Sprintf("Error retrieving latest orders for customer %s: %v", in.CustomerNo, err), nil
	}
	if len(res.Records) == 0 {
		return fmt.Sprintf("No orders found for customer %s in the last %d days.", in.CustomerNo, daysBack), nil
	}
	title := fmt.Sprintf("LATEST ORDERS FOR CUSTOMER %s (Last %d days)", in.CustomerNo, daysBack)
	return renderCustomerList(deps, title, nil, res)
}

type customerOverdueInput struct {
	CustomerNo  string `json:"customer_no" validate:"required"`
	DaysOverdue int    `json:"days_overdue,omitempty" validate:"omitempty,min=1"`
	MaxResults  int    `json:"max_results,omitempty" validate:"omitempty,min=1,max=50"`
}

func checkCustomerOrderOverdue(ctx context.Context, deps *Deps, in customerOverdueInput) (string, error) {
	daysOverdue := in.DaysOverdue
	if daysOverdue <= 0 {
		daysOverdue = 7
	}
	overdue, err := deps.Service.OverdueCustomerOrders(ctx, in.CustomerNo, daysOverdue, in.MaxResults)
	if err != nil {
		return fmt.Sprintf("Error checking overdue orders for customer %s: %v", in.CustomerNo, err), nil
	}
	if len(overdue) == 0 {
		return fmt.Sprintf("No overdue orders found for customer %s.", in.CustomerNo), nil
	}
	if deps.DemoMode {
		for i := range overdue {
			overdue[i].CustomerOrder = overdue[i].CustomerOrder.Sanitized()
		}
	}
	return deps.Render.Render("overdue_customer.tmpl", render.OverdueCustomerData{
		CustomerNo:  in.CustomerNo,
		DaysOverdue: daysOverdue,
		Orders:      overdue,
	})
}

type advancedFilterInput struct {
	DateFrom   string `json:"date_from,omitempty"`
	DateTo     string `json:"date_to,omitempty"`
	StatusList string `json:"status_list,omitempty"`
	CustomerNo string `json:"customer_no,omitempty"`
	MaxResults int    `json:"max_results,omitempty" validate:"omitempty,min=1,max=50"`
}

func getOrdersWithAdvancedFilter(ctx context.Context, deps *Deps, in advancedFilterInput) (string, error) {
	filtered, err := deps.Service.AdvancedCustomerOrders(ctx, orders.AdvancedFilter{
		DateFrom:   in.DateFrom,
		DateTo:     in.DateTo,
		StatusList: in.StatusList,
		CustomerNo: in.CustomerNo,
		MaxResults: in.MaxResults,
	})
	if err != nil {
		return fmt.Sprintf("Error with advanced filtering: %v", err), nil
	}
	if len(filtered) == 0 {
		return "No orders found matching the advanced filter criteria.", nil
	}

	var filters []string
	if in.DateFrom != "" {
		filters = append(filters, "From: "+in.DateFrom)
	}
	if in.DateTo != "" {
		filters = append(filters, "To: "+in.DateTo)
	}
	if in.StatusList != "" {
		filters = append(filters, "Status: "+in.StatusList)
	}
	if in.CustomerNo != "" {
		filters = append(filters, "Customer: "+in.CustomerNo)
	}

	res := orders.Result[orders.CustomerOrder]{
		Records:      filtered,
		TotalRecords: len(filtered),
		TotalPages:   1,
		PagesFetched: 1,
		StartPage:    1,
	}
	return renderCustomerList(deps, "ADVANCED FILTER RESULTS", filters, res)
}

type customerOrdersBulkInput struct {
	Size          int    `json:"size,omitempty" validate:"omitempty,min=1,max=50"`
	StartPage     int    `json:"start_page,omitempty" validate:"omitempty,min=1"`
	NumPages      int    `json:"num_pages,omitempty" validate:"omitempty,min=1,max=10"`
	Status        string `json:"status,omitempty"`
	CustomerNo    string `json:"customer_no,omitempty"`
	SearchTerm    string `json:"search_term,omitempty"`
	SinceDate     string `json:"since_date,omitempty"`
	FilterQuality bool   `json:"filter_quality,omitempty"`
}

func getCustomerOrdersBulk(ctx context.Context, deps *Deps, in customerOrdersBulkInput) (string, error) {
	res, err := deps.Service.BulkCustomerOrders(ctx, orders.BulkQuery{
		Size:          in.Size,
		StartPage:     in.StartPage,
		NumPages:      in.NumPages,
		Status:        in.Status,
		CustomerNo:    in.CustomerNo,
		Search:        in.SearchTerm,
		Since:         in.SinceDate,
		FilterQuality: in.FilterQuality,
	})
	if err != nil {
		return fmt.Sprintf("Error retrieving customer orders in bulk: %v", err), nil
	}
	if len(res.Records) == 0 {
		return fmt.Sprintf("No customer orders found starting from page %d.", max(in.StartPage, 1)), nil
	}
	title := fmt.Sprintf("CUSTOMER ORDERS BULK - %d orders from %s of %d total pages",
		len(res.Records), pageRange(res.StartPage, res.PagesFetched), res.TotalPages)
	return renderCustomerList(deps, title, nil, res)
}
