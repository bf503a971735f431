package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/blechwerk/oseon-mcp/internal/orders"
	"github.com/blechwerk/oseon-mcp/internal/render"
)

func registerProductionOrderTools(b *binder) {
	register(b, ToolInfo{
		Name:        "get_production_orders",
		Description: "List production orders, newest first. Defaults to the last 12 months, quality-filtered, auto-paginated up to 200 records.",
		Category:    "production-orders",
	}, getProductionOrders)

	register(b, ToolInfo{
		Name:        "search_production_orders",
		Description: "Search production orders by order number or external reference. Supports % wildcards, single page.",
		Category:    "production-orders",
	}, searchProductionOrders)

	register(b, ToolInfo{
		Name:        "get_production_orders_by_status",
		Description: "List production orders with a numeric status code (0 INVALID through 95 COMPLETED).",
		Category:    "production-orders",
	}, getProductionOrdersByStatus)

	register(b, ToolInfo{
		Name:        "get_released_production_orders",
		Description: "List production orders released to the shop floor (status 30).",
		Category:    "production-orders",
	}, getReleasedProductionOrders)

	register(b, ToolInfo{
		Name:        "get_in_progress_production_orders",
		Description: "List production orders currently being worked on (status 40).",
		Category:    "production-orders",
	}, getInProgressProductionOrders)

	register(b, ToolInfo{
		Name:        "get_finished_production_orders",
		Description: "List recently finished production orders (status 90).",
		Category:    "production-orders",
	}, getFinishedProductionOrders)

	register(b, ToolInfo{
		Name:        "check_production_order_overdue",
		Description: "Find production orders past their due date without a terminal status, most overdue first.",
		Category:    "production-orders",
	}, checkProductionOrderOverdue)

	register(b, ToolInfo{
		Name:        "get_production_orders_for_customer_order",
		Description: "List the production orders spawned by a customer order, matched on the exact back-reference.",
		Category:    "cross-reference",
	}, getProductionOrdersForCustomerOrder)

	register(b, ToolInfo{
		Name:        "get_customer_order_for_production_order",
		Description: "Resolve the customer order behind a production order, including the customer and order value.",
		Category:    "cross-reference",
	}, getCustomerOrderForProductionOrder)
}

type productionOrdersInput struct {
	Size           int    `json:"size,omitempty" validate:"omitempty,min=1,max=50"`
	Page           int    `json:"page,omitempty" validate:"omitempty,min=1"`
	Status         *int   `json:"status,omitempty" validate:"omitempty,min=0,max=95"`
	SearchTerm     string `json:"search_term,omitempty"`
	SinceDate      string `json:"since_date,omitempty"`
	SinceDays      int    `json:"since_days,omitempty" validate:"omitempty,min=1"`
	IncludeAllData bool   `json:"include_all_data,omitempty"`
	AutoPaginate   *bool  `json:"auto_paginate,omitempty"`
	FilterQuality  *bool  `json:"filter_quality,omitempty"`
}

func (in productionOrdersInput) query() orders.ProductionOrderQuery {
	return orders.ProductionOrderQuery{
		Size:          in.Size,
		Page:          in.Page,
		Status:        in.Status,
		Search:        in.SearchTerm,
		Since:         in.SinceDate,
		SinceDays:     in.SinceDays,
		IncludeAll:    in.IncludeAllData,
		AutoPaginate:  boolDefault(in.AutoPaginate, true),
		FilterQuality: boolDefault(in.FilterQuality, true),
	}
}

func getProductionOrders(ctx context.Context, deps *Deps, in productionOrdersInput) (string, error) {
	q := in.query()
	res, err := deps.Service.ListProductionOrders(ctx, q)
	if err != nil {
		return fmt.Sprintf("Error retrieving production orders: %v", err), nil
	}
	if len(res.Records) == 0 {
		return "No production orders found matching the criteria.", nil
	}
	return renderProductionList(deps, "PRODUCTION ORDERS", productionFilters(q), res)
}

type searchProductionOrdersInput struct {
	SearchPattern string `json:"search_pattern" validate:"required"`
	Size          int    `json:"size,omitempty" validate:"omitempty,min=1,max=50"`
	Page          int    `json:"page,omitempty" validate:"omitempty,min=1"`
	Status        *int   `json:"status,omitempty" validate:"omitempty,min=0,max=95"`
	FilterQuality *bool  `json:"filter_quality,omitempty"`
}

func searchProductionOrders(ctx context.Context, deps *Deps, in searchProductionOrdersInput) (string, error) {
	q := orders.ProductionOrderQuery{
		Size:          in.Size,
		Page:          in.Page,
		Status:        in.Status,
		FilterQuality: boolDefault(in.FilterQuality, true),
	}
	res, err := deps.Service.SearchProductionOrders(ctx, in.SearchPattern, q)
	if err != nil {
		return fmt.Sprintf("Error searching production orders: %v", err), nil
	}
	if len(res.Records) == 0 {
		return fmt.Sprintf("No production orders found matching '%s'.", in.SearchPattern), nil
	}
	filters := []string{"Pattern: " + in.SearchPattern}
	if in.Status != nil {
		filters = append(filters, fmt.Sprintf("Status: %d (%s)", *in.Status, orders.ProductionStatusLabel(*in.Status)))
	}
	if q.FilterQuality {
		filters = append(filters, "Quality filtered")
	}
	return renderProductionList(deps, "PRODUCTION ORDER SEARCH", filters, res)
}

type productionOrdersByStatusInput struct {
	Status    int `json:"status" validate:"min=0,max=95"`
	Size      int `json:"size,omitempty" validate:"omitempty,min=1,max=50"`
	Page      int `json:"page,omitempty" validate:"omitempty,min=1"`
	SinceDays int `json:"since_days,omitempty" validate:"omitempty,min=1"`
}

func getProductionOrdersByStatus(ctx context.Context, deps *Deps, in productionOrdersByStatusInput) (string, error) {
	status := in.Status
	q := orders.ProductionOrderQuery{
		Size:          in.Size,
		Page:          in.Page,
		Status:        &status,
		SinceDays:     in.SinceDays,
		AutoPaginate:  true,
		FilterQuality: true,
	}
	res, err := deps.Service.ListProductionOrders(ctx, q)
	if err != nil {
		return fmt.Sprintf("Error retrieving production orders with status %d: %v", status, err), nil
	}
	if len(res.Records) == 0 {
		return fmt.Sprintf("No production orders found with status %d (%s).", status, orders.ProductionStatusLabel(status)), nil
	}
	title := fmt.Sprintf("PRODUCTION ORDERS - STATUS %d (%s)", status, orders.ProductionStatusLabel(status))
	return renderProductionList(deps, title, productionFilters(q), res)
}

type productionStageInput struct {
	Size      int `json:"size,omitempty" validate:"omitempty,min=1,max=50"`
	Page      int `json:"page,omitempty" validate:"omitempty,min=1"`
	SinceDays int `json:"since_days,omitempty" validate:"omitempty,min=1"`
}

func (in productionStageInput) query() orders.ProductionOrderQuery {
	return orders.ProductionOrderQuery{
		Size:          in.Size,
		Page:          in.Page,
		SinceDays:     in.SinceDays,
		AutoPaginate:  true,
		FilterQuality: true,
	}
}

func getReleasedProductionOrders(ctx context.Context, deps *Deps, in productionStageInput) (string, error) {
	res, err := deps.Service.ReleasedProductionOrders(ctx, in.query())
	if err != nil {
		return fmt.Sprintf("Error retrieving released production orders: %v", err), nil
	}
	if len(res.Records) == 0 {
		return "No released production orders found.", nil
	}
	return renderProductionList(deps, "RELEASED PRODUCTION ORDERS", nil, res)
}

func getInProgressProductionOrders(ctx context.Context, deps *Deps, in productionStageInput) (string, error) {
	res, err := deps.Service.InProgressProductionOrders(ctx, in.query())
	if err != nil {
		return fmt.Sprintf("Error retrieving in-progress production orders: %v", err), nil
	}
	if len(res.Records) == 0 {
		return "No production orders currently in progress.", nil
	}
	return renderProductionList(deps, "PRODUCTION ORDERS IN PROGRESS", nil, res)
}

func getFinishedProductionOrders(ctx context.Context, deps *Deps, in productionStageInput) (string, error) {
	res, err := deps.Service.FinishedProductionOrders(ctx, in.query())
	if err != nil {
		return fmt.Sprintf("Error retrieving finished production orders: %v", err), nil
	}
	if len(res.Records) == 0 {
		return "No finished production orders found.", nil
	}
	return renderProductionList(deps, "FINISHED PRODUCTION ORDERS", nil, res)
}

type productionOverdueInput struct {
	SearchTerm  string `json:"search_term,omitempty"`
	DaysOverdue int    `json:"days_overdue,omitempty" validate:"omitempty,min=1"`
	MaxResults  int    `json:"max_results,omitempty" validate:"omitempty,min=1,max=50"`
}

func checkProductionOrderOverdue(ctx context.Context, deps *Deps, in productionOverdueInput) (string, error) {
	searchTerm := in.SearchTerm
	if searchTerm == "" {
		searchTerm = "%"
	}
	daysOverdue := in.DaysOverdue
	if daysOverdue <= 0 {
		daysOverdue = 1
	}
	overdue, err := deps.Service.OverdueProductionOrders(ctx, searchTerm, daysOverdue, in.MaxResults)
	if err != nil {
		return fmt.Sprintf("Error checking overdue production orders: %v", err), nil
	}
	if len(overdue) == 0 {
		return fmt.Sprintf("No overdue production orders found (threshold: %d days).", daysOverdue), nil
	}
	if deps.DemoMode {
		for i := range overdue {
			overdue[i].ProductionOrder = overdue[i].ProductionOrder.Sanitized()
		}
	}
	return deps.Render.Render("overdue_production.tmpl", render.OverdueProductionData{
		SearchTerm: searchTerm,
		Orders:     overdue,
	})
}

type ordersForCustomerOrderInput struct {
	CustomerOrderNo string `json:"customer_order_no" validate:"required"`
	Size            int    `json:"size,omitempty" validate:"omitempty,min=1,max=50"`
}

func getProductionOrdersForCustomerOrder(ctx context.Context, deps *Deps, in ordersForCustomerOrderInput) (string, error) {
	related, err := deps.Service.ProductionOrdersForCustomerOrder(ctx, in.CustomerOrderNo, in.Size)
	if err != nil {
		return fmt.Sprintf("Error retrieving production orders for customer order %s: %v", in.CustomerOrderNo, err), nil
	}
	if len(related) == 0 {
		return fmt.Sprintf("No production orders found for customer order %s.", in.CustomerOrderNo), nil
	}
	res := orders.Result[orders.ProductionOrder]{
		Records:      related,
		TotalRecords: len(related),
		TotalPages:   1,
		PagesFetched: 1,
		StartPage:    1,
	}
	title := fmt.Sprintf("PRODUCTION ORDERS FOR CUSTOMER ORDER %s", in.CustomerOrderNo)
	return renderProductionList(deps, title, nil, res)
}

type orderForProductionOrderInput struct {
	ProductionOrderNo string `json:"production_order_no" validate:"required"`
}

func getCustomerOrderForProductionOrder(ctx context.Context, deps *Deps, in orderForProductionOrderInput) (string, error) {
	link, err := deps.Service.CustomerOrderForProductionOrder(ctx, in.ProductionOrderNo)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrProductionOrderNotFound):
			return fmt.Sprintf("No production order found with number: %s", in.ProductionOrderNo), nil
		case errors.Is(err, orders.ErrNoLinkedCustomerOrder):
			return fmt.Sprintf("Production order %s has no linked customer order.", in.ProductionOrderNo), nil
		case errors.Is(err, orders.ErrCustomerOrderNotFound):
			return fmt.Sprintf("Customer order referenced by production order %s was not found.", in.ProductionOrderNo), nil
		}
		return fmt.Sprintf("Error resolving customer order for production order %s: %v", in.ProductionOrderNo, err), nil
	}
	display := *link
	if deps.DemoMode {
		display.ProductionOrder = display.ProductionOrder.Sanitized()
		display.CustomerOrder = display.CustomerOrder.Sanitized()
	}
	return deps.Render.Render("order_link.tmpl", render.OrderLinkData{Link: display})
}
