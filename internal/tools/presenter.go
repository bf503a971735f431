package tools

import (
	"fmt"
	"strings"

	"github.com/blechwerk/oseon-mcp/internal/orders"
	"github.com/blechwerk/oseon-mcp/internal/render"
)

func renderCustomerList(deps *Deps, title string, filters []string, res orders.Result[orders.CustomerOrder]) (string, error) {
	list := res.Records
	if deps.DemoMode {
		list = make([]orders.CustomerOrder, len(res.Records))
		for i, order := range res.Records {
			list[i] = order.Sanitized()
		}
	}
	return deps.Render.Render("customer_order_list.tmpl", render.CustomerOrderListData{
		Title:    title,
		Filters:  strings.Join(filters, " | "),
		PageInfo: pageInfoFor(res.StartPage, res.PagesFetched, len(list), res.TotalRecords),
		Orders:   list,
		NextHint: nextHintFor(res.StartPage, res.PagesFetched, res.TotalPages),
	})
}

func renderProductionList(deps *Deps, title string, filters []string, res orders.Result[orders.ProductionOrder]) (string, error) {
	list := res.Records
	if deps.DemoMode {
		list = make([]orders.ProductionOrder, len(res.Records))
		for i, order := range res.Records {
			list[i] = order.Sanitized()
		}
	}
	return deps.Render.Render("production_order_list.tmpl", render.ProductionOrderListData{
		Title:    title,
		Filters:  strings.Join(filters, " | "),
		PageInfo: pageInfoFor(res.StartPage, res.PagesFetched, len(list), res.TotalRecords),
		Orders:   list,
		NextHint: nextHintFor(res.StartPage, res.PagesFetched, res.TotalPages),
	})
}

func pageInfoFor(startPage, pagesFetched, shown, total int) string {
	if pagesFetched > 1 {
		return fmt.Sprintf("Pages %s: %d records shown of %d total", pageRange(startPage, pagesFetched), shown, total)
	}
	return fmt.Sprintf("Page %d: %d records shown of %d total", startPage, shown, total)
}

func nextHintFor(startPage, pagesFetched, totalPages int) string {
	endPage := startPage + pagesFetched - 1
	if totalPages <= endPage {
		return ""
	}
	return fmt.Sprintf("More results available: use page=%d to continue (%d pages total).", endPage+1, totalPages)
}

func pageRange(startPage, pagesFetched int) string {
	if startPage <= 0 {
		startPage = 1
	}
	if pagesFetched <= 1 {
		return fmt.Sprintf("page %d", startPage)
	}
	return fmt.Sprintf("pages %d-%d", startPage, startPage+pagesFetched-1)
}

func customerFilters(q orders.CustomerOrderQuery) []string {
	var filters []string
	switch {
	case q.IncludeAll:
		filters = append(filters, "All history")
	case q.Since != "":
		filters = append(filters, "Since: "+q.Since)
	default:
		filters = append(filters, "Recent (12 months)")
	}
	if q.Status != "" {
		filters = append(filters, "Status: "+strings.ToUpper(q.Status))
	}
	if q.CustomerNo != "" {
		filters = append(filters, "Customer: "+q.CustomerNo)
	}
	if q.Search != "" {
		filters = append(filters, "Search: "+q.Search)
	}
	if q.ItemNo != "" {
		filters = append(filters, "Item: "+q.ItemNo)
	}
	if q.FilterQuality {
		filters = append(filters, "Quality filtered")
	}
	return filters
}

func productionFilters(q orders.ProductionOrderQuery) []string {
	var filters []string
	switch {
	case q.IncludeAll:
		filters = append(filters, "All history")
	case q.Since != "":
		filters = append(filters, "Since: "+q.Since)
	case q.SinceDays > 0:
		filters = append(filters, fmt.Sprintf("Last %d days", q.SinceDays))
	default:
		filters = append(filters, "Recent (12 months)")
	}
	if q.Status != nil {
		filters = append(filters, fmt.Sprintf("Status: %d (%s)", *q.Status, orders.ProductionStatusLabel(*q.Status)))
	}
	if q.Search != "" {
		filters = append(filters, "Search: "+q.Search)
	}
	if q.FilterQuality {
		filters = append(filters, "Quality filtered")
	}
	return filters
}
