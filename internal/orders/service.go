package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/blechwerk/oseon-mcp/internal/oseon"
)

// Page budgets. The auto-paginate default keeps latency bounded at four
// pages (200 records at the hard size cap); explicit bulk calls may go
// deeper but never unbounded.
const (
	autoPaginatePages = 4
	maxBulkPages      = 10
	defaultBulkPages  = 3
)

var (
	ErrProductionOrderNotFound = errors.New("production order not found")
	ErrCustomerOrderNotFound   = errors.New("customer order not found")
	ErrNoLinkedCustomerOrder   = errors.New("no customer order linked to production order")
)

// Statuses under which a late delivery date no longer counts as a
// delivery issue.
var customerTerminalStatuses = []string{"COMPLETED", "INVOICED", "DELIVERED", "FINISHED", "CLOSED"}

// Service composes the parameter builder, the bounded fetcher and the
// quality classifier into the public query operations. All methods
// return structured results; rendering is the caller's concern.
type Service struct {
	rq     Requester
	logger *slog.Logger
	now    func() time.Time
}

func NewService(rq Requester, logger *slog.Logger) *Service {
	return &Service{rq: rq, logger: logger, now: time.Now}
}

// CustomerOrderQuery is the caller-facing query for customer order lists.
// Zero values mean defaults: size 50, page 1.
type CustomerOrderQuery struct {
	Size          int
	Page          int
	Status        string
	CustomerNo    string
	Search        string
	ItemNo        string
	Since         string
	IncludeAll    bool
	AutoPaginate  bool
	FilterQuality bool
}

func (q CustomerOrderQuery) normalized() CustomerOrderQuery {
	if q.Size <= 0 {
		q.Size = maxPageSize
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return q
}

// ProductionOrderQuery mirrors CustomerOrderQuery for the production
// endpoint. Status is the integer code domain; SinceDays, when positive,
// takes precedence over the rolling default window.
type ProductionOrderQuery struct {
	Size          int
	Page          int
	Status        *int
	Search        string
	Since         string
	SinceDays     int
	IncludeAll    bool
	AutoPaginate  bool
	FilterQuality bool
}

func (q ProductionOrderQuery) normalized(now time.Time) ProductionOrderQuery {
	if q.Size <= 0 {
		q.Size = maxPageSize
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Since == "" && q.SinceDays > 0 {
		q.Since = SinceDays(now, q.SinceDays)
	}
	return q
}

func recencyFor(since string, includeAll bool) RecencyMode {
	switch {
	case includeAll:
		return AllHistory
	case since != "":
		return ExplicitSince
	default:
		return AutoRecent
	}
}

// ListCustomerOrders returns recent, quality-filtered customer orders,
// newest first. With AutoPaginate set and Page == 1 up to four pages are
// fetched.
func (s *Service) ListCustomerOrders(ctx context.Context, q CustomerOrderQuery) (Result[CustomerOrder], error) {
	q = q.normalized()
	now := s.now()

	maxPages := 1
	if q.AutoPaginate && q.Page == 1 {
		maxPages = autoPaginatePages
	}

	spec := Spec{
		Size:        q.Size,
		Recency:     recencyFor(q.Since, q.IncludeAll),
		Since:       q.Since,
		SalesStatus: q.Status,
		Search:      q.Search,
		CustomerNo:  q.CustomerNo,
		ItemNo:      q.ItemNo,
	}

	return fetchBounded[CustomerOrder](ctx, s.rq, boundedQuery{
		endpoint:      oseon.EndpointCustomerOrders,
		startPage:     q.Page,
		size:          q.Size,
		maxPages:      maxPages,
		filterQuality: q.FilterQuality,
		params: func(page int) map[string]string {
			sp := spec
			sp.Page = page
			return BuildParams(sp, now)
		},
	})
}

// SearchCustomerOrders is a single-page search; the pattern is passed
// through to the backend verbatim, % wildcards included.
func (s *Service) SearchCustomerOrders(ctx context.Context, pattern string, q CustomerOrderQuery) (Result[CustomerOrder], error) {
	q.Search = pattern
	q.AutoPaginate = false
	return s.ListCustomerOrders(ctx, q)
}

// ListProductionOrders is the production-endpoint twin of
// ListCustomerOrders, with integer status codes.
func (s *Service) ListProductionOrders(ctx context.Context, q ProductionOrderQuery) (Result[ProductionOrder], error) {
	now := s.now()
	q = q.normalized(now)

	maxPages := 1
	if q.AutoPaginate && q.Page == 1 {
		maxPages = autoPaginatePages
	}

	spec := Spec{
		Size:             q.Size,
		Recency:          recencyFor(q.Since, q.IncludeAll),
		Since:            q.Since,
		ProductionStatus: q.Status,
		Search:           q.Search,
	}

	return fetchBounded[ProductionOrder](ctx, s.rq, boundedQuery{
		endpoint:      oseon.EndpointProductionOrders,
		startPage:     q.Page,
		size:          q.Size,
		maxPages:      maxPages,
		filterQuality: q.FilterQuality,
		params: func(page int) map[string]string {
			sp := spec
			sp.Page = page
			return BuildParams(sp, now)
		},
	})
}

// SearchProductionOrders is a single-page production order search.
func (s *Service) SearchProductionOrders(ctx context.Context, pattern string, q ProductionOrderQuery) (Result[ProductionOrder], error) {
	q.Search = pattern
	q.AutoPaginate = false
	return s.ListProductionOrders(ctx, q)
}

func (s *Service) productionOrdersWithStatus(ctx context.Context, q ProductionOrderQuery, status int) (Result[ProductionOrder], error) {
	q.Status = &status
	return s.ListProductionOrders(ctx, q)
}

// ReleasedProductionOrders lists orders ready to start (status 30).
func (s *Service) ReleasedProductionOrders(ctx context.Context, q ProductionOrderQuery) (Result[ProductionOrder], error) {
	return s.productionOrdersWithStatus(ctx, q, StatusCodeReleased)
}

// InProgressProductionOrders lists started orders (status 40).
func (s *Service) InProgressProductionOrders(ctx context.Context, q ProductionOrderQuery) (Result[ProductionOrder], error) {
	return s.productionOrdersWithStatus(ctx, q, StatusCodeStarted)
}

// FinishedProductionOrders lists finished orders (status 90).
func (s *Service) FinishedProductionOrders(ctx context.Context, q ProductionOrderQuery) (Result[ProductionOrder], error) {
	return s.productionOrdersWithStatus(ctx, q, StatusCodeFinished)
}

// CustomerOrderDetails fetches one order by exact number. No pagination
// and no quality filter: whoever asks for a record by number gets it.
func (s *Service) CustomerOrderDetails(ctx context.Context, orderNo string) (*CustomerOrder, error) {
	body, err := s.rq.Request(ctx, oseon.CustomerOrderDetailsEndpoint(orderNo), nil)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderNo, err)
	}
	var order CustomerOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("decode order %s: %w", orderNo, err)
	}
	return &order, nil
}

// ProductionOrdersForCustomerOrder finds the production orders spawned
// by a sales order. The backend search is wildcard-only, so the result
// is narrowed to exact back-reference matches client-side.
func (s *Service) ProductionOrdersForCustomerOrder(ctx context.Context, customerOrderNo string, size int) ([]ProductionOrder, error) {
	if size <= 0 {
		size = maxPageSize
	}
	params := BuildParams(Spec{
		Size:   size,
		Page:   1,
		Search: customerOrderNo + "%",
		Legacy: true,
	}, s.now())

	body, err := s.rq.Request(ctx, oseon.EndpointProductionOrders, params)
	if err != nil {
		return nil, fmt.Errorf("search production orders for %s: %w", customerOrderNo, err)
	}
	env, err := decodeEnvelope[ProductionOrder](body)
	if err != nil {
		return nil, fmt.Errorf("decode production orders for %s: %w", customerOrderNo, err)
	}

	var related []ProductionOrder
	for _, order := range env.Collection {
		if order.CustomerOrderNo == customerOrderNo {
			related = append(related, order)
		}
	}
	return related, nil
}

// OrderLink pairs a production order with its originating sales order.
type OrderLink struct {
	ProductionOrder ProductionOrder
	CustomerOrder   CustomerOrder
}

// CustomerOrderForProductionOrder resolves the sales order behind a
// production order. Both hops search then enforce an exact match,
// because the backend only matches substrings.
func (s *Service) CustomerOrderForProductionOrder(ctx context.Context, productionOrderNo string) (*OrderLink, error) {
	now := s.now()
	params := BuildParams(Spec{Size: 10, Page: 1, Search: productionOrderNo, Legacy: true}, now)

	body, err := s.rq.Request(ctx, oseon.EndpointProductionOrders, params)
	if err != nil {
		return nil, fmt.Errorf("search production order %s: %w", productionOrderNo, err)
	}
	env, err := decodeEnvelope[ProductionOrder](body)
	if err != nil {
		return nil, fmt.Errorf("decode production order %s: %w", productionOrderNo, err)
	}

	var production *ProductionOrder
	for i := range env.Collection {
		if env.Collection[i].OrderNo == productionOrderNo {
			production = &env.Collection[i]
			break
		}
	}
	if production == nil {
		return nil, fmt.Errorf("%w: %s", ErrProductionOrderNotFound, productionOrderNo)
	}
	if production.CustomerOrderNo == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoLinkedCustomerOrder, productionOrderNo)
	}

	customerParams := BuildParams(Spec{Size: 10, Page: 1, Search: production.CustomerOrderNo, Legacy: true}, now)
	body, err = s.rq.Request(ctx, oseon.EndpointCustomerOrders, customerParams)
	if err != nil {
		return nil, fmt.Errorf("search customer order %s: %w", production.CustomerOrderNo, err)
	}
	customerEnv, err := decodeEnvelope[CustomerOrder](body)
	if err != nil {
		return nil, fmt.Errorf("decode customer order %s: %w", production.CustomerOrderNo, err)
	}

	for _, order := range customerEnv.Collection {
		if order.CustomerOrderNo == production.CustomerOrderNo {
			return &OrderLink{ProductionOrder: *production, CustomerOrder: order}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCustomerOrderNotFound, production.CustomerOrderNo)
}

// OverdueProductionOrder carries the overdue classification alongside
// the record.
type OverdueProductionOrder struct {
	ProductionOrder
	DaysOverdue int
	Urgency     string
}

// OverdueProductionOrders fetches a bounded candidate set by search term
// and classifies overdue orders client-side, most overdue first.
func (s *Service) OverdueProductionOrders(ctx context.Context, searchTerm string, daysOverdue, maxResults int) ([]OverdueProductionOrder, error) {
	if maxResults <= 0 {
		maxResults = maxPageSize
	}
	now := s.now()
	params := BuildParams(Spec{Size: maxResults, Page: 1, Search: searchTerm, Legacy: true}, now)

	body, err := s.rq.Request(ctx, oseon.EndpointProductionOrders, params)
	if err != nil {
		return nil, fmt.Errorf("search production orders %q: %w", searchTerm, err)
	}
	env, err := decodeEnvelope[ProductionOrder](body)
	if err != nil {
		return nil, fmt.Errorf("decode production orders %q: %w", searchTerm, err)
	}

	var overdue []OverdueProductionOrder
	for _, order := range env.Collection {
		if order.DueDate == "" || !isOverdueAt(order.DueDate, strconv.Itoa(order.Status), now) {
			continue
		}
		days := DaysOverdue(order.DueDate, now)
		if days < daysOverdue {
			continue
		}
		overdue = append(overdue, OverdueProductionOrder{
			ProductionOrder: order,
			DaysOverdue:     days,
			Urgency:         urgencyFor(days),
		})
	}

	sort.Slice(overdue, func(i, j int) bool { return overdue[i].DaysOverdue > overdue[j].DaysOverdue })
	if len(overdue) > maxResults {
		overdue = overdue[:maxResults]
	}
	return overdue, nil
}

func urgencyFor(daysOverdue int) string {
	switch {
	case daysOverdue > 7:
		return "CRITICAL"
	case daysOverdue > 3:
		return "URGENT"
	default:
		return "OVERDUE"
	}
}

// OverdueCustomerOrder is a customer order whose planned delivery date
// has passed without a terminal status.
type OverdueCustomerOrder struct {
	CustomerOrder
	DaysOverdue int
}

// OverdueCustomerOrders checks a customer's orders for late deliveries.
// Lateness is judged on the delivery date, not the due date.
func (s *Service) OverdueCustomerOrders(ctx context.Context, customerNo string, daysOverdue, maxResults int) ([]OverdueCustomerOrder, error) {
	if maxResults <= 0 {
		maxResults = maxPageSize
	}
	now := s.now()
	params := BuildParams(Spec{Size: maxResults, Page: 1, CustomerNo: customerNo, Legacy: true}, now)

	body, err := s.rq.Request(ctx, oseon.EndpointCustomerOrders, params)
	if err != nil {
		return nil, fmt.Errorf("fetch orders for customer %s: %w", customerNo, err)
	}
	env, err := decodeEnvelope[CustomerOrder](body)
	if err != nil {
		return nil, fmt.Errorf("decode orders for customer %s: %w", customerNo, err)
	}

	var overdue []OverdueCustomerOrder
	for _, order := range env.Collection {
		if order.DeliveryDate == "" || isCustomerTerminal(order.Status) {
			continue
		}
		delivery, ok := parseOrderDate(order.DeliveryDate)
		if !ok || !delivery.Before(now) {
			continue
		}
		days := int(now.Sub(delivery).Hours() / 24)
		if days < daysOverdue {
			continue
		}
		overdue = append(overdue, OverdueCustomerOrder{CustomerOrder: order, DaysOverdue: days})
	}
	return overdue, nil
}

func isCustomerTerminal(status string) bool {
	for _, terminal := range customerTerminalStatuses {
		if status == terminal {
			return true
		}
	}
	return false
}

// LatestOrdersForCustomer returns a customer's orders from the last
// daysBack days, newest first, in a single page.
func (s *Service) LatestOrdersForCustomer(ctx context.Context, customerNo string, daysBack, maxResults int) (Result[CustomerOrder], error) {
	if daysBack <= 0 {
		daysBack = 90
	}
	return s.ListCustomerOrders(ctx, CustomerOrderQuery{
		Size:       maxResults,
		CustomerNo: customerNo,
		Since:      SinceDays(s.now(), daysBack),
	})
}

// AdvancedFilter narrows customer orders by a date range and a status
// list. The backend only supports the lower date bound and the customer
// number; the rest is filtered client-side.
type AdvancedFilter struct {
	DateFrom   string
	DateTo     string
	StatusList string // comma-separated
	CustomerNo string
	MaxResults int
}

// AdvancedCustomerOrders applies an AdvancedFilter.
func (s *Service) AdvancedCustomerOrders(ctx context.Context, f AdvancedFilter) ([]CustomerOrder, error) {
	size := f.MaxResults
	if size <= 0 {
		size = maxPageSize
	}
	params := BuildParams(Spec{
		Size:       size,
		Page:       1,
		Recency:    ExplicitSince,
		Since:      f.DateFrom,
		CustomerNo: f.CustomerNo,
		Legacy:     true,
	}, s.now())

	body, err := s.rq.Request(ctx, oseon.EndpointCustomerOrders, params)
	if err != nil {
		return nil, fmt.Errorf("advanced filter: %w", err)
	}
	env, err := decodeEnvelope[CustomerOrder](body)
	if err != nil {
		return nil, fmt.Errorf("advanced filter decode: %w", err)
	}

	var allowed []string
	if f.StatusList != "" {
		for _, status := range strings.Split(f.StatusList, ",") {
			allowed = append(allowed, strings.ToUpper(strings.TrimSpace(status)))
		}
	}

	var filtered []CustomerOrder
	for _, order := range env.Collection {
		if f.DateTo != "" {
			reference := order.ModificationDate
			if reference == "" {
				reference = order.OrderDate
			}
			if orderTime, ok := parseOrderDate(reference); ok {
				if to, ok := parseOrderDate(f.DateTo); ok && orderTime.After(to) {
					continue
				}
			}
		}
		if len(allowed) > 0 && !containsStatus(allowed, order.Status) {
			continue
		}
		filtered = append(filtered, order)
	}
	return filtered, nil
}

func containsStatus(allowed []string, status string) bool {
	status = strings.ToUpper(status)
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}

// BulkQuery addresses an explicit page range: startPage through
// startPage+numPages-1 with no automatic recency window.
type BulkQuery struct {
	Size          int
	StartPage     int
	NumPages      int
	Status        string // customer orders
	Production    *int   // production orders
	CustomerNo    string
	Search        string
	Since         string
	FilterQuality bool
}

func (q BulkQuery) normalized() BulkQuery {
	if q.Size <= 0 {
		q.Size = maxPageSize
	}
	if q.StartPage <= 0 {
		q.StartPage = 1
	}
	if q.NumPages <= 0 {
		q.NumPages = defaultBulkPages
	}
	if q.NumPages > maxBulkPages {
		q.NumPages = maxBulkPages
	}
	return q
}

// BulkCustomerOrders fetches an explicit range of customer order pages.
func (s *Service) BulkCustomerOrders(ctx context.Context, q BulkQuery) (Result[CustomerOrder], error) {
	q = q.normalized()
	now := s.now()
	spec := Spec{
		Size:        q.Size,
		Recency:     ExplicitSince,
		Since:       q.Since,
		SalesStatus: q.Status,
		CustomerNo:  q.CustomerNo,
		Search:      q.Search,
		Legacy:      true,
	}
	return fetchBounded[CustomerOrder](ctx, s.rq, boundedQuery{
		endpoint:      oseon.EndpointCustomerOrders,
		startPage:     q.StartPage,
		size:          q.Size,
		maxPages:      q.NumPages,
		filterQuality: q.FilterQuality,
		params: func(page int) map[string]string {
			sp := spec
			sp.Page = page
			return BuildParams(sp, now)
		},
	})
}

// BulkProductionOrders fetches an explicit range of production order pages.
func (s *Service) BulkProductionOrders(ctx context.Context, q BulkQuery) (Result[ProductionOrder], error) {
	q = q.normalized()
	now := s.now()
	spec := Spec{
		Size:             q.Size,
		Recency:          ExplicitSince,
		Since:            q.Since,
		ProductionStatus: q.Production,
		Search:           q.Search,
		Legacy:           true,
	}
	return fetchBounded[ProductionOrder](ctx, s.rq, boundedQuery{
		endpoint:      oseon.EndpointProductionOrders,
		startPage:     q.StartPage,
		size:          q.Size,
		maxPages:      q.NumPages,
		filterQuality: q.FilterQuality,
		params: func(page int) map[string]string {
			sp := spec
			sp.Page = page
			return BuildParams(sp, now)
		},
	})
}

// DashboardSection is one counted bucket of a dashboard. A failed
// sub-query leaves Err set; the other sections are unaffected.
type DashboardSection struct {
	Name      string
	Timeframe string
	Detail    string
	Count     int
	Err       error
}

// Dashboard is the structured summary the renderers turn into text.
type Dashboard struct {
	Title       string
	GeneratedAt time.Time
	Sections    []DashboardSection
}

const dashboardSectionLimit = 25

// ProductionDashboard answers "how's production?" with four fixed
// sub-queries. Counts come from structured results, never from parsing
// rendered text.
func (s *Service) ProductionDashboard(ctx context.Context) Dashboard {
	dash := Dashboard{Title: "PRODUCTION DASHBOARD", GeneratedAt: s.now()}

	active, err := s.InProgressProductionOrders(ctx, ProductionOrderQuery{
		Size: dashboardSectionLimit, SinceDays: 7, FilterQuality: true,
	})
	dash.Sections = append(dash.Sections, s.dashboardSection(
		"Active Production", "7 days", "orders currently in progress (last 7 days)", len(active.Records), err))

	pipeline, err := s.ReleasedProductionOrders(ctx, ProductionOrderQuery{
		Size: dashboardSectionLimit, SinceDays: 14, FilterQuality: true,
	})
	dash.Sections = append(dash.Sections, s.dashboardSection(
		"Production Pipeline", "14 days", "orders ready to start production (last 14 days)", len(pipeline.Records), err))

	completed, err := s.FinishedProductionOrders(ctx, ProductionOrderQuery{
		Size: dashboardSectionLimit, SinceDays: 3, FilterQuality: true,
	})
	dash.Sections = append(dash.Sections, s.dashboardSection(
		"Recent Completions", "3 days", "orders completed (last 3 days)", len(completed.Records), err))

	overdue, err := s.OverdueProductionOrders(ctx, "%", 1, dashboardSectionLimit)
	dash.Sections = append(dash.Sections, s.dashboardSection(
		"Production Issues", "1+ days overdue", "orders overdue by 1+ days", len(overdue), err))

	return dash
}

// SalesDashboard answers "how's sales?" with four fixed sub-queries.
func (s *Service) SalesDashboard(ctx context.Context) Dashboard {
	dash := Dashboard{Title: "SALES DASHBOARD", GeneratedAt: s.now()}
	now := s.now()

	fresh, err := s.ListCustomerOrders(ctx, CustomerOrderQuery{
		Size: dashboardSectionLimit, Since: SinceDays(now, 7), FilterQuality: true,
	})
	dash.Sections = append(dash.Sections, s.dashboardSection(
		"New Business", "7 days", "customer orders received (last 7 days)", len(fresh.Records), err))

	released, err := s.ListCustomerOrders(ctx, CustomerOrderQuery{
		Size: dashboardSectionLimit, Status: "RELEASED", FilterQuality: true,
	})
	dash.Sections = append(dash.Sections, s.dashboardSection(
		"Ready for Production", "current", "orders released to manufacturing", len(released.Records), err))

	overdue, err := s.OverdueCustomerOrders(ctx, "%", 1, dashboardSectionLimit)
	dash.Sections = append(dash.Sections, s.dashboardSection(
		"Delivery Issues", "1+ days overdue", "customer orders overdue by 1+ days", len(overdue), err))

	modified, err := s.ListCustomerOrders(ctx, CustomerOrderQuery{
		Size: dashboardSectionLimit, Since: SinceDays(now, 3), FilterQuality: true,
	})
	dash.Sections = append(dash.Sections, s.dashboardSection(
		"Recent Changes", "3 days", "orders modified (last 3 days)", len(modified.Records), err))

	return dash
}

func (s *Service) dashboardSection(name, timeframe, detail string, count int, err error) DashboardSection {
	section := DashboardSection{Name: name, Timeframe: timeframe, Detail: detail, Count: count}
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("dashboard section failed",
				slog.String("section", name), slog.Any("error", err))
		}
		section.Err = err
		section.Count = 0
	}
	return section
}

// Health probes backend connectivity and credentials with a minimal
// single-record query.
func (s *Service) Health(ctx context.Context) error {
	_, err := s.rq.Request(ctx, oseon.EndpointCustomerOrders, map[string]string{"size": "1", "page": "0"})
	return err
}
