package orders

import (
	"strconv"
	"strings"
	"time"
)

// The backend caps page size at 50 and counts pages from zero; callers
// of this package count from one.
const (
	maxPageSize       = 50
	defaultMonthsBack = 12
)

// RecencyMode selects how the since filter on modificationDate is derived.
type RecencyMode int

const (
	// AutoRecent applies the rolling default window (first day of the
	// month, monthsBack months ago), computed fresh at call time.
	AutoRecent RecencyMode = iota
	// ExplicitSince uses the caller-supplied date verbatim.
	ExplicitSince
	// AllHistory omits the date filter entirely and overrides everything
	// else.
	AllHistory
)

// Spec is the logical query a caller wants, before translation into the
// backend's parameter conventions. Built fresh per call, never mutated.
type Spec struct {
	Size       int
	Page       int // 1-based
	Recency    RecencyMode
	Since      string // used when Recency == ExplicitSince
	MonthsBack int    // AutoRecent window, defaults to 12

	SalesStatus      string // customer orders: string enum, upper-cased
	ProductionStatus *int   // production orders: integer code, verbatim

	Search     string
	CustomerNo string
	ItemNo     string

	// Legacy skips the AutoRecent fill; explicit size/page/status/since
	// only. Cap and page-offset rules are identical to the unified mode.
	Legacy bool
}

// BuildParams translates a Spec into the flat query-parameter map the
// backend expects. A fresh map is returned on every call.
func BuildParams(spec Spec, now time.Time) map[string]string {
	size := spec.Size
	if size > maxPageSize {
		size = maxPageSize
	}
	page := spec.Page - 1
	if page < 0 {
		page = 0
	}

	params := map[string]string{
		"size":      strconv.Itoa(size),
		"page":      strconv.Itoa(page),
		"sortBy":    "modificationDate",
		"sortOrder": "desc",
	}

	switch spec.Recency {
	case AllHistory:
		// no date filter
	case ExplicitSince:
		if spec.Since != "" {
			params["since"] = spec.Since
		}
	case AutoRecent:
		if !spec.Legacy {
			months := spec.MonthsBack
			if months <= 0 {
				months = defaultMonthsBack
			}
			params["since"] = firstDayOfMonth(now, months).Format("2006-01-02T00:00:00")
		}
	}

	if spec.SalesStatus != "" {
		params["status"] = strings.ToUpper(spec.SalesStatus)
	}
	if spec.ProductionStatus != nil {
		params["status"] = strconv.Itoa(*spec.ProductionStatus)
	}
	if spec.Search != "" {
		params["searchBy"] = spec.Search
	}
	if spec.CustomerNo != "" {
		params["customerNo"] = spec.CustomerNo
	}
	if spec.ItemNo != "" {
		params["itemNo"] = spec.ItemNo
	}

	return params
}

// firstDayOfMonth returns midnight on the first day of the month
// monthsBack months before now, rolling the year backward as needed.
func firstDayOfMonth(now time.Time, monthsBack int) time.Time {
	year := now.Year()
	month := int(now.Month()) - monthsBack
	for month <= 0 {
		month += 12
		year--
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
}

// SinceDays formats "now minus n days" for the backend's since filter.
func SinceDays(now time.Time, days int) string {
	return now.AddDate(0, 0, -days).Format(layoutISO)
}
