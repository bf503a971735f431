package orders

import (
	"strings"
	"time"
)

// Heuristic thresholds for separating real production data from the
// template and integration-test rows the backend's history carries.
// The values are tuned against observed bad data, not a documented
// backend contract; keep them in one place.
var (
	sentinelYearFragments = []string{"5000", "5001", "5999", "9999"}
	testKeywords          = []string{"test", "template", "demo", "example", "sandbox"}
	rejectedCustomerNames = []string{"None", "", "N/A", "TEST", "TEMPLATE"}
	terminalStatuses      = []string{"95", "100", "COMPLETED", "CANCELED", "FINISHED", "DELIVERED", "INVOICED"}
)

const (
	futureHorizonYears = 5
	overdueFloorYear   = 2018
	overdueCeilingDays = 730
)

// Date layouts the backend mixes freely: German wall time and ISO-8601,
// the latter sometimes with a trailing Z.
const (
	layoutGerman = "02.01.2006 15:04:05"
	layoutISO    = "2006-01-02T15:04:05"
)

// parseOrderDate tries the German layout first, then ISO-8601. A trailing
// Z is accepted and then discarded so every comparison happens on naive
// local wall time, matching how the backend records the rest of its dates.
func parseOrderDate(s string) (time.Time, bool) {
	if t, err := time.ParseInLocation(layoutGerman, s, time.Local); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(layoutISO, s, time.Local); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, time.Local), true
	}
	return time.Time{}, false
}

// IsQualityRecord reports whether an order looks like real production
// data rather than template or test noise. Unparseable dates are not a
// rejection reason on their own; only explicit red flags reject.
func IsQualityRecord(r Record) bool {
	return isQualityRecordAt(r, time.Now())
}

func isQualityRecordAt(r Record, now time.Time) bool {
	if due := r.RecordDueDate(); due != "" {
		for _, fragment := range sentinelYearFragments {
			if strings.Contains(due, fragment) {
				return false
			}
		}
		if t, ok := parseOrderDate(due); ok {
			if t.Sub(now) > futureHorizonYears*365*24*time.Hour {
				return false
			}
		}
	}

	orderNo := strings.ToLower(r.RecordNo())
	description := strings.ToLower(r.RecordDescription())
	for _, keyword := range testKeywords {
		if strings.Contains(orderNo, keyword) || strings.Contains(description, keyword) {
			return false
		}
	}

	name := r.RecordCustomerName()
	for _, rejected := range rejectedCustomerNames {
		if name == rejected {
			return false
		}
	}

	return true
}

// FilterQuality drops non-quality records, preserving order. Applying it
// twice yields the same set.
func FilterQuality[T Record](records []T) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if IsQualityRecord(r) {
			out = append(out, r)
		}
	}
	return out
}

// IsOverdue reports whether an order with the given due date text and
// stringified status is meaningfully overdue. Terminal statuses are never
// overdue; pre-2018 dates and orders more than two years past due are
// treated as noise rather than urgency. Every parse failure resolves to
// false.
func IsOverdue(dueDate, status string) bool {
	return isOverdueAt(dueDate, status, time.Now())
}

func isOverdueAt(dueDate, status string, now time.Time) bool {
	for _, terminal := range terminalStatuses {
		if status == terminal {
			return false
		}
	}

	due, ok := parseOrderDate(dueDate)
	if !ok {
		return false
	}
	if due.Year() < overdueFloorYear {
		return false
	}
	if !now.After(due) {
		return false
	}
	daysOverdue := int(now.Sub(due).Hours() / 24)
	return daysOverdue < overdueCeilingDays
}

// DaysOverdue returns how many whole days past due an order is, or zero
// when the due date does not parse or lies in the future.
func DaysOverdue(dueDate string, now time.Time) int {
	due, ok := parseOrderDate(dueDate)
	if !ok || !now.After(due) {
		return 0
	}
	return int(now.Sub(due).Hours() / 24)
}
