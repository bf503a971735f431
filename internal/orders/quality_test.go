package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	_ "github.com/blechwerk/oseon-mcp/testing"
)

func qualityNow() time.Time {
	return time.Date(2026, 8, 15, 12, 0, 0, 0, time.Local)
}

func TestIsQualityRecordRejectsSentinelDueDates(t *testing.T) {
	now := qualityNow()
	for _, due := range []string{
		"31.12.9999 00:00:00",
		"01.01.5000 00:00:00",
		"2050-06-01T00:00:00", // unparsed sentinel years aside, >5y future
	} {
		order := CustomerOrder{CustomerOrderNo: "CO-1", CustomerName: "Blechbau Nord GmbH", DueDate: due}
		assert.False(t, isQualityRecordAt(order, now), "due %q should reject", due)
	}
}

func TestIsQualityRecordRejectsTestKeywords(t *testing.T) {
	now := qualityNow()
	cases := []CustomerOrder{
		{CustomerOrderNo: "TEST-001", CustomerName: "Blechbau Nord GmbH"},
		{CustomerOrderNo: "CO-2", Description: "Template for laser parts", CustomerName: "Blechbau Nord GmbH"},
		{CustomerOrderNo: "CO-3", Description: "DEMO run", CustomerName: "Blechbau Nord GmbH"},
	}
	for _, order := range cases {
		assert.False(t, isQualityRecordAt(order, now), "order %s should reject", order.CustomerOrderNo)
	}
}

func TestIsQualityRecordRejectsPlaceholderCustomers(t *testing.T) {
	now := qualityNow()
	for _, name := range []string{"None", "", "N/A", "TEST", "TEMPLATE"} {
		order := CustomerOrder{CustomerOrderNo: "CO-4", CustomerName: name}
		assert.False(t, isQualityRecordAt(order, now), "customer %q should reject", name)
	}
}

func TestIsQualityRecordAcceptsCleanOrders(t *testing.T) {
	now := qualityNow()
	order := CustomerOrder{
		CustomerOrderNo: "CO-24001",
		CustomerName:    "Blechbau Nord GmbH",
		Description:     "Laser-cut brackets",
		DueDate:         "2026-09-01T00:00:00",
	}
	assert.True(t, isQualityRecordAt(order, now))

	// Unparseable due dates are not a rejection reason on their own.
	order.DueDate = "soon"
	assert.True(t, isQualityRecordAt(order, now))

	order.DueDate = ""
	assert.True(t, isQualityRecordAt(order, now))
}

func TestFilterQualityPreservesOrderAndIsIdempotent(t *testing.T) {
	records := []CustomerOrder{
		{CustomerOrderNo: "CO-1", CustomerName: "Blechbau Nord GmbH"},
		{CustomerOrderNo: "TEST-001", CustomerName: "Blechbau Nord GmbH"},
		{CustomerOrderNo: "CO-2", CustomerName: "Maschinen Vogel AG"},
		{CustomerOrderNo: "CO-3", CustomerName: "None"},
	}

	once := FilterQuality(records)
	assert.Len(t, once, 2)
	assert.Equal(t, "CO-1", once[0].CustomerOrderNo)
	assert.Equal(t, "CO-2", once[1].CustomerOrderNo)

	twice := FilterQuality(once)
	assert.Equal(t, once, twice)
}

func TestIsOverdueTerminalStatusesNeverOverdue(t *testing.T) {
	now := qualityNow()
	pastDue := now.AddDate(0, 0, -10).Format(layoutISO)
	for _, status := range []string{"95", "100", "COMPLETED", "CANCELED", "FINISHED", "DELIVERED", "INVOICED"} {
		assert.False(t, isOverdueAt(pastDue, status, now), "status %s", status)
	}

	// Exact match only: lower case and prefixes do not count as terminal.
	assert.True(t, isOverdueAt(pastDue, "IN_PROGRESS", now))
	assert.True(t, isOverdueAt(pastDue, "completed", now))
}

func TestIsOverdueBounds(t *testing.T) {
	now := qualityNow()

	t.Run("pre-2018 floor", func(t *testing.T) {
		assert.False(t, isOverdueAt("2017-12-31T00:00:00", "40", now))
	})

	t.Run("two-year ceiling", func(t *testing.T) {
		due := now.AddDate(0, 0, -800).Format(layoutISO)
		assert.False(t, isOverdueAt(due, "40", now))
	})

	t.Run("future due date", func(t *testing.T) {
		due := now.AddDate(0, 0, 5).Format(layoutISO)
		assert.False(t, isOverdueAt(due, "40", now))
	})

	t.Run("parse failure fails closed", func(t *testing.T) {
		assert.False(t, isOverdueAt("next week", "40", now))
		assert.False(t, isOverdueAt("", "40", now))
	})

	t.Run("genuinely overdue", func(t *testing.T) {
		due := now.AddDate(0, 0, -10).Format(layoutISO)
		assert.True(t, isOverdueAt(due, "40", now))
	})
}

func TestParseOrderDateLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"24.12.2025 13:45:00", time.Date(2025, 12, 24, 13, 45, 0, 0, time.Local)},
		{"2025-12-24T13:45:00", time.Date(2025, 12, 24, 13, 45, 0, 0, time.Local)},
		// RFC3339 zone markers are accepted, then dropped: comparisons
		// happen on naive wall time.
		{"2025-12-24T13:45:00Z", time.Date(2025, 12, 24, 13, 45, 0, 0, time.Local)},
	}
	for _, tc := range cases {
		got, ok := parseOrderDate(tc.in)
		assert.True(t, ok, "parse %q", tc.in)
		assert.True(t, got.Equal(tc.want), "parse %q: got %v want %v", tc.in, got, tc.want)
	}

	_, ok := parseOrderDate("not a date")
	assert.False(t, ok)
}

func TestDaysOverdue(t *testing.T) {
	now := qualityNow()
	assert.Equal(t, 10, DaysOverdue(now.AddDate(0, 0, -10).Format(layoutISO), now))
	assert.Equal(t, 0, DaysOverdue(now.AddDate(0, 0, 3).Format(layoutISO), now))
	assert.Equal(t, 0, DaysOverdue("garbage", now))
}
