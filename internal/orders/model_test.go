package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/blechwerk/oseon-mcp/testing"
)

func TestTotalValueRecomputedFromPositions(t *testing.T) {
	order := CustomerOrder{Positions: []Position{
		{NetPricePerUnit: decimal.RequireFromString("12.50"), TargetQuantity: decimal.NewFromInt(200)},
		{NetPricePerUnit: decimal.RequireFromString("0.10"), TargetQuantity: decimal.NewFromInt(3)},
	}}

	assert.True(t, order.TotalValue().Equal(decimal.RequireFromString("2500.30")),
		"got %s", order.TotalValue())

	empty := CustomerOrder{}
	assert.True(t, empty.TotalValue().IsZero())
}

func TestSanitizedReplacesIdentityOnly(t *testing.T) {
	order := CustomerOrder{
		CustomerOrderNo: "CO-24001",
		CustomerNo:      "K1001",
		CustomerName:    "Blechbau Nord GmbH",
		Status:          "RELEASED",
		Positions:       []Position{{ItemNo: "ITEM-100"}},
	}

	clean := order.Sanitized()
	assert.Equal(t, "Sheet Metal Connect", clean.CustomerName)
	assert.Equal(t, "C1", clean.CustomerNo)
	assert.Equal(t, "CO-24001", clean.CustomerOrderNo)
	assert.Equal(t, "RELEASED", clean.Status)
	require.Len(t, clean.Positions, 1)

	// The copy owns its positions slice.
	clean.Positions[0].ItemNo = "CHANGED"
	assert.Equal(t, "ITEM-100", order.Positions[0].ItemNo)

	// The original is untouched.
	assert.Equal(t, "Blechbau Nord GmbH", order.CustomerName)
}

func TestDecodeEnvelopeTolerantOfExtraFields(t *testing.T) {
	body := []byte(`{
		"collection": [{"customerOrderNo": "CO-1", "unknownField": true}],
		"records": 123,
		"pages": 3,
		"links": {"next": "..."}
	}`)

	env, err := decodeEnvelope[CustomerOrder](body)
	require.NoError(t, err)
	assert.Equal(t, 123, env.Records)
	assert.Equal(t, 3, env.Pages)
	require.Len(t, env.Collection, 1)
	assert.Equal(t, "CO-1", env.Collection[0].CustomerOrderNo)
}

func TestProductionStatusLabels(t *testing.T) {
	assert.Equal(t, "STARTED", ProductionStatusLabel(40))
	assert.Equal(t, "COMPLETED", ProductionStatusLabel(95))
	assert.Equal(t, "", ProductionStatusLabel(77))

	assert.Equal(t, "NEWEST", StatusCategory("pending"))
	assert.Equal(t, "RELEASED", StatusCategory("STARTED"))
	assert.Equal(t, "COMPLETED", StatusCategory("Invoiced"))
	assert.Equal(t, "OTHER", StatusCategory("IN_PROGRESS"))
}
