package orders

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Record is the narrow view the quality classifier needs from either
// order type.
type Record interface {
	RecordNo() string
	RecordDescription() string
	RecordCustomerName() string
	RecordDueDate() string
}

// Position is a single line item on a customer order.
type Position struct {
	PositionNo        string          `json:"positionNo"`
	PositionNoExt     string          `json:"positionNoExt"`
	ItemNo            string          `json:"itemNo"`
	Status            string          `json:"status"`
	NetPricePerUnit   decimal.Decimal `json:"netPricePerUnit"`
	TargetQuantity    decimal.Decimal `json:"targetQuantity"`
	ActualQuantity    decimal.Decimal `json:"actualQuantity"`
	DeliveredQuantity decimal.Decimal `json:"deliveredQuantity"`
	TaxRate           decimal.Decimal `json:"taxRate"`
	TaxKey            string          `json:"taxKey"`
	Discount          decimal.Decimal `json:"discount"`
	Currency          string          `json:"currency"`
	DeliveryDate      string          `json:"deliveryDate"`
	Note              string          `json:"note"`
}

// LineTotal is net price times target quantity.
func (p Position) LineTotal() decimal.Decimal {
	return p.NetPricePerUnit.Mul(p.TargetQuantity)
}

// CustomerOrder is a sales order as returned by the Oseon API.
type CustomerOrder struct {
	CustomerOrderNo    string     `json:"customerOrderNo"`
	CustomerOrderNoExt string     `json:"customerOrderNoExt"`
	CustomerNo         string     `json:"customerNo"`
	CustomerName       string     `json:"customerName"`
	Description        string     `json:"description"`
	Status             string     `json:"status"`
	OrderDate          string     `json:"orderDate"`
	ModificationDate   string     `json:"modificationDate"`
	DeliveryDate       string     `json:"deliveryDate"`
	DueDate            string     `json:"dueDate"`
	Note               string     `json:"note"`
	Note2              string     `json:"note2"`
	Positions          []Position `json:"positions"`
}

// TotalValue recomputes the order value as the sum of line totals.
// The backend's stored total is never trusted.
func (o CustomerOrder) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, p := range o.Positions {
		total = total.Add(p.LineTotal())
	}
	return total
}

func (o CustomerOrder) RecordNo() string           { return o.CustomerOrderNo }
func (o CustomerOrder) RecordDescription() string  { return o.Description }
func (o CustomerOrder) RecordCustomerName() string { return o.CustomerName }
func (o CustomerOrder) RecordDueDate() string      { return o.DueDate }

// Sanitized returns a copy with customer identity replaced by demo values.
func (o CustomerOrder) Sanitized() CustomerOrder {
	out := o
	out.CustomerName = demoCustomerName
	out.CustomerNo = demoCustomerNo
	out.Positions = append([]Position(nil), o.Positions...)
	return out
}

// ProductionOrder is a manufacturing work order. Status is an integer
// code, unlike the string-typed customer order status.
type ProductionOrder struct {
	OrderNo          string          `json:"orderNo"`
	OrderNoExt       string          `json:"orderNoExt"`
	CustomerOrderNo  string          `json:"customerOrderNo"`
	CustomerNo       string          `json:"customerNo"`
	CustomerName     string          `json:"customerName"`
	ItemNo           string          `json:"itemNo"`
	ItemDescription  string          `json:"itemDescription"`
	Description      string          `json:"description"`
	Status           int             `json:"status"`
	OrderDate        string          `json:"orderDate"`
	ReleaseDate      string          `json:"releaseDate"`
	DueDate          string          `json:"dueDate"`
	ModificationDate string          `json:"modificationDate"`
	Quantity         decimal.Decimal `json:"quantity"`
	Unit             string          `json:"unit"`
	Priority         int             `json:"priority"`
}

func (o ProductionOrder) RecordNo() string           { return o.OrderNo }
func (o ProductionOrder) RecordDescription() string  { return o.Description }
func (o ProductionOrder) RecordCustomerName() string { return o.CustomerName }
func (o ProductionOrder) RecordDueDate() string      { return o.DueDate }

// Sanitized returns a copy with customer identity replaced by demo values.
func (o ProductionOrder) Sanitized() ProductionOrder {
	out := o
	out.CustomerName = demoCustomerName
	out.CustomerNo = demoCustomerNo
	return out
}

const (
	demoCustomerName = "Sheet Metal Connect"
	demoCustomerNo   = "C1"
)

// envelope is the list response shape shared by both collection endpoints.
type envelope[T any] struct {
	Collection []T `json:"collection"`
	Records    int `json:"records"`
	Pages      int `json:"pages"`
}

func decodeEnvelope[T any](body []byte) (envelope[T], error) {
	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope[T]{}, err
	}
	return env, nil
}
