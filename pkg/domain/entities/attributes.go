package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Quantity represents an integer quantity of discrete units
type Quantity int64

// Attributes holds the planning attributes snapshotted onto every BOM node
type Attributes struct {
	UnitCost     decimal.Decimal `json:"unit_cost"`
	OrderingCost decimal.Decimal `json:"ordering_cost"`
	CarryingCost decimal.Decimal `json:"carrying_cost"`
	NumberOnHand Quantity        `json:"number_on_hand"`
	LeadTime     int             `json:"lead_time"`
	LotSize      Quantity        `json:"lot_size"`
}

// NewAttributes creates a validated Attributes record. Lead time and lot size
// below 1 are clamped to 1.
func NewAttributes(
	unitCost, orderingCost, carryingCost decimal.Decimal,
	onHand Quantity,
	leadTime int,
	lotSize Quantity,
) (Attributes, error) {
	if unitCost.IsNegative() {
		return Attributes{}, fmt.Errorf("unit cost cannot be negative, got %s", unitCost)
	}
	if orderingCost.IsNegative() {
		return Attributes{}, fmt.Errorf("ordering cost cannot be negative, got %s", orderingCost)
	}
	if carryingCost.IsNegative() {
		return Attributes{}, fmt.Errorf("carrying cost cannot be negative, got %s", carryingCost)
	}
	if onHand < 0 {
		return Attributes{}, fmt.Errorf("number on hand cannot be negative, got %d", onHand)
	}

	return Attributes{
		UnitCost:     unitCost,
		OrderingCost: orderingCost,
		CarryingCost: carryingCost,
		NumberOnHand: onHand,
		LeadTime:     leadTime,
		LotSize:      lotSize,
	}.Normalized(), nil
}

// Normalized returns a copy with lead time and lot size clamped to at least 1.
func (a Attributes) Normalized() Attributes {
	if a.LeadTime < 1 {
		a.LeadTime = 1
	}
	if a.LotSize < 1 {
		a.LotSize = 1
	}
	return a
}

// Equal reports whether two attribute records carry the same values.
func (a Attributes) Equal(other Attributes) bool {
	return a.UnitCost.Equal(other.UnitCost) &&
		a.OrderingCost.Equal(other.OrderingCost) &&
		a.CarryingCost.Equal(other.CarryingCost) &&
		a.NumberOnHand == other.NumberOnHand &&
		a.LeadTime == other.LeadTime &&
		a.LotSize == other.LotSize
}
