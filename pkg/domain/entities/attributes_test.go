package entities

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAttributes_Validation(t *testing.T) {
	attrs, err := NewAttributes(decimal.NewFromInt(20), decimal.NewFromInt(50), decimal.NewFromInt(4), 550, 0, 0)
	if err != nil {
		t.Fatalf("Expected valid attributes creation to succeed: %v", err)
	}
	if attrs.LeadTime != 1 {
		t.Errorf("Expected lead time clamped to 1, got %d", attrs.LeadTime)
	}
	if attrs.LotSize != 1 {
		t.Errorf("Expected lot size clamped to 1, got %d", attrs.LotSize)
	}

	negative := decimal.NewFromInt(-1)
	zero := decimal.Zero
	testCases := []struct {
		name        string
		unit        decimal.Decimal
		ordering    decimal.Decimal
		carrying    decimal.Decimal
		onHand      Quantity
		expectError string
	}{
		{"negative unit cost", negative, zero, zero, 0, "unit cost cannot be negative, got -1"},
		{"negative ordering cost", zero, negative, zero, 0, "ordering cost cannot be negative, got -1"},
		{"negative carrying cost", zero, zero, negative, 0, "carrying cost cannot be negative, got -1"},
		{"negative on hand", zero, zero, zero, -5, "number on hand cannot be negative, got -5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewAttributes(tc.unit, tc.ordering, tc.carrying, tc.onHand, 1, 1)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestAttributes_NormalizedKeepsValidValues(t *testing.T) {
	attrs := Attributes{LeadTime: 3, LotSize: 40}.Normalized()
	if attrs.LeadTime != 3 || attrs.LotSize != 40 {
		t.Errorf("Expected lead time 3 and lot size 40, got %d and %d", attrs.LeadTime, attrs.LotSize)
	}
}

func TestAttributes_Equal(t *testing.T) {
	a := Attributes{UnitCost: decimal.RequireFromString("0.05"), LeadTime: 2, LotSize: 100}
	b := Attributes{UnitCost: decimal.RequireFromString("0.050"), LeadTime: 2, LotSize: 100}
	if !a.Equal(b) {
		t.Error("Expected numerically equal costs to compare equal")
	}
	b.LotSize = 50
	if a.Equal(b) {
		t.Error("Expected different lot sizes to compare unequal")
	}
}
