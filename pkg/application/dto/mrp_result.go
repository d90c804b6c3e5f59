package dto

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/bomplan/pkg/domain/entities"
)

// Release is a planned order release that fell before the planning horizon
type Release struct {
	Period   int     `json:"period"`
	Quantity float64 `json:"quantity"`
}

// Ledger is one component's period-by-period MRP record. Every series is
// indexed like the shared period list.
type Ledger struct {
	GrossRequirements    []float64         `json:"GR"`
	ScheduledReceipts    []float64         `json:"SR"`
	ProjectedOnHand      []float64         `json:"POH"`
	NetRequirements      []float64         `json:"NR"`
	PlannedOrderReceipts []float64         `json:"POR"`
	PlannedOrderReleases []float64         `json:"POL"`
	OrderingCost         []decimal.Decimal `json:"OrderingCost"`
	CarryingCost         []decimal.Decimal `json:"CarryingCost"`
	Cost                 []decimal.Decimal `json:"Cost"`
	CumulatedCost        []decimal.Decimal `json:"CumulatedCost"`
	DroppedReleases      []Release         `json:"dropped_releases,omitempty"`
}

// Metric is one labelled ledger row used by the exporters
type Metric struct {
	Label  string
	Values []float64
}

// Metrics lists the ledger rows in display order
func (l Ledger) Metrics() []Metric {
	return []Metric{
		{Label: "Gross Requirements", Values: l.GrossRequirements},
		{Label: "Scheduled Receipts", Values: l.ScheduledReceipts},
		{Label: "Projected On Hand", Values: l.ProjectedOnHand},
		{Label: "Net Requirements", Values: l.NetRequirements},
		{Label: "Planned Order Receipt", Values: l.PlannedOrderReceipts},
		{Label: "Planned Order Releases", Values: l.PlannedOrderReleases},
		{Label: "Ordering Cost", Values: floats(l.OrderingCost)},
		{Label: "Carrying Cost", Values: floats(l.CarryingCost)},
		{Label: "Cost", Values: floats(l.Cost)},
		{Label: "Cumulated Costs", Values: floats(l.CumulatedCost)},
	}
}

// TotalCost returns the final cumulated cost, or zero for an empty ledger
func (l Ledger) TotalCost() decimal.Decimal {
	if len(l.CumulatedCost) == 0 {
		return decimal.Zero
	}
	return l.CumulatedCost[len(l.CumulatedCost)-1]
}

func floats(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.InexactFloat64()
	}
	return out
}

// MRPEntry is a component's ledger plus the bookkeeping shown next to it
type MRPEntry struct {
	Ledger       Ledger              `json:"table"`
	OnHand       entities.Quantity   `json:"on_hand"`
	LeadTime     int                 `json:"lead_time"`
	Substructure []entities.ChildRef `json:"substructure"`
}

// MRPResult contains the complete output of an MRP run
type MRPResult struct {
	Periods []int                `json:"periods"`
	Entries map[string]*MRPEntry `json:"results"`
	Order   []string             `json:"order"`
}

// TotalCost sums every component's cumulated cost
func (r *MRPResult) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range r.Entries {
		total = total.Add(entry.Ledger.TotalCost())
	}
	return total
}

// DroppedReleases returns the out-of-horizon releases per component
func (r *MRPResult) DroppedReleases() map[string][]Release {
	dropped := make(map[string][]Release)
	for name, entry := range r.Entries {
		if len(entry.Ledger.DroppedReleases) > 0 {
			dropped[name] = entry.Ledger.DroppedReleases
		}
	}
	return dropped
}
