package mrp

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bomplan/pkg/application/dto"
	"github.com/vsinha/bomplan/pkg/domain/entities"
)

// ComputeTable builds one component's ledger from its gross requirements over
// periods. Planned receipts are lot-for-lot rounded up to a multiple of the
// lot size and released one lead time earlier. A release that would fall
// before the first period is left out of POL and listed in DroppedReleases.
func ComputeTable(attrs entities.Attributes, periods []int, gr []float64) dto.Ledger {
	a := attrs.Normalized()
	n := len(periods)
	ledger := newLedger(n)
	copy(ledger.GrossRequirements, gr)

	lotSize := float64(a.LotSize)
	for i := 0; i < n; i++ {
		previous := float64(a.NumberOnHand)
		if i > 0 {
			previous = ledger.ProjectedOnHand[i-1]
		}
		available := previous + ledger.ScheduledReceipts[i]
		required := ledger.GrossRequirements[i]

		if available >= required {
			ledger.ProjectedOnHand[i] = available - required
			continue
		}

		net := required - available
		receipt := math.Ceil(net/lotSize) * lotSize
		ledger.NetRequirements[i] = net
		ledger.PlannedOrderReceipts[i] = receipt
		ledger.ProjectedOnHand[i] = available + receipt - required
	}

	periodIndex := make(map[int]int, n)
	for i, p := range periods {
		if _, exists := periodIndex[p]; !exists {
			periodIndex[p] = i
		}
	}
	for i, receipt := range ledger.PlannedOrderReceipts {
		if receipt <= 0 {
			continue
		}
		release := periods[i] - a.LeadTime
		if j, ok := periodIndex[release]; ok {
			ledger.PlannedOrderReleases[j] += receipt
		} else {
			ledger.DroppedReleases = append(ledger.DroppedReleases, dto.Release{Period: release, Quantity: receipt})
		}
	}

	cumulated := decimal.Zero
	for i := 0; i < n; i++ {
		ordering := decimal.Zero
		if ledger.PlannedOrderReceipts[i] > 0 {
			ordering = a.OrderingCost
		}
		carrying := a.CarryingCost.Mul(decimal.NewFromFloat(ledger.ProjectedOnHand[i]))
		purchase := a.UnitCost.Mul(decimal.NewFromFloat(ledger.PlannedOrderReceipts[i]))
		cost := ordering.Add(purchase).Add(carrying)
		cumulated = cumulated.Add(cost)

		ledger.OrderingCost[i] = ordering
		ledger.CarryingCost[i] = carrying
		ledger.Cost[i] = cost
		ledger.CumulatedCost[i] = cumulated
	}

	return ledger
}

func newLedger(n int) dto.Ledger {
	return dto.Ledger{
		GrossRequirements:    make([]float64, n),
		ScheduledReceipts:    make([]float64, n),
		ProjectedOnHand:      make([]float64, n),
		NetRequirements:      make([]float64, n),
		PlannedOrderReceipts: make([]float64, n),
		PlannedOrderReleases: make([]float64, n),
		OrderingCost:         make([]decimal.Decimal, n),
		CarryingCost:         make([]decimal.Decimal, n),
		Cost:                 make([]decimal.Decimal, n),
		CumulatedCost:        make([]decimal.Decimal, n),
	}
}
