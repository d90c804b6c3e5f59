package mrp

import (
	"github.com/vsinha/bomplan/pkg/application/dto"
	"github.com/vsinha/bomplan/pkg/domain/entities"
)

// ledgerBook accumulates one ledger per component name across every place
// the component occurs in the tree.
type ledgerBook struct {
	periods []int
	entries map[string]*dto.MRPEntry
}

func newLedgerBook(periods []int) *ledgerBook {
	return &ledgerBook{
		periods: periods,
		entries: make(map[string]*dto.MRPEntry),
	}
}

// Verify interface compliance
var _ NodeVisitor = (*ledgerBook)(nil)

// VisitNode records incoming demand for node's component. The first
// occurrence passes its full release series down. Later occurrences add
// their demand to the stored gross requirements, recompute the ledger and
// pass down only the change in releases, since the children already received
// the earlier releases.
func (b *ledgerBook) VisitNode(node *entities.BOMNode, incoming []float64) []float64 {
	entry, seen := b.entries[node.Component]
	if !seen {
		ledger := ComputeTable(node.Attributes, b.periods, incoming)
		b.entries[node.Component] = &dto.MRPEntry{
			Ledger:       ledger,
			OnHand:       node.Attributes.NumberOnHand,
			LeadTime:     node.Attributes.Normalized().LeadTime,
			Substructure: node.Substructure(),
		}
		return ledger.PlannedOrderReleases
	}

	merged := add(entry.Ledger.GrossRequirements, incoming)
	ledger := ComputeTable(node.Attributes, b.periods, merged)
	delta := subtract(ledger.PlannedOrderReleases, entry.Ledger.PlannedOrderReleases)
	entry.Ledger = ledger
	return delta
}

func add(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i]
		if i < len(b) {
			out[i] += b[i]
		}
	}
	return out
}

func subtract(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i]
		if i < len(b) {
			out[i] -= b[i]
		}
	}
	return out
}
