package eoq

import (
	"math"
	"sort"

	"github.com/vsinha/bomplan/pkg/application/dto"
	"github.com/vsinha/bomplan/pkg/domain/entities"
)

// WorkingDaysPerYear converts orders per year into days between orders.
// Carrying costs are expressed per working day on the same basis.
const WorkingDaysPerYear = 200

// EOQService computes economic order quantities over a BOM tree
type EOQService struct{}

// NewEOQService creates a new EOQ service
func NewEOQService() *EOQService {
	return &EOQService{}
}

// Compute propagates annualDemand for the root down the tree and returns one
// row per component, root first and the rest alphabetical. A non-positive
// demand yields no rows.
func (s *EOQService) Compute(tree *entities.BOMNode, annualDemand int64) *dto.EOQResult {
	result := &dto.EOQResult{AnnualDemand: annualDemand, Rows: make([]dto.EOQRow, 0)}
	if tree == nil {
		return result
	}
	result.Root = tree.Component
	if annualDemand <= 0 {
		return result
	}

	demand, attrs := PropagateDemand(tree, float64(annualDemand))
	for name, d := range demand {
		result.Rows = append(result.Rows, Row(name, d, attrs[name]))
	}

	root := tree.Component
	sort.Slice(result.Rows, func(i, j int) bool {
		a, b := result.Rows[i].Component, result.Rows[j].Component
		if (a == root) != (b == root) {
			return a == root
		}
		return a < b
	})

	return result
}

// PropagateDemand sums the demand reaching every component name across all
// of its occurrences. Attributes are taken from the first occurrence seen.
func PropagateDemand(tree *entities.BOMNode, rootDemand float64) (map[string]float64, map[string]entities.Attributes) {
	demand := make(map[string]float64)
	attrs := make(map[string]entities.Attributes)
	if tree == nil {
		return demand, attrs
	}

	type frame struct {
		node   *entities.BOMNode
		demand float64
	}

	stack := []frame{{node: tree, demand: rootDemand}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		name := top.node.Component
		demand[name] += top.demand
		if _, seen := attrs[name]; !seen {
			attrs[name] = top.node.Attributes
		}

		for _, child := range top.node.Children {
			stack = append(stack, frame{node: child, demand: top.demand * child.Qty()})
		}
	}

	return demand, attrs
}

// Row computes the EOQ figures for one component. Undefined cases (no
// demand, ordering cost or carrying cost) produce zeros.
func Row(name string, annualDemand float64, attrs entities.Attributes) dto.EOQRow {
	row := dto.EOQRow{
		Component:    name,
		Demand:       annualDemand,
		UnitCost:     attrs.UnitCost,
		OrderingCost: attrs.OrderingCost,
		CarryingCost: attrs.CarryingCost,
	}

	s := attrs.OrderingCost.InexactFloat64()
	h := attrs.CarryingCost.InexactFloat64()
	if annualDemand <= 0 || s <= 0 || h <= 0 {
		return row
	}

	row.EOQ = math.Sqrt(2 * annualDemand * s / h)
	row.OrdersPerYear = annualDemand / row.EOQ
	row.TimeBetweenOrders = WorkingDaysPerYear / row.OrdersPerYear
	return row
}
