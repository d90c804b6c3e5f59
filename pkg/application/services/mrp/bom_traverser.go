package mrp

import "github.com/vsinha/bomplan/pkg/domain/entities"

// NodeVisitor processes one tree occurrence during requirement propagation
type NodeVisitor interface {
	// VisitNode receives the gross requirements arriving at node and returns
	// the series handed down to its children, before each child's
	// multiplicity is applied.
	VisitNode(node *entities.BOMNode, incoming []float64) []float64
}

// BOMTraverser walks a BOM tree depth-first in pre-order, feeding each child
// the parent's outgoing series scaled by the child's multiplicity.
type BOMTraverser struct{}

// NewBOMTraverser creates a new BOM traverser
func NewBOMTraverser() *BOMTraverser {
	return &BOMTraverser{}
}

type traversalFrame struct {
	node     *entities.BOMNode
	incoming []float64
}

// Traverse visits every occurrence of root's tree with an explicit stack.
// Children are pushed in reverse so they are visited left to right, each
// subtree completing before its next sibling starts.
func (bt *BOMTraverser) Traverse(root *entities.BOMNode, rootIncoming []float64, visitor NodeVisitor) {
	if root == nil {
		return
	}

	stack := []traversalFrame{{node: root, incoming: rootIncoming}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		outgoing := visitor.VisitNode(top.node, top.incoming)

		for i := len(top.node.Children) - 1; i >= 0; i-- {
			child := top.node.Children[i]
			stack = append(stack, traversalFrame{node: child, incoming: scale(outgoing, child.Qty())})
		}
	}
}

func scale(series []float64, factor float64) []float64 {
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = v * factor
	}
	return out
}
