package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
)

// BOMNode is one occurrence of a component in a product structure. The root
// node represents the final product.
type BOMNode struct {
	Component    string     `json:"component"`
	ComponentID  string     `json:"componentId,omitempty"`
	Attributes   Attributes `json:"attributes"`
	Multiplicity float64    `json:"badge_value,omitempty"`
	Children     []*BOMNode `json:"children,omitempty"`
}

// ChildRef names an immediate child and how many of it go into one parent
type ChildRef struct {
	Component    string  `json:"component"`
	Multiplicity float64 `json:"multiplicity"`
}

// NewBOMNode creates a validated BOM node without children
func NewBOMNode(component, componentID string, attrs Attributes, multiplicity float64) (*BOMNode, error) {
	if component == "" {
		return nil, fmt.Errorf("component name cannot be empty")
	}
	if multiplicity < 0 {
		return nil, fmt.Errorf("multiplicity cannot be negative, got %g", multiplicity)
	}

	return &BOMNode{
		Component:    component,
		ComponentID:  componentID,
		Attributes:   attrs.Normalized(),
		Multiplicity: multiplicity,
	}, nil
}

// AddChild appends child and returns the receiver for chaining
func (n *BOMNode) AddChild(child *BOMNode) *BOMNode {
	n.Children = append(n.Children, child)
	return n
}

// Qty returns the multiplicity, reading absent or non-positive values as 1
func (n *BOMNode) Qty() float64 {
	if n.Multiplicity <= 0 {
		return 1
	}
	return n.Multiplicity
}

type walkFrame struct {
	node  *BOMNode
	depth int
}

// Walk visits the tree depth-first in pre-order (root, then children left to
// right). Traversal stops at the first error returned by fn.
func (n *BOMNode) Walk(fn func(node *BOMNode, depth int) error) error {
	if n == nil {
		return nil
	}

	stack := []walkFrame{{node: n}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := fn(top.node, top.depth); err != nil {
			return err
		}

		for i := len(top.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, walkFrame{node: top.node.Children[i], depth: top.depth + 1})
		}
	}

	return nil
}

// TopDownOrder lists component names breadth-first, root first, each name
// once at its first appearance.
func (n *BOMNode) TopDownOrder() []string {
	if n == nil {
		return nil
	}

	seen := make(map[string]bool)
	order := make([]string, 0)
	queue := []*BOMNode{n}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if !seen[current.Component] {
			seen[current.Component] = true
			order = append(order, current.Component)
		}
		queue = append(queue, current.Children...)
	}

	return order
}

// MaxCumulativeLeadTime returns the longest root-to-leaf sum of lead times,
// each clamped to at least one period. The sum saturates at math.MaxInt.
func (n *BOMNode) MaxCumulativeLeadTime() int {
	if n == nil {
		return 0
	}

	type frame struct {
		node *BOMNode
		acc  int
	}

	longest := 0
	stack := []frame{{node: n}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		acc := math.MaxInt
		if lead := top.node.Attributes.Normalized().LeadTime; lead <= math.MaxInt-top.acc {
			acc = top.acc + lead
		}
		if len(top.node.Children) == 0 {
			if acc > longest {
				longest = acc
			}
			continue
		}
		for _, child := range top.node.Children {
			stack = append(stack, frame{node: child, acc: acc})
		}
	}

	return longest
}

// Substructure returns the immediate children sorted by component name
func (n *BOMNode) Substructure() []ChildRef {
	refs := make([]ChildRef, 0, len(n.Children))
	for _, child := range n.Children {
		refs = append(refs, ChildRef{Component: child.Component, Multiplicity: child.Qty()})
	}
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Component < refs[j].Component
	})
	return refs
}

// Count returns the number of nodes in the tree
func (n *BOMNode) Count() int {
	count := 0
	_ = n.Walk(func(*BOMNode, int) error {
		count++
		return nil
	})
	return count
}

// Clone returns a deep copy of the tree
func (n *BOMNode) Clone() *BOMNode {
	if n == nil {
		return nil
	}

	type pair struct {
		src *BOMNode
		dst *BOMNode
	}

	root := &BOMNode{}
	stack := []pair{{src: n, dst: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		top.dst.Component = top.src.Component
		top.dst.ComponentID = top.src.ComponentID
		top.dst.Attributes = top.src.Attributes
		top.dst.Multiplicity = top.src.Multiplicity

		if len(top.src.Children) == 0 {
			continue
		}
		top.dst.Children = make([]*BOMNode, len(top.src.Children))
		for i, child := range top.src.Children {
			top.dst.Children[i] = &BOMNode{}
			stack = append(stack, pair{src: child, dst: top.dst.Children[i]})
		}
	}

	return root
}

// Signature returns an order-sensitive content hash of the tree covering
// names, component ids, multiplicities and attributes.
func (n *BOMNode) Signature() string {
	h := sha256.New()
	_ = n.Walk(func(node *BOMNode, depth int) error {
		a := node.Attributes
		fmt.Fprintf(h, "%d|%s|%s|%g|%s|%s|%s|%d|%d|%d\n",
			depth, node.Component, node.ComponentID, node.Qty(),
			a.UnitCost.String(), a.OrderingCost.String(), a.CarryingCost.String(),
			a.NumberOnHand, a.LeadTime, a.LotSize)
		return nil
	})
	return hex.EncodeToString(h.Sum(nil))
}
