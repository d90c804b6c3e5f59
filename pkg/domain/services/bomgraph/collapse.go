package bomgraph

import (
	"errors"
	"fmt"

	"github.com/vsinha/bomplan/pkg/domain/entities"
)

var (
	// ErrNoRoot is returned when every node is the target of some edge
	ErrNoRoot = errors.New("graph has no root component")
	// ErrNotATree is returned when the edges do not describe a tree
	ErrNotATree = errors.New("graph is not a tree")
)

// Collapse converts a graph into a BOM tree. The graph is expected to have
// passed validation; Collapse does not re-run the structural checks.
func Collapse(graph entities.Graph) (*entities.BOMNode, error) {
	targets := make(map[string]bool, len(graph.Edges))
	outgoing := make(map[string][]entities.GraphEdge)
	for _, edge := range graph.Edges {
		targets[edge.Target] = true
		outgoing[edge.Source] = append(outgoing[edge.Source], edge)
	}

	nodes := make(map[string]entities.GraphNode, len(graph.Nodes))
	var root *entities.GraphNode
	for i := range graph.Nodes {
		n := graph.Nodes[i]
		nodes[n.ID] = n
		if root == nil && !targets[n.ID] {
			root = &graph.Nodes[i]
		}
	}
	if root == nil {
		return nil, ErrNoRoot
	}

	tree := treeNode(*root, root.Data.BadgeValue)
	if tree.Multiplicity <= 0 {
		tree.Multiplicity = 1
	}

	type frame struct {
		id    string
		node  *entities.BOMNode
		depth int
	}

	stack := []frame{{id: root.ID, node: tree}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.depth > len(graph.Nodes) {
			return nil, fmt.Errorf("%w: %s is nested deeper than the node count", ErrNotATree, top.node.Component)
		}

		for _, edge := range outgoing[top.id] {
			target, ok := nodes[edge.Target]
			if !ok {
				return nil, fmt.Errorf("%w: edge %s targets unknown node %s", ErrNotATree, edge.ID, edge.Target)
			}
			child := treeNode(target, edge.Qty())
			top.node.Children = append(top.node.Children, child)
			stack = append(stack, frame{id: target.ID, node: child, depth: top.depth + 1})
		}
	}

	return tree, nil
}

func treeNode(n entities.GraphNode, multiplicity float64) *entities.BOMNode {
	componentID := n.Data.Component.ID
	if n.Data.Component.Ghost {
		componentID = ""
	}
	return &entities.BOMNode{
		Component:    n.Name(),
		ComponentID:  componentID,
		Attributes:   n.Data.Component.Attributes,
		Multiplicity: multiplicity,
	}
}
