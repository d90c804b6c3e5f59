package bomgraph

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bomplan/pkg/domain/entities"
	"github.com/vsinha/bomplan/pkg/domain/services/bom_validator"
)

// sequenceIDs returns id1, id2, ... so expanded graphs are predictable
type sequenceIDs struct {
	next int
}

func (s *sequenceIDs) NewID() string {
	s.next++
	return fmt.Sprintf("id%d", s.next)
}

func part(name, id string, lt int, qty float64) *entities.BOMNode {
	return &entities.BOMNode{
		Component:   name,
		ComponentID: id,
		Attributes: entities.Attributes{
			UnitCost:     decimal.NewFromInt(int64(lt) * 10),
			OrderingCost: decimal.NewFromInt(50),
			CarryingCost: decimal.RequireFromString("0.5"),
			NumberOnHand: 10,
			LeadTime:     lt,
			LotSize:      1,
		},
		Multiplicity: qty,
	}
}

func alphaTree() *entities.BOMNode {
	cUnderB := part("C", "c", 3, 2).AddChild(part("E", "e", 1, 1)).AddChild(part("F", "", 1, 1))
	b := part("B", "b", 2, 1).AddChild(part("D", "d", 1, 2)).AddChild(cUnderB)
	cUnderAlpha := part("C", "c", 3, 1).AddChild(part("E", "e", 1, 1)).AddChild(part("F", "", 1, 1))
	return part("Alpha", "alpha", 1, 1).AddChild(b).AddChild(cUnderAlpha)
}

func TestExpand_Layout(t *testing.T) {
	expander := NewExpander(&sequenceIDs{}, DefaultLayout)
	graph := expander.Expand(alphaTree(), entities.Position{}, "folder-1")

	if len(graph.Nodes) != 9 {
		t.Fatalf("Expected 9 nodes, got %d", len(graph.Nodes))
	}
	if len(graph.Edges) != 8 {
		t.Fatalf("Expected 8 edges, got %d", len(graph.Edges))
	}

	expected := map[string]entities.Position{
		"bom-id1-root":  {X: 0, Y: 0},
		"bom-id1-0":     {X: -110, Y: 140},
		"bom-id1-0-0":   {X: -220, Y: 280},
		"bom-id1-0-1":   {X: 0, Y: 280},
		"bom-id1-0-1-0": {X: -110, Y: 420},
		"bom-id1-0-1-1": {X: 110, Y: 420},
		"bom-id1-1":     {X: 110, Y: 140},
		"bom-id1-1-0":   {X: 18, Y: 298},
		"bom-id1-1-1":   {X: 220, Y: 280},
	}
	for _, n := range graph.Nodes {
		want, ok := expected[n.ID]
		if !ok {
			t.Errorf("Unexpected node id %s", n.ID)
			continue
		}
		if n.Position != want {
			t.Errorf("Expected %s at %v, got %v", n.ID, want, n.Position)
		}
		if n.Type != entities.ComponentNodeType {
			t.Errorf("Expected node type %s, got %s", entities.ComponentNodeType, n.Type)
		}
		if n.Data.Component.FolderID != "folder-1" {
			t.Errorf("Expected folder id on %s, got %q", n.ID, n.Data.Component.FolderID)
		}
	}
}

func TestExpand_EdgesCarryMultiplicity(t *testing.T) {
	graph := NewExpander(&sequenceIDs{}, DefaultLayout).Expand(alphaTree(), entities.Position{}, "")

	byID := make(map[string]entities.GraphEdge)
	for _, e := range graph.Edges {
		byID[e.ID] = e
	}

	edge, ok := byID["bom-id1-0->bom-id1-0-0"]
	if !ok {
		t.Fatalf("Expected edge B -> D, got %v", graph.Edges)
	}
	if edge.Data.Qty != 2 {
		t.Errorf("Expected edge quantity 2, got %g", edge.Data.Qty)
	}

	for _, n := range graph.Nodes {
		if n.ID == "bom-id1-0-0" && n.Data.BadgeValue != 2 {
			t.Errorf("Expected badge value 2 on D, got %g", n.Data.BadgeValue)
		}
	}
}

func TestExpand_GhostComponents(t *testing.T) {
	graph := NewExpander(&sequenceIDs{}, DefaultLayout).Expand(alphaTree(), entities.Position{}, "")

	ghosts := 0
	for _, n := range graph.Nodes {
		if n.Data.Component.Name != "F" {
			continue
		}
		ghosts++
		if !n.Data.Component.Ghost {
			t.Errorf("Expected F on %s to be a ghost", n.ID)
		}
		if n.Data.Component.ID != "ghost-id2" && n.Data.Component.ID != "ghost-id3" {
			t.Errorf("Unexpected ghost id %s", n.Data.Component.ID)
		}
	}
	if ghosts != 2 {
		t.Errorf("Expected 2 ghost nodes, got %d", ghosts)
	}
}

func TestExpand_FreshNamespacePerCall(t *testing.T) {
	expander := NewExpander(&sequenceIDs{}, DefaultLayout)
	first := expander.Expand(alphaTree(), entities.Position{}, "")
	second := expander.Expand(alphaTree(), entities.Position{}, "")

	seen := make(map[string]bool)
	for _, n := range first.Nodes {
		seen[n.ID] = true
	}
	for _, n := range second.Nodes {
		if seen[n.ID] {
			t.Errorf("Expected fresh node ids, %s was reused", n.ID)
		}
	}
}

func TestExpandCollapse_RoundTrip(t *testing.T) {
	original := alphaTree()
	graph := NewExpander(&sequenceIDs{}, DefaultLayout).Expand(original, entities.Position{X: 400, Y: 50}, "")

	if err := bom_validator.Validate(graph); err != nil {
		t.Fatalf("Expected expanded graph to validate, got %v", err)
	}

	collapsed, err := Collapse(graph)
	if err != nil {
		t.Fatalf("Expected collapse to succeed: %v", err)
	}
	if !reflect.DeepEqual(original, collapsed) {
		t.Errorf("Expected round trip to preserve the tree\noriginal:  %+v\ncollapsed: %+v", original, collapsed)
	}
}

func TestExpand_DoesNotMutateTree(t *testing.T) {
	tree := alphaTree()
	_ = NewExpander(nil, DefaultLayout).Expand(tree, entities.Position{}, "f")
	if !reflect.DeepEqual(tree, alphaTree()) {
		t.Error("Expected expand to leave the tree untouched")
	}
}

func TestCollapse_EdgeOrderAndDefaults(t *testing.T) {
	graph := entities.Graph{
		Nodes: []entities.GraphNode{
			{ID: "w", Data: entities.NodeData{Component: entities.Component{Name: "Wheel"}}},
			{ID: "s", Data: entities.NodeData{Component: entities.Component{Name: "Skate"}}},
			{ID: "b", Data: entities.NodeData{Component: entities.Component{Name: "Board"}}},
		},
		Edges: []entities.GraphEdge{
			{ID: "e1", Source: "s", Target: "w", Data: entities.EdgeData{Qty: 4}},
			{ID: "e2", Source: "s", Target: "b"},
		},
	}

	tree, err := Collapse(graph)
	if err != nil {
		t.Fatalf("Expected collapse to succeed: %v", err)
	}
	if tree.Component != "Skate" {
		t.Fatalf("Expected Skate as root, got %s", tree.Component)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("Expected 2 children, got %d", len(tree.Children))
	}
	if tree.Children[0].Component != "Wheel" || tree.Children[0].Multiplicity != 4 {
		t.Errorf("Expected Wheel x4 first, got %s x%g", tree.Children[0].Component, tree.Children[0].Multiplicity)
	}
	if tree.Children[1].Component != "Board" || tree.Children[1].Multiplicity != 1 {
		t.Errorf("Expected Board x1 second, got %s x%g", tree.Children[1].Component, tree.Children[1].Multiplicity)
	}
}

func TestCollapse_NoRoot(t *testing.T) {
	graph := entities.Graph{
		Nodes: []entities.GraphNode{{ID: "a"}, {ID: "b"}},
		Edges: []entities.GraphEdge{{Source: "a", Target: "b"}, {Source: "b", Target: "a"}},
	}
	if _, err := Collapse(graph); !errors.Is(err, ErrNoRoot) {
		t.Errorf("Expected ErrNoRoot, got %v", err)
	}
}

func TestCollapse_UnvalidatedCycleTerminates(t *testing.T) {
	graph := entities.Graph{
		Nodes: []entities.GraphNode{{ID: "r"}, {ID: "a"}, {ID: "b"}},
		Edges: []entities.GraphEdge{
			{Source: "r", Target: "a"},
			{Source: "a", Target: "b"},
			{Source: "b", Target: "a"},
		},
	}
	if _, err := Collapse(graph); !errors.Is(err, ErrNotATree) {
		t.Errorf("Expected ErrNotATree, got %v", err)
	}
}
