package entities

import (
	"math"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func leaf(name string, lt int, qty float64) *BOMNode {
	return &BOMNode{Component: name, Attributes: Attributes{LeadTime: lt, LotSize: 1}, Multiplicity: qty}
}

// alpha builds Alpha -> B(1), C(1); B -> D(2), C(2); C -> E(1), F(1)
func alpha() *BOMNode {
	cUnderAlpha := leaf("C", 3, 1).AddChild(leaf("E", 1, 1)).AddChild(leaf("F", 1, 1))
	cUnderB := leaf("C", 3, 2).AddChild(leaf("E", 1, 1)).AddChild(leaf("F", 1, 1))
	b := leaf("B", 2, 1).AddChild(leaf("D", 1, 2)).AddChild(cUnderB)
	return leaf("Alpha", 1, 0).AddChild(b).AddChild(cUnderAlpha)
}

func TestBOMNode_Validation(t *testing.T) {
	node, err := NewBOMNode("Wheel", "cmp-1", Attributes{LeadTime: 0, LotSize: -3}, 4)
	if err != nil {
		t.Fatalf("Expected valid node creation to succeed: %v", err)
	}
	if node.Attributes.LeadTime != 1 || node.Attributes.LotSize != 1 {
		t.Errorf("Expected lead time and lot size clamped to 1, got %d and %d",
			node.Attributes.LeadTime, node.Attributes.LotSize)
	}

	testCases := []struct {
		name        string
		component   string
		qty         float64
		expectError string
	}{
		{"empty name", "", 1, "component name cannot be empty"},
		{"negative multiplicity", "Wheel", -2, "multiplicity cannot be negative, got -2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBOMNode(tc.component, "", Attributes{}, tc.qty)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestBOMNode_Qty(t *testing.T) {
	if got := (&BOMNode{}).Qty(); got != 1 {
		t.Errorf("Expected absent multiplicity to read as 1, got %g", got)
	}
	if got := (&BOMNode{Multiplicity: -1}).Qty(); got != 1 {
		t.Errorf("Expected negative multiplicity to read as 1, got %g", got)
	}
	if got := (&BOMNode{Multiplicity: 2.5}).Qty(); got != 2.5 {
		t.Errorf("Expected multiplicity 2.5, got %g", got)
	}
}

func TestBOMNode_WalkPreOrder(t *testing.T) {
	var visited []string
	var depths []int
	err := alpha().Walk(func(node *BOMNode, depth int) error {
		visited = append(visited, node.Component)
		depths = append(depths, depth)
		return nil
	})
	if err != nil {
		t.Fatalf("Unexpected walk error: %v", err)
	}

	expected := []string{"Alpha", "B", "D", "C", "E", "F", "C", "E", "F"}
	if !reflect.DeepEqual(visited, expected) {
		t.Errorf("Expected pre-order %v, got %v", expected, visited)
	}
	expectedDepths := []int{0, 1, 2, 2, 3, 3, 1, 2, 2}
	if !reflect.DeepEqual(depths, expectedDepths) {
		t.Errorf("Expected depths %v, got %v", expectedDepths, depths)
	}
}

func TestBOMNode_TopDownOrder(t *testing.T) {
	got := alpha().TopDownOrder()
	expected := []string{"Alpha", "B", "C", "D", "E", "F"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected top-down order %v, got %v", expected, got)
	}
}

func TestBOMNode_MaxCumulativeLeadTime(t *testing.T) {
	// Alpha(1) + B(2) + C(3) + E(1) is the longest path
	if got := alpha().MaxCumulativeLeadTime(); got != 7 {
		t.Errorf("Expected max cumulative lead time 7, got %d", got)
	}

	zeroLead := &BOMNode{Component: "Solo"}
	if got := zeroLead.MaxCumulativeLeadTime(); got != 1 {
		t.Errorf("Expected clamped lead time 1, got %d", got)
	}

	huge := &BOMNode{
		Component:  "Top",
		Attributes: Attributes{LeadTime: math.MaxInt},
		Children:   []*BOMNode{{Component: "Sub", Attributes: Attributes{LeadTime: 5}}},
	}
	if got := huge.MaxCumulativeLeadTime(); got != math.MaxInt {
		t.Errorf("Expected saturated lead time, got %d", got)
	}
}

func TestBOMNode_Substructure(t *testing.T) {
	root := leaf("Root", 1, 1).
		AddChild(leaf("Zeta", 1, 3)).
		AddChild(leaf("Alpha", 1, 0))

	got := root.Substructure()
	expected := []ChildRef{{Component: "Alpha", Multiplicity: 1}, {Component: "Zeta", Multiplicity: 3}}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected substructure %v, got %v", expected, got)
	}
}

func TestBOMNode_CloneIsDeep(t *testing.T) {
	original := alpha()
	clone := original.Clone()

	if !reflect.DeepEqual(original, clone) {
		t.Fatal("Expected clone to equal original")
	}

	clone.Children[0].Children[0].Multiplicity = 99
	clone.Children[0].Attributes.UnitCost = decimal.NewFromInt(7)
	if original.Children[0].Children[0].Multiplicity != 2 {
		t.Error("Expected original multiplicity to be unaffected by clone edits")
	}
	if !original.Children[0].Attributes.UnitCost.IsZero() {
		t.Error("Expected original attributes to be unaffected by clone edits")
	}
}

func TestBOMNode_Signature(t *testing.T) {
	a := alpha()
	b := alpha()
	if a.Signature() != b.Signature() {
		t.Error("Expected identical trees to share a signature")
	}

	b.Children[1].Attributes.NumberOnHand = 5
	if a.Signature() == b.Signature() {
		t.Error("Expected attribute change to alter the signature")
	}

	swapped := alpha()
	swapped.Children[0], swapped.Children[1] = swapped.Children[1], swapped.Children[0]
	if a.Signature() == swapped.Signature() {
		t.Error("Expected child order to alter the signature")
	}
}

func TestBOMNode_Count(t *testing.T) {
	if got := alpha().Count(); got != 9 {
		t.Errorf("Expected 9 nodes, got %d", got)
	}
}
