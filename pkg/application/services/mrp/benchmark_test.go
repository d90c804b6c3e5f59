package mrp

import (
	"fmt"
	"testing"

	"github.com/vsinha/bomplan/pkg/domain/entities"
	"github.com/vsinha/bomplan/pkg/infrastructure/samples"
)

// deepTree builds a chain of depth levels, each with lead time 1
func deepTree(depth int) *entities.BOMNode {
	root := simplePart("LEVEL_0", 1)
	node := root
	for i := 1; i < depth; i++ {
		child := simplePart(fmt.Sprintf("LEVEL_%d", i), 2)
		node.Children = []*entities.BOMNode{child}
		node = child
	}
	return root
}

// wideTree builds a root with width children that all share one fastener
func wideTree(width int) *entities.BOMNode {
	root := simplePart("TOP_ASSEMBLY", 1)
	for i := 0; i < width; i++ {
		root.Children = append(root.Children,
			simplePart(fmt.Sprintf("PART_%03d", i), 1, simplePart("FASTENER", 4)))
	}
	return root
}

func BenchmarkPlan_Skate(b *testing.B) {
	tree := samples.SkateBOM()
	schedule := samples.SkateSchedule()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Plan(tree, schedule); err != nil {
			b.Fatalf("Plan failed: %v", err)
		}
	}
}

func BenchmarkPlan_DeepBOM(b *testing.B) {
	tree := deepTree(10)
	schedule := singleOrder(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Plan(tree, schedule); err != nil {
			b.Fatalf("Plan failed: %v", err)
		}
	}
}

func BenchmarkPlan_WideBOM(b *testing.B) {
	tree := wideTree(50)
	schedule := singleOrder(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Plan(tree, schedule); err != nil {
			b.Fatalf("Plan failed: %v", err)
		}
	}
}

func BenchmarkMRPService_Cached(b *testing.B) {
	service := newTestMRPService(16)
	tree := wideTree(50)
	schedule := singleOrder(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := service.Plan(tree, schedule); err != nil {
			b.Fatalf("Plan failed: %v", err)
		}
	}
}

func TestPlan_WideBOMMergesSharedFastener(t *testing.T) {
	result, err := Plan(wideTree(50), singleOrder(10))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(result.Entries) != 52 {
		t.Fatalf("Expected 52 components, got %d", len(result.Entries))
	}

	// 50 parts each need 4 fasteners per unit
	total := 0.0
	for _, gr := range result.Entries["FASTENER"].Ledger.GrossRequirements {
		total += gr
	}
	if total != 2000 {
		t.Errorf("Expected 2000 fasteners in total, got %g", total)
	}
}

func TestPlan_DeepBOMHorizon(t *testing.T) {
	result, err := Plan(deepTree(10), singleOrder(1))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if result.Periods[0] != -10 {
		t.Errorf("Expected horizon to start at -10, got %d", result.Periods[0])
	}
	if len(result.DroppedReleases()) != 0 {
		t.Errorf("Expected no dropped releases, got %v", result.DroppedReleases())
	}
}
