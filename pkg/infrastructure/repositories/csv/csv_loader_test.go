package csv

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bomplan/pkg/domain/entities"
	"github.com/vsinha/bomplan/pkg/domain/services/bom_validator"
	"github.com/vsinha/bomplan/pkg/domain/services/bomgraph"
)

const skateNodes = `node_id,component,component_id,unit_cost,ordering_cost,carrying_cost,number_on_hand,lead_time,lot_size,badge_value
n1,Skate,cmp-skate,0,0,0,650,2,1,
n2,Board,cmp-board,20,50,4,550,1,1,
n3,Wheels,cmp-wheels,5,100,1,120,3,40,
n4,Screws,cmp-screws,0.05,50,0.01,0,2,100,
`

const skateEdges = `source,target,qty
n1,n2,1
n1,n3,4
n3,n4,4
`

func TestLoader_ReadGraph(t *testing.T) {
	loader := NewLoader()

	graph, err := loader.ReadGraph(strings.NewReader(skateNodes), strings.NewReader(skateEdges), "f1")
	if err != nil {
		t.Fatalf("Failed to read graph: %v", err)
	}

	if len(graph.Nodes) != 4 || len(graph.Edges) != 3 {
		t.Fatalf("Expected 4 nodes and 3 edges, got %d and %d", len(graph.Nodes), len(graph.Edges))
	}

	screws := graph.Nodes[3].Data.Component
	if screws.Name != "Screws" || screws.ID != "cmp-screws" || screws.FolderID != "f1" {
		t.Errorf("Unexpected screws component: %+v", screws)
	}
	if !screws.Attributes.UnitCost.Equal(decimal.RequireFromString("0.05")) {
		t.Errorf("Expected unit cost 0.05, got %s", screws.Attributes.UnitCost)
	}
	if screws.Attributes.LotSize != 100 {
		t.Errorf("Expected lot size 100, got %d", screws.Attributes.LotSize)
	}
	if graph.Edges[1].ID != "n1->n3" || graph.Edges[1].Qty() != 4 {
		t.Errorf("Unexpected edge: %+v", graph.Edges[1])
	}

	if err := bom_validator.Validate(graph); err != nil {
		t.Fatalf("Expected a valid graph, got %v", err)
	}
	tree, err := bomgraph.Collapse(graph)
	if err != nil {
		t.Fatalf("Collapse failed: %v", err)
	}
	if got := tree.TopDownOrder(); len(got) != 4 || got[0] != "Skate" {
		t.Errorf("Unexpected tree order %v", got)
	}
}

func TestLoader_ReadGraphErrors(t *testing.T) {
	loader := NewLoader()

	tests := []struct {
		name  string
		nodes string
		edges string
		want  string
	}{
		{
			name:  "bad header",
			nodes: "id,name\nn1,A\n",
			edges: "source,target,qty\n",
			want:  "nodes CSV header mismatch",
		},
		{
			name:  "no node rows",
			nodes: strings.SplitN(skateNodes, "\n", 2)[0] + "\n",
			edges: "source,target,qty\n",
			want:  "at least one data row",
		},
		{
			name:  "negative stock",
			nodes: strings.SplitN(skateNodes, "\n", 2)[0] + "\nn1,A,,0,0,0,-3,1,1,\n",
			edges: "source,target,qty\n",
			want:  "nodes CSV row 2: number on hand cannot be negative",
		},
		{
			name:  "bad cost",
			nodes: strings.SplitN(skateNodes, "\n", 2)[0] + "\nn1,A,,abc,0,0,0,1,1,\n",
			edges: "source,target,qty\n",
			want:  "invalid unit_cost",
		},
		{
			name:  "short edge row",
			nodes: skateNodes,
			edges: "source,target,qty\nn1,n2\n",
			want:  "edges CSV row 2: expected 3 columns",
		},
		{
			name:  "negative qty",
			nodes: skateNodes,
			edges: "source,target,qty\nn1,n2,-1\n",
			want:  "qty cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.ReadGraph(strings.NewReader(tt.nodes), strings.NewReader(tt.edges), "")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoader_EdgelessGraph(t *testing.T) {
	graph, err := NewLoader().ReadGraph(strings.NewReader(skateNodes), strings.NewReader("source,target,qty\n"), "")
	if err != nil {
		t.Fatalf("Failed to read graph: %v", err)
	}
	if len(graph.Edges) != 0 {
		t.Errorf("Expected no edges, got %d", len(graph.Edges))
	}
}

func TestLoader_ReadSchedule(t *testing.T) {
	loader := NewLoader()

	schedule, err := loader.ReadSchedule(strings.NewReader("offset,demand\n0,100\n2,50\n3,50\n"))
	if err != nil {
		t.Fatalf("Failed to read schedule: %v", err)
	}
	if got := schedule.OrderTimes(); len(got) != 3 || got[2] != -5 {
		t.Errorf("Expected order times [0 -2 -5], got %v", got)
	}

	_, err = loader.ReadSchedule(strings.NewReader("offset,demand\n0,1.5\n"))
	if !errors.Is(err, entities.ErrInvalidSchedule) {
		t.Errorf("Expected ErrInvalidSchedule, got %v", err)
	}
}

func TestLoader_LoadFiles(t *testing.T) {
	dir := t.TempDir()
	nodes := filepath.Join(dir, "nodes.csv")
	edges := filepath.Join(dir, "edges.csv")
	schedule := filepath.Join(dir, "schedule.csv")

	// Spreadsheet exports often start with a byte order mark
	if err := os.WriteFile(nodes, []byte("\ufeff"+skateNodes), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(edges, []byte(skateEdges), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(schedule, []byte("offset,demand\n,900\n3,800\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader()
	graph, err := loader.LoadGraph(nodes, edges)
	if err != nil {
		t.Fatalf("Failed to load graph: %v", err)
	}
	if len(graph.Nodes) != 4 {
		t.Errorf("Expected 4 nodes, got %d", len(graph.Nodes))
	}

	s, err := loader.LoadSchedule(schedule)
	if err != nil {
		t.Fatalf("Failed to load schedule: %v", err)
	}
	if s.Orders[0].Demand != 900 || s.Orders[1].Offset != 3 {
		t.Errorf("Unexpected schedule %+v", s.Orders)
	}

	if _, err := loader.LoadGraph(filepath.Join(dir, "missing.csv"), edges); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
