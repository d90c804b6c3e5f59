package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bomplan/pkg/domain/entities"
)

var (
	nodesHeader    = []string{"node_id", "component", "component_id", "unit_cost", "ordering_cost", "carrying_cost", "number_on_hand", "lead_time", "lot_size", "badge_value"}
	edgesHeader    = []string{"source", "target", "qty"}
	scheduleHeader = []string{"offset", "demand"}
)

// Loader reads graphs and schedules from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadGraph reads a graph from a nodes file and an edges file
func (l *Loader) LoadGraph(nodesFile, edgesFile string) (entities.Graph, error) {
	nodes, err := os.Open(nodesFile)
	if err != nil {
		return entities.Graph{}, fmt.Errorf("failed to open nodes file %s: %w", nodesFile, err)
	}
	defer nodes.Close()

	edges, err := os.Open(edgesFile)
	if err != nil {
		return entities.Graph{}, fmt.Errorf("failed to open edges file %s: %w", edgesFile, err)
	}
	defer edges.Close()

	return l.ReadGraph(nodes, edges, "")
}

// ReadGraph builds a graph from nodes and edges CSV streams. Nodes are
// assigned to folderID.
func (l *Loader) ReadGraph(nodes, edges io.Reader, folderID string) (entities.Graph, error) {
	nodeRecords, err := readRecords(nodes, "nodes", nodesHeader, true)
	if err != nil {
		return entities.Graph{}, err
	}
	edgeRecords, err := readRecords(edges, "edges", edgesHeader, false)
	if err != nil {
		return entities.Graph{}, err
	}

	graph := entities.Graph{
		Nodes: make([]entities.GraphNode, 0, len(nodeRecords)),
		Edges: make([]entities.GraphEdge, 0, len(edgeRecords)),
	}
	for i, record := range nodeRecords {
		node, err := parseNode(record, folderID)
		if err != nil {
			return entities.Graph{}, fmt.Errorf("nodes CSV row %d: %w", i+2, err)
		}
		graph.Nodes = append(graph.Nodes, node)
	}
	for i, record := range edgeRecords {
		edge, err := parseEdge(record)
		if err != nil {
			return entities.Graph{}, fmt.Errorf("edges CSV row %d: %w", i+2, err)
		}
		graph.Edges = append(graph.Edges, edge)
	}

	return graph, nil
}

// LoadSchedule reads demand orders from a CSV file
func (l *Loader) LoadSchedule(filename string) (entities.Schedule, error) {
	file, err := os.Open(filename)
	if err != nil {
		return entities.Schedule{}, fmt.Errorf("failed to open schedule file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadSchedule(file)
}

// ReadSchedule reads demand orders from a CSV stream. The first row is the
// order at t=0; later offsets count back from the previous order.
func (l *Loader) ReadSchedule(r io.Reader) (entities.Schedule, error) {
	records, err := readRecords(r, "schedule", scheduleHeader, true)
	if err != nil {
		return entities.Schedule{}, err
	}

	raw := make([]entities.RawOrder, len(records))
	for i, record := range records {
		raw[i] = entities.RawOrder{Offset: strings.TrimSpace(record[0]), Demand: strings.TrimSpace(record[1])}
	}
	return entities.ParseSchedule(raw)
}

func readRecords(r io.Reader, kind string, expectedHeader []string, requireRows bool) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) == 0 || (requireRows && len(records) < 2) {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		// encoding/csv keeps a UTF-8 byte order mark on the first field
		if strings.ToLower(strings.TrimSpace(strings.TrimPrefix(actual[i], "\ufeff"))) != col {
			return false
		}
	}

	return true
}

func parseNode(record []string, folderID string) (entities.GraphNode, error) {
	id := strings.TrimSpace(record[0])
	if id == "" {
		return entities.GraphNode{}, fmt.Errorf("node_id cannot be empty")
	}

	var costs [3]decimal.Decimal
	for i, col := range []int{3, 4, 5} {
		value, err := parseDecimal(record[col])
		if err != nil {
			return entities.GraphNode{}, fmt.Errorf("invalid %s: %s", nodesHeader[col], record[col])
		}
		costs[i] = value
	}

	onHand, err := parseInt(record[6])
	if err != nil {
		return entities.GraphNode{}, fmt.Errorf("invalid number_on_hand: %s", record[6])
	}
	leadTime, err := parseInt(record[7])
	if err != nil {
		return entities.GraphNode{}, fmt.Errorf("invalid lead_time: %s", record[7])
	}
	lotSize, err := parseInt(record[8])
	if err != nil {
		return entities.GraphNode{}, fmt.Errorf("invalid lot_size: %s", record[8])
	}
	badge, err := parseFloat(record[9])
	if err != nil {
		return entities.GraphNode{}, fmt.Errorf("invalid badge_value: %s", record[9])
	}

	attrs, err := entities.NewAttributes(costs[0], costs[1], costs[2], entities.Quantity(onHand), int(leadTime), entities.Quantity(lotSize))
	if err != nil {
		return entities.GraphNode{}, err
	}

	return entities.GraphNode{
		ID:   id,
		Type: entities.ComponentNodeType,
		Data: entities.NodeData{
			Component: entities.Component{
				ID:         strings.TrimSpace(record[2]),
				FolderID:   folderID,
				Name:       strings.TrimSpace(record[1]),
				Attributes: attrs,
			},
			BadgeValue: badge,
		},
	}, nil
}

func parseEdge(record []string) (entities.GraphEdge, error) {
	source := strings.TrimSpace(record[0])
	target := strings.TrimSpace(record[1])
	if source == "" || target == "" {
		return entities.GraphEdge{}, fmt.Errorf("source and target cannot be empty")
	}

	qty, err := parseFloat(record[2])
	if err != nil {
		return entities.GraphEdge{}, fmt.Errorf("invalid qty: %s", record[2])
	}
	if qty < 0 {
		return entities.GraphEdge{}, fmt.Errorf("qty cannot be negative, got %g", qty)
	}

	return entities.GraphEdge{
		ID:     source + "->" + target,
		Source: source,
		Target: target,
		Data:   entities.EdgeData{Qty: qty},
	}, nil
}

// Empty cells read as zero
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
