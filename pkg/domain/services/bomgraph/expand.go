package bomgraph

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vsinha/bomplan/pkg/domain/entities"
)

// IDGenerator hands out fresh identifiers for expanded graphs
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates random identifiers
type UUIDGenerator struct{}

// NewID returns the first block of a random UUID
func (UUIDGenerator) NewID() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}

// Layout controls node placement of expanded graphs
type Layout struct {
	DX          float64
	DY          float64
	StackOffset float64
}

// DefaultLayout matches the editor's node size
var DefaultLayout = Layout{DX: 220, DY: 140, StackOffset: 18}

// Expander turns BOM trees back into editable graphs
type Expander struct {
	ids    IDGenerator
	layout Layout
}

// NewExpander creates an expander using ids for identity generation
func NewExpander(ids IDGenerator, layout Layout) *Expander {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &Expander{ids: ids, layout: layout}
}

type expandFrame struct {
	node     *entities.BOMNode
	path     string
	x, y     float64
	parentID string
}

// Expand lays tree out as a graph with its root at origin. Every call uses a
// fresh id namespace so the result never collides with earlier expansions.
// Each tree occurrence becomes its own graph node.
func (e *Expander) Expand(tree *entities.BOMNode, origin entities.Position, folderID string) entities.Graph {
	graph := entities.Graph{
		Nodes: make([]entities.GraphNode, 0),
		Edges: make([]entities.GraphEdge, 0),
	}
	if tree == nil {
		return graph
	}

	namespace := "bom-" + e.ids.NewID()
	occupied := make(map[string]int)

	stack := []expandFrame{{node: tree, path: "root", x: origin.X, y: origin.Y}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id := namespace + "-" + top.path
		graph.Nodes = append(graph.Nodes, entities.GraphNode{
			ID:       id,
			Type:     entities.ComponentNodeType,
			Position: e.place(occupied, top.x, top.y),
			Data: entities.NodeData{
				Component:  e.component(top.node, folderID),
				BadgeValue: top.node.Qty(),
			},
		})

		if top.parentID != "" {
			graph.Edges = append(graph.Edges, entities.GraphEdge{
				ID:     top.parentID + "->" + id,
				Source: top.parentID,
				Target: id,
				Data:   entities.EdgeData{Qty: top.node.Qty()},
			})
		}

		children := top.node.Children
		width := float64(len(children)-1) * e.layout.DX
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, expandFrame{
				node:     children[i],
				path:     childPath(top.path, i),
				x:        top.x - width/2 + float64(i)*e.layout.DX,
				y:        top.y + e.layout.DY,
				parentID: id,
			})
		}
	}

	return graph
}

// place nudges a position diagonally when an earlier node took the same spot
func (e *Expander) place(occupied map[string]int, x, y float64) entities.Position {
	key := fmt.Sprintf("%d|%d", int64(math.Round(x)), int64(math.Round(y)))
	hits := occupied[key]
	occupied[key] = hits + 1
	offset := float64(hits) * e.layout.StackOffset
	return entities.Position{X: x + offset, Y: y + offset}
}

func (e *Expander) component(n *entities.BOMNode, folderID string) entities.Component {
	c := entities.Component{
		ID:         n.ComponentID,
		FolderID:   folderID,
		Name:       n.Component,
		Attributes: n.Attributes,
	}
	if c.ID == "" {
		c.ID = "ghost-" + e.ids.NewID()
		c.Ghost = true
	}
	return c
}

func childPath(parent string, index int) string {
	if parent == "root" {
		return strconv.Itoa(index)
	}
	return parent + "-" + strconv.Itoa(index)
}
