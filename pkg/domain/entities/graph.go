package entities

// ComponentNodeType is the node type the BOM editor renders
const ComponentNodeType = "componentNode"

// Position is a canvas coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Component is a component definition stored in a folder. Graph nodes carry a
// denormalized copy of it.
type Component struct {
	ID         string     `json:"id"`
	FolderID   string     `json:"dossierId,omitempty"`
	Name       string     `json:"name"`
	Attributes Attributes `json:"attributes"`
	Ghost      bool       `json:"ghost,omitempty"`
}

// NodeData is the payload of a graph node
type NodeData struct {
	Component  Component `json:"component"`
	BadgeValue float64   `json:"badge_value,omitempty"`
}

// GraphNode is one node of the editable BOM graph
type GraphNode struct {
	ID       string   `json:"id"`
	Type     string   `json:"type,omitempty"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// EdgeData is the payload of a graph edge
type EdgeData struct {
	Qty float64 `json:"qty,omitempty"`
}

// GraphEdge is a directed parent -> child edge
type GraphEdge struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Data   EdgeData `json:"data"`
}

// Graph is the node/edge form of a BOM exchanged with the editor
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Name returns the node's component name, falling back to the node id
func (n GraphNode) Name() string {
	if n.Data.Component.Name != "" {
		return n.Data.Component.Name
	}
	return n.ID
}

// ComponentKey returns the node's component identity, falling back to the
// node id for nodes without a stored component.
func (n GraphNode) ComponentKey() string {
	if n.Data.Component.ID != "" {
		return n.Data.Component.ID
	}
	return n.ID
}

// Qty returns the edge quantity, reading absent or non-positive values as 1
func (e GraphEdge) Qty() float64 {
	if e.Data.Qty <= 0 {
		return 1
	}
	return e.Data.Qty
}
