package bom_validator

import (
	"sort"
	"strings"

	"github.com/vsinha/bomplan/pkg/domain/entities"
)

// BOMValidator checks the structural rules a BOM graph must satisfy before it
// can be collapsed into a tree and saved.
type BOMValidator struct{}

// NewBOMValidator creates a new BOM validator
func NewBOMValidator() *BOMValidator {
	return &BOMValidator{}
}

// Validate runs the structural checks with a default validator
func Validate(graph entities.Graph) error {
	return NewBOMValidator().Validate(graph)
}

// graphIndex holds the lookups shared by every check
type graphIndex struct {
	nodes    map[string]entities.GraphNode
	order    []string
	children map[string][]string
	parents  map[string][]string
	sources  []string
}

// Validate returns nil for a well-formed BOM graph, or a *ValidationError for
// the first rule it breaks. Checks run in a fixed order so the reported error
// is the most specific one.
func (v *BOMValidator) Validate(graph entities.Graph) error {
	if len(graph.Nodes) == 0 {
		return &ValidationError{Kind: KindEmptyGraph}
	}

	idx := newGraphIndex(graph)

	// Per-edge checks run before anything global
	for _, edge := range graph.Edges {
		source, okSource := idx.nodes[edge.Source]
		target, okTarget := idx.nodes[edge.Target]
		if !okSource || !okTarget {
			return &ValidationError{Kind: KindDanglingEdge, Component: edge.ID}
		}
		if edge.Source == edge.Target || source.ComponentKey() == target.ComponentKey() {
			return &ValidationError{Kind: KindSelfLoop, Component: source.Name()}
		}
	}

	if cycle := v.detectCycles(idx); cycle != nil {
		return &ValidationError{Kind: KindCycle, Path: idx.names(cycle)}
	}

	// An edge-less graph is a single component or a set of unconnected ones;
	// the root count below would otherwise misreport it.
	if len(graph.Edges) == 0 {
		if len(graph.Nodes) == 1 {
			return nil
		}
		return &ValidationError{Kind: KindUnconnectedComponents, Count: len(graph.Nodes)}
	}

	roots := idx.roots()
	if len(roots) != 1 {
		return &ValidationError{Kind: KindRootCount, Count: len(roots)}
	}
	root := roots[0]

	for _, id := range idx.order {
		if id != root && len(idx.parents[id]) != 1 {
			return &ValidationError{Kind: KindMultipleParents, Component: idx.nodes[id].Name(), Count: len(idx.parents[id])}
		}
	}

	if cycle := v.dfsDetectCycle(root, idx.children, make(map[string]bool), make(map[string]bool)); cycle != nil {
		return &ValidationError{Kind: KindRootCycle, Path: idx.names(cycle)}
	}

	if nested := v.detectNestedComponent(root, idx); nested != nil {
		return &ValidationError{Kind: KindSelfLoop, Component: idx.nodes[nested[0]].Name(), Path: idx.names(nested)}
	}

	if name := v.detectInconsistentStructure(idx); name != "" {
		return &ValidationError{Kind: KindInconsistentStructure, Component: name}
	}

	if name := v.detectDuplicateSiblings(idx); name != "" {
		return &ValidationError{Kind: KindDuplicateSibling, Component: name}
	}

	if componentID := v.detectComponentConflict(idx); componentID != "" {
		return &ValidationError{Kind: KindComponentConflict, Component: componentID}
	}

	for _, id := range idx.order {
		if len(idx.parents[id]) == 0 && len(idx.children[id]) == 0 {
			return &ValidationError{Kind: KindOrphan, Component: idx.nodes[id].Name()}
		}
	}

	return nil
}

func newGraphIndex(graph entities.Graph) *graphIndex {
	idx := &graphIndex{
		nodes:    make(map[string]entities.GraphNode, len(graph.Nodes)),
		order:    make([]string, 0, len(graph.Nodes)),
		children: make(map[string][]string),
		parents:  make(map[string][]string),
	}

	for _, node := range graph.Nodes {
		if _, exists := idx.nodes[node.ID]; !exists {
			idx.order = append(idx.order, node.ID)
		}
		idx.nodes[node.ID] = node
	}

	for _, edge := range graph.Edges {
		if _, exists := idx.children[edge.Source]; !exists {
			idx.sources = append(idx.sources, edge.Source)
		}
		idx.children[edge.Source] = append(idx.children[edge.Source], edge.Target)
		idx.parents[edge.Target] = append(idx.parents[edge.Target], edge.Source)
	}

	return idx
}

func (idx *graphIndex) roots() []string {
	roots := make([]string, 0, 1)
	for _, id := range idx.order {
		if len(idx.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

func (idx *graphIndex) names(ids []string) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		if node, ok := idx.nodes[id]; ok {
			names[i] = node.Name()
		} else {
			names[i] = id
		}
	}
	return names
}

// detectCycles runs a DFS from every unvisited node and returns the first
// cycle found as a closed path of node ids.
func (v *BOMValidator) detectCycles(idx *graphIndex) []string {
	visited := make(map[string]bool)
	recursionStack := make(map[string]bool)

	for _, id := range idx.order {
		if visited[id] {
			continue
		}
		if cycle := v.dfsDetectCycle(id, idx.children, visited, recursionStack); cycle != nil {
			return cycle
		}
	}

	return nil
}

type dfsFrame struct {
	id   string
	next int
}

// dfsDetectCycle walks depth-first from start with an explicit stack. The
// stack doubles as the active path used to rebuild a cycle.
func (v *BOMValidator) dfsDetectCycle(
	start string,
	adjacencyMap map[string][]string,
	visited map[string]bool,
	recursionStack map[string]bool,
) []string {
	visited[start] = true
	recursionStack[start] = true
	path := []dfsFrame{{id: start}}

	for len(path) > 0 {
		top := &path[len(path)-1]
		children := adjacencyMap[top.id]
		if top.next >= len(children) {
			recursionStack[top.id] = false
			path = path[:len(path)-1]
			continue
		}

		child := children[top.next]
		top.next++

		if recursionStack[child] {
			cycle := make([]string, 0, len(path)+1)
			inCycle := false
			for _, frame := range path {
				if frame.id == child {
					inCycle = true
				}
				if inCycle {
					cycle = append(cycle, frame.id)
				}
			}
			return append(cycle, child)
		}

		if !visited[child] {
			visited[child] = true
			recursionStack[child] = true
			path = append(path, dfsFrame{id: child})
		}
	}

	return nil
}

// detectNestedComponent walks the tree below root and returns the node path
// from a component down to an occurrence of the same component beneath it.
// Components are matched by ComponentKey, so the names may differ.
func (v *BOMValidator) detectNestedComponent(root string, idx *graphIndex) []string {
	active := map[string]bool{idx.nodes[root].ComponentKey(): true}
	path := []dfsFrame{{id: root}}

	for len(path) > 0 {
		top := &path[len(path)-1]
		children := idx.children[top.id]
		if top.next >= len(children) {
			delete(active, idx.nodes[top.id].ComponentKey())
			path = path[:len(path)-1]
			continue
		}

		child := children[top.next]
		top.next++

		key := idx.nodes[child].ComponentKey()
		if active[key] {
			nested := make([]string, 0, len(path)+1)
			inPath := false
			for _, frame := range path {
				if idx.nodes[frame.id].ComponentKey() == key {
					inPath = true
				}
				if inPath {
					nested = append(nested, frame.id)
				}
			}
			return append(nested, child)
		}

		active[key] = true
		path = append(path, dfsFrame{id: child})
	}

	return nil
}

// detectComponentConflict returns the first stored component id that is
// placed under more than one name
func (v *BOMValidator) detectComponentConflict(idx *graphIndex) string {
	names := make(map[string]string)
	for _, id := range idx.order {
		node := idx.nodes[id]
		componentID := node.Data.Component.ID
		if componentID == "" {
			continue
		}
		name, seen := names[componentID]
		if !seen {
			names[componentID] = node.Name()
			continue
		}
		if name != node.Name() {
			return componentID
		}
	}
	return ""
}

// detectInconsistentStructure returns the first component name whose
// occurrences have different child name sets.
func (v *BOMValidator) detectInconsistentStructure(idx *graphIndex) string {
	firstShape := make(map[string]string)
	for _, id := range idx.order {
		childNames := make([]string, 0, len(idx.children[id]))
		for _, child := range idx.children[id] {
			childNames = append(childNames, idx.nodes[child].Name())
		}
		sort.Strings(childNames)
		shape := strings.Join(childNames, "\x00")

		name := idx.nodes[id].Name()
		expected, seen := firstShape[name]
		if !seen {
			firstShape[name] = shape
			continue
		}
		if expected != shape {
			return name
		}
	}
	return ""
}

// detectDuplicateSiblings returns the first name repeated under one parent
func (v *BOMValidator) detectDuplicateSiblings(idx *graphIndex) string {
	for _, parent := range idx.sources {
		seen := make(map[string]bool)
		for _, child := range idx.children[parent] {
			name := idx.nodes[child].Name()
			if seen[name] {
				return name
			}
			seen[name] = true
		}
	}
	return ""
}
