package bom_validator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyGraph            = errors.New("bom has no components")
	ErrDanglingEdge          = errors.New("edge references an unknown node")
	ErrCycle                 = errors.New("cycle detected")
	ErrSelfLoop              = fmt.Errorf("%w: component cannot be its own sub-component", ErrCycle)
	ErrRootCount             = errors.New("bom must have exactly one root")
	ErrMultipleParents       = errors.New("component must have exactly one parent")
	ErrInconsistentStructure = errors.New("component has different sub-components in different places")
	ErrDuplicateSibling      = errors.New("component appears twice under the same parent")
	ErrUnconnectedComponents = errors.New("multiple unconnected components")
	ErrOrphan                = errors.New("component is not connected to the bom")
	ErrComponentConflict     = errors.New("component is placed under different names")
)

// Kind classifies a validation failure by the check that raised it
type Kind int

const (
	KindEmptyGraph Kind = iota
	KindDanglingEdge
	KindSelfLoop
	KindCycle
	KindRootCount
	KindMultipleParents
	KindRootCycle
	KindInconsistentStructure
	KindDuplicateSibling
	KindUnconnectedComponents
	KindOrphan
	KindComponentConflict
)

// String method for Kind enum
func (k Kind) String() string {
	switch k {
	case KindEmptyGraph:
		return "empty_graph"
	case KindDanglingEdge:
		return "dangling_edge"
	case KindSelfLoop:
		return "self_loop"
	case KindCycle:
		return "cycle"
	case KindRootCount:
		return "root_count"
	case KindMultipleParents:
		return "multiple_parents"
	case KindRootCycle:
		return "root_cycle"
	case KindInconsistentStructure:
		return "inconsistent_structure"
	case KindDuplicateSibling:
		return "duplicate_sibling"
	case KindUnconnectedComponents:
		return "unconnected_components"
	case KindOrphan:
		return "orphan"
	case KindComponentConflict:
		return "component_conflict"
	default:
		return "unknown"
	}
}

// ValidationError describes the first structural problem found in a graph
type ValidationError struct {
	Kind      Kind
	Component string
	Path      []string
	Count     int
}

func (e *ValidationError) Error() string {
	base := e.sentinel().Error()
	switch {
	case len(e.Path) > 0:
		return fmt.Sprintf("%s: %s", base, strings.Join(e.Path, " -> "))
	case e.Kind == KindRootCount:
		return fmt.Sprintf("%s, found %d", base, e.Count)
	case e.Component != "":
		return fmt.Sprintf("%s: %s", base, e.Component)
	default:
		return base
	}
}

// Unwrap exposes the sentinel so callers can use errors.Is
func (e *ValidationError) Unwrap() error {
	return e.sentinel()
}

func (e *ValidationError) sentinel() error {
	switch e.Kind {
	case KindEmptyGraph:
		return ErrEmptyGraph
	case KindDanglingEdge:
		return ErrDanglingEdge
	case KindSelfLoop:
		return ErrSelfLoop
	case KindCycle, KindRootCycle:
		return ErrCycle
	case KindRootCount:
		return ErrRootCount
	case KindMultipleParents:
		return ErrMultipleParents
	case KindInconsistentStructure:
		return ErrInconsistentStructure
	case KindDuplicateSibling:
		return ErrDuplicateSibling
	case KindUnconnectedComponents:
		return ErrUnconnectedComponents
	case KindComponentConflict:
		return ErrComponentConflict
	default:
		return ErrOrphan
	}
}
