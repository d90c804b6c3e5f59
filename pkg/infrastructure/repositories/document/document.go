// Package document reads and writes BOM trees and graphs as JSON, YAML or
// TOML documents.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/bomplan/pkg/domain/entities"
)

// Format is a document encoding
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("unsupported document extension %q (expected .json, .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

type attributesDoc struct {
	UnitCost     float64 `json:"unit_cost" yaml:"unit_cost" toml:"unit_cost"`
	OrderingCost float64 `json:"ordering_cost" yaml:"ordering_cost" toml:"ordering_cost"`
	CarryingCost float64 `json:"carrying_cost" yaml:"carrying_cost" toml:"carrying_cost"`
	NumberOnHand int64   `json:"number_on_hand" yaml:"number_on_hand" toml:"number_on_hand"`
	LeadTime     int     `json:"lead_time" yaml:"lead_time" toml:"lead_time"`
	LotSize      int64   `json:"lot_size" yaml:"lot_size" toml:"lot_size"`
}

type treeDoc struct {
	Component   string        `json:"component" yaml:"component" toml:"component"`
	ComponentID string        `json:"componentId,omitempty" yaml:"componentId,omitempty" toml:"componentId,omitempty"`
	Attributes  attributesDoc `json:"attributes" yaml:"attributes" toml:"attributes"`
	BadgeValue  float64       `json:"badge_value,omitempty" yaml:"badge_value,omitempty" toml:"badge_value,omitempty"`
	Children    []treeDoc     `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// LoadTree reads a tree document, choosing the format by extension
func LoadTree(path string) (*entities.BOMNode, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tree file %s: %w", path, err)
	}
	defer file.Close()

	tree, err := DecodeTree(file, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load tree %s: %w", path, err)
	}
	return tree, nil
}

// DecodeTree reads a tree document in format
func DecodeTree(r io.Reader, format Format) (*entities.BOMNode, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc treeDoc
	switch format {
	case JSON:
		err = json.Unmarshal(data, &doc)
	case YAML:
		err = yaml.Unmarshal(data, &doc)
	case TOML:
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s tree: %w", format, err)
	}

	return fromDoc(doc)
}

// EncodeTree writes tree as a document in format
func EncodeTree(w io.Writer, tree *entities.BOMNode, format Format) error {
	doc := toDoc(tree)

	var data []byte
	var err error
	switch format {
	case JSON:
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(doc); err == nil {
			err = enc.Close()
		}
		data = buf.Bytes()
	case TOML:
		data, err = toml.Marshal(doc)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s tree: %w", format, err)
	}

	_, err = w.Write(data)
	return err
}

// LoadGraph reads a graph JSON document
func LoadGraph(path string) (entities.Graph, error) {
	file, err := os.Open(path)
	if err != nil {
		return entities.Graph{}, fmt.Errorf("failed to open graph file %s: %w", path, err)
	}
	defer file.Close()

	return DecodeGraph(file)
}

// DecodeGraph reads a graph JSON document. Unknown fields are ignored so
// editor exports load as-is.
func DecodeGraph(r io.Reader) (entities.Graph, error) {
	var graph entities.Graph
	if err := json.NewDecoder(r).Decode(&graph); err != nil {
		return entities.Graph{}, fmt.Errorf("failed to decode graph: %w", err)
	}
	return graph, nil
}

// EncodeGraph writes graph as indented JSON
func EncodeGraph(w io.Writer, graph entities.Graph) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(graph)
}

func fromDoc(root treeDoc) (*entities.BOMNode, error) {
	type frame struct {
		doc  *treeDoc
		node *entities.BOMNode
	}

	tree, err := docNode(&root)
	if err != nil {
		return nil, err
	}

	stack := []frame{{doc: &root, node: tree}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for i := range top.doc.Children {
			childDoc := &top.doc.Children[i]
			child, err := docNode(childDoc)
			if err != nil {
				return nil, err
			}
			top.node.Children = append(top.node.Children, child)
			stack = append(stack, frame{doc: childDoc, node: child})
		}
	}

	return tree, nil
}

func docNode(d *treeDoc) (*entities.BOMNode, error) {
	a := d.Attributes
	attrs, err := entities.NewAttributes(
		decimal.NewFromFloat(a.UnitCost),
		decimal.NewFromFloat(a.OrderingCost),
		decimal.NewFromFloat(a.CarryingCost),
		entities.Quantity(a.NumberOnHand),
		a.LeadTime,
		entities.Quantity(a.LotSize),
	)
	if err != nil {
		return nil, fmt.Errorf("component %q: %w", d.Component, err)
	}
	node, err := entities.NewBOMNode(d.Component, d.ComponentID, attrs, d.BadgeValue)
	if err != nil {
		return nil, err
	}
	return node, nil
}

func toDoc(root *entities.BOMNode) treeDoc {
	type frame struct {
		node *entities.BOMNode
		doc  *treeDoc
	}

	out := nodeDoc(root)
	stack := []frame{{node: root, doc: &out}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(top.node.Children) == 0 {
			continue
		}
		top.doc.Children = make([]treeDoc, len(top.node.Children))
		for i, child := range top.node.Children {
			top.doc.Children[i] = nodeDoc(child)
			stack = append(stack, frame{node: child, doc: &top.doc.Children[i]})
		}
	}
	return out
}

func nodeDoc(n *entities.BOMNode) treeDoc {
	a := n.Attributes
	return treeDoc{
		Component:   n.Component,
		ComponentID: n.ComponentID,
		Attributes: attributesDoc{
			UnitCost:     a.UnitCost.InexactFloat64(),
			OrderingCost: a.OrderingCost.InexactFloat64(),
			CarryingCost: a.CarryingCost.InexactFloat64(),
			NumberOnHand: int64(a.NumberOnHand),
			LeadTime:     a.LeadTime,
			LotSize:      int64(a.LotSize),
		},
		BadgeValue: n.Multiplicity,
	}
}
