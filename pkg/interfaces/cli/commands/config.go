package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vsinha/bomplan/pkg/domain/entities"
	"github.com/vsinha/bomplan/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/bomplan/pkg/infrastructure/repositories/document"
)

// Config holds the inputs shared by the planning commands. A graph comes
// from GraphFile or from NodesFile plus EdgesFile; a tree comes from
// TreeFile or from a stored BOM named by FolderID and BOMID.
type Config struct {
	GraphFile string
	NodesFile string
	EdgesFile string
	TreeFile  string

	FolderID string
	BOMID    string
	Name     string
	Save     bool

	Schedule     string
	ScheduleFile string
	AnnualDemand int64
	OriginX      float64
	OriginY      float64

	OutputFile string
	OutputDir  string
	Format     string
	Watch      bool
	Verbose    bool

	Out io.Writer
}

func (c Config) writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c Config) logf(format string, args ...any) {
	if c.Verbose {
		fmt.Fprintf(c.writer(), format, args...)
	}
}

func (c Config) hasGraphInput() bool {
	return c.GraphFile != "" || c.NodesFile != "" || c.EdgesFile != ""
}

// loadGraph reads the graph from a JSON document or a pair of CSV files
func (c Config) loadGraph() (entities.Graph, error) {
	switch {
	case c.GraphFile != "":
		return document.LoadGraph(c.GraphFile)
	case c.NodesFile != "" && c.EdgesFile != "":
		graph, err := csv.NewLoader().LoadGraph(c.NodesFile, c.EdgesFile)
		if err != nil {
			return entities.Graph{}, err
		}
		if c.FolderID != "" {
			for i := range graph.Nodes {
				graph.Nodes[i].Data.Component.FolderID = c.FolderID
			}
		}
		return graph, nil
	case c.NodesFile != "" || c.EdgesFile != "":
		return entities.Graph{}, errors.New("both --nodes and --edges are required for a CSV graph")
	default:
		return entities.Graph{}, errors.New("no graph given (use --graph or --nodes with --edges)")
	}
}

// loadTree returns the tree from TreeFile, a graph input or a stored BOM.
// The BOM id is empty unless the tree came from the store.
func (c Config) loadTree(ctx context.Context, ws *Workspace) (*entities.BOMNode, string, error) {
	switch {
	case c.TreeFile != "":
		tree, err := document.LoadTree(c.TreeFile)
		return tree, "", err
	case c.hasGraphInput():
		graph, err := c.loadGraph()
		if err != nil {
			return nil, "", err
		}
		tree, err := ws.Planner.Collapse(ctx, c.FolderID, graph)
		return tree, "", err
	case c.BOMID != "":
		if c.FolderID == "" {
			return nil, "", errors.New("--folder is required with --bom")
		}
		bom, err := ws.BOMs.GetBOM(ctx, c.FolderID, c.BOMID)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load bom %s: %w", c.BOMID, err)
		}
		return bom.Tree, bom.ID, nil
	default:
		return nil, "", errors.New("no bom given (use --tree, --graph, --nodes/--edges or --folder with --bom)")
	}
}

// loadSchedule reads the inline schedule or the schedule CSV file
func (c Config) loadSchedule() (entities.Schedule, error) {
	switch {
	case c.Schedule != "" && c.ScheduleFile != "":
		return entities.Schedule{}, errors.New("use either --schedule or --schedule-file, not both")
	case c.Schedule != "":
		return ParseInlineSchedule(c.Schedule)
	case c.ScheduleFile != "":
		return csv.NewLoader().LoadSchedule(c.ScheduleFile)
	default:
		return entities.Schedule{}, errors.New("no schedule given (use --schedule or --schedule-file)")
	}
}

// ParseInlineSchedule reads the compact form "100,2:50,3:50": the first
// entry is the demand at t=0 and every later entry is offset:demand.
func ParseInlineSchedule(s string) (entities.Schedule, error) {
	parts := strings.Split(s, ",")
	raw := make([]entities.RawOrder, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return entities.Schedule{}, fmt.Errorf("%w: empty order %d", entities.ErrInvalidSchedule, i+1)
		}
		offset, demand, found := strings.Cut(part, ":")
		if !found {
			offset, demand = "0", part
		}
		raw = append(raw, entities.RawOrder{Offset: offset, Demand: demand})
	}
	return entities.ParseSchedule(raw)
}

// writeTree encodes tree into OutputFile, picking the format from its
// extension, or as JSON to the command writer
func (c Config) writeTree(tree *entities.BOMNode) error {
	if c.OutputFile == "" {
		return document.EncodeTree(c.writer(), tree, document.JSON)
	}
	format, err := document.FormatFromPath(c.OutputFile)
	if err != nil {
		return err
	}
	return c.writeFile(func(w io.Writer) error {
		return document.EncodeTree(w, tree, format)
	})
}

func (c Config) writeGraph(graph entities.Graph) error {
	if c.OutputFile == "" {
		return document.EncodeGraph(c.writer(), graph)
	}
	return c.writeFile(func(w io.Writer) error {
		return document.EncodeGraph(w, graph)
	})
}

func (c Config) writeFile(encode func(io.Writer) error) error {
	f, err := os.Create(c.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", c.OutputFile, err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	c.logf("💾 Saved to: %s\n", c.OutputFile)
	return nil
}
