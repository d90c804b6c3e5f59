package commands

import (
	"context"
	"fmt"

	"github.com/vsinha/bomplan/pkg/domain/entities"
)

// ExpandCommand lays a tree out as an editable graph
type ExpandCommand struct {
	config    Config
	workspace *Workspace
}

// NewExpandCommand creates a new expand command
func NewExpandCommand(config Config, workspace *Workspace) *ExpandCommand {
	return &ExpandCommand{config: config, workspace: workspace}
}

// Execute runs the expand command
func (c *ExpandCommand) Execute(ctx context.Context) error {
	tree, bomID, err := c.config.loadTree(ctx, c.workspace)
	if err != nil {
		return err
	}

	origin := entities.Position{X: c.config.OriginX, Y: c.config.OriginY}
	var graph entities.Graph
	if bomID != "" {
		graph, err = c.workspace.Planner.Expand(ctx, c.config.FolderID, bomID, origin)
		if err != nil {
			return err
		}
	} else {
		graph = c.workspace.Planner.ExpandTree(tree, origin, c.config.FolderID)
	}

	c.config.logf("🔄 Expanded %s into %d nodes and %d edges\n", tree.Component, len(graph.Nodes), len(graph.Edges))
	if err := c.config.writeGraph(graph); err != nil {
		return fmt.Errorf("failed to write graph: %w", err)
	}
	return nil
}
