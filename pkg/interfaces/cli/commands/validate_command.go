package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/vsinha/bomplan/pkg/domain/services/bom_validator"
)

// ValidateCommand checks a graph without converting or storing it
type ValidateCommand struct {
	config    Config
	workspace *Workspace
}

// NewValidateCommand creates a new validate command
func NewValidateCommand(config Config, workspace *Workspace) *ValidateCommand {
	return &ValidateCommand{config: config, workspace: workspace}
}

// Execute runs the validate command
func (c *ValidateCommand) Execute(ctx context.Context) error {
	graph, err := c.config.loadGraph()
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}
	c.config.logf("🔍 Validating %d nodes and %d edges...\n", len(graph.Nodes), len(graph.Edges))

	if err := c.workspace.Planner.Validate(ctx, c.config.FolderID, graph); err != nil {
		var verr *bom_validator.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(c.config.writer(), "❌ Invalid BOM (%s): %v\n", verr.Kind, err)
		}
		return err
	}

	fmt.Fprintf(c.config.writer(), "✅ BOM is valid (%d components)\n", len(graph.Nodes))
	return nil
}
