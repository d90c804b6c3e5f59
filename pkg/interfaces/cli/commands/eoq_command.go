package commands

import (
	"context"
	"fmt"

	"github.com/vsinha/bomplan/pkg/application/dto"
	"github.com/vsinha/bomplan/pkg/interfaces/cli/output"
)

// EOQCommand computes economic order quantities for every component
type EOQCommand struct {
	config    Config
	workspace *Workspace
}

// NewEOQCommand creates a new EOQ command
func NewEOQCommand(config Config, workspace *Workspace) *EOQCommand {
	return &EOQCommand{config: config, workspace: workspace}
}

// Execute runs the EOQ command
func (c *EOQCommand) Execute(ctx context.Context) error {
	if c.config.AnnualDemand < 0 {
		return fmt.Errorf("annual demand cannot be negative: %d", c.config.AnnualDemand)
	}

	tree, bomID, err := c.config.loadTree(ctx, c.workspace)
	if err != nil {
		return err
	}

	var result *dto.EOQResult
	if bomID != "" {
		result, err = c.workspace.Planner.RunEOQ(ctx, c.config.FolderID, bomID, c.config.AnnualDemand)
	} else {
		result, err = c.workspace.Planner.EOQForTree(tree, c.config.AnnualDemand)
	}
	if err != nil {
		return err
	}

	if err := output.GenerateEOQ(result, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Name:      tree.Component,
		Out:       c.config.writer(),
	}); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}
	return nil
}
