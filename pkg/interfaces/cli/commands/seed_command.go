package commands

import (
	"context"
	"fmt"

	"github.com/vsinha/bomplan/pkg/infrastructure/samples"
)

// SeedCommand writes the sample folder into the store
type SeedCommand struct {
	config    Config
	workspace *Workspace
}

// NewSeedCommand creates a new seed command
func NewSeedCommand(config Config, workspace *Workspace) *SeedCommand {
	return &SeedCommand{config: config, workspace: workspace}
}

// Execute runs the seed command. Seeding twice overwrites the samples.
func (c *SeedCommand) Execute(ctx context.Context) error {
	saved, err := samples.Seed(ctx, c.workspace.Folders, c.workspace.Components, c.workspace.BOMs)
	if err != nil {
		return fmt.Errorf("failed to seed samples: %w", err)
	}

	out := c.config.writer()
	fmt.Fprintf(out, "🌱 Seeded folder %q\n", samples.FolderID)
	for _, bom := range saved {
		fmt.Fprintf(out, "  %-12s %-8s %d components\n", bom.ID, bom.Name, len(bom.Tree.TopDownOrder()))
	}
	return nil
}
