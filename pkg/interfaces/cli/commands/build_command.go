package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/vsinha/bomplan/pkg/domain/entities"
	"github.com/vsinha/bomplan/pkg/domain/repositories"
)

// BuildCommand collapses a graph into a tree and either writes the tree out
// or saves it as a BOM snapshot
type BuildCommand struct {
	config    Config
	workspace *Workspace
}

// NewBuildCommand creates a new build command
func NewBuildCommand(config Config, workspace *Workspace) *BuildCommand {
	return &BuildCommand{config: config, workspace: workspace}
}

// Execute runs the build command
func (c *BuildCommand) Execute(ctx context.Context) error {
	graph, err := c.config.loadGraph()
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}
	c.config.logf("📂 Loaded %d nodes and %d edges\n", len(graph.Nodes), len(graph.Edges))

	if !c.config.Save {
		tree, err := c.workspace.Planner.Collapse(ctx, c.config.FolderID, graph)
		if err != nil {
			return err
		}
		c.config.logf("✅ Built tree for %s (%d nodes)\n", tree.Component, tree.Count())
		return c.config.writeTree(tree)
	}

	if c.config.FolderID == "" {
		return errors.New("--folder is required with --save")
	}
	if err := c.ensureFolder(ctx); err != nil {
		return err
	}

	name := c.config.Name
	if name == "" {
		name = rootName(graph)
	}
	bom, err := c.workspace.Planner.SaveBOM(ctx, c.config.FolderID, name, graph)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.config.writer(), "💾 Saved BOM %s (%s) in folder %s\n", bom.ID, bom.Name, bom.FolderID)
	c.config.logf("   Signature: %s\n", bom.Signature)
	return nil
}

// ensureFolder creates the target folder on first use
func (c *BuildCommand) ensureFolder(ctx context.Context) error {
	_, err := c.workspace.Folders.GetFolder(ctx, c.config.FolderID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to load folder %s: %w", c.config.FolderID, err)
	}

	folder, err := entities.NewFolder(c.config.FolderID, c.config.FolderID)
	if err != nil {
		return err
	}
	if err := c.workspace.Folders.SaveFolder(ctx, folder); err != nil {
		return fmt.Errorf("failed to create folder %s: %w", c.config.FolderID, err)
	}
	c.config.logf("📁 Created folder %s\n", folder.ID)
	return nil
}

// rootName is the name of the first node without an incoming edge
func rootName(graph entities.Graph) string {
	targets := make(map[string]bool, len(graph.Edges))
	for _, e := range graph.Edges {
		targets[e.Target] = true
	}
	for _, n := range graph.Nodes {
		if !targets[n.ID] {
			return n.Name()
		}
	}
	return "BOM"
}
