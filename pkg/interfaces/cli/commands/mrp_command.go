package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/vsinha/bomplan/pkg/application/dto"
	"github.com/vsinha/bomplan/pkg/infrastructure/events"
	"github.com/vsinha/bomplan/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/bomplan/pkg/interfaces/cli/output"
)

// MRPCommand handles the main MRP execution logic
type MRPCommand struct {
	config    Config
	workspace *Workspace
}

// NewMRPCommand creates a new MRP command with the given configuration
func NewMRPCommand(config Config, workspace *Workspace) *MRPCommand {
	return &MRPCommand{
		config:    config,
		workspace: workspace,
	}
}

// Execute runs the MRP command. With Watch set it keeps recomputing whenever
// an input file changes until ctx is cancelled.
func (c *MRPCommand) Execute(ctx context.Context) error {
	if c.config.Verbose {
		c.printHeader()

		logger := &events.HandlerFunc{Fn: func(e events.Event) error {
			fmt.Fprintf(c.config.writer(), "📣 %s on %s\n", e.Type(), e.StreamID())
			return nil
		}}
		if err := c.workspace.Events.Subscribe([]string{events.MRPComputedEvent}, logger); err != nil {
			return err
		}
		defer c.workspace.Events.Unsubscribe(logger)
	}

	if !c.config.Watch {
		return c.run(ctx)
	}

	files := c.inputFiles()
	if len(files) == 0 {
		return errors.New("--watch needs at least one input file")
	}
	if err := c.run(ctx); err != nil {
		fmt.Fprintf(c.config.writer(), "❌ %v\n", err)
	}
	return watchFiles(ctx, files, func(changed string) {
		fmt.Fprintf(c.config.writer(), "🔄 %s changed, recomputing...\n", changed)
		if err := c.run(ctx); err != nil {
			fmt.Fprintf(c.config.writer(), "❌ %v\n", err)
		}
	})
}

// run loads the inputs, plans and renders one result
func (c *MRPCommand) run(ctx context.Context) error {
	tree, bomID, err := c.config.loadTree(ctx, c.workspace)
	if err != nil {
		return err
	}
	schedule, err := c.config.loadSchedule()
	if err != nil {
		return err
	}
	c.config.logf("📂 Loaded %s (%d nodes) and %d orders\n", tree.Component, tree.Count(), len(schedule.Orders))

	c.config.logf("🔄 Running MRP...\n")
	startTime := time.Now()
	var result *dto.MRPResult
	if bomID != "" {
		result, err = c.workspace.Planner.RunMRP(ctx, c.config.FolderID, bomID, schedule)
	} else {
		result, err = c.workspace.Planner.MRPForTree(tree, schedule)
	}
	planningTime := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("error running MRP: %w", err)
	}
	c.workspace.Events.Wait()
	c.config.logf("✅ MRP completed in %v\n\n", planningTime)

	outputConfig := output.Config{
		Format:      c.config.Format,
		OutputDir:   c.config.OutputDir,
		Verbose:     c.config.Verbose,
		Name:        tree.Component,
		ElapsedTime: planningTime,
		Out:         c.config.writer(),
	}
	if err := output.GenerateMRP(result, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Format == "json" || c.config.Format == "csv" {
		if dropped := result.DroppedReleases(); len(dropped) > 0 {
			fmt.Fprintf(os.Stderr, "⚠️  %d components have releases before the planning horizon\n", len(dropped))
		}
	}

	if c.config.Verbose {
		stats := memory.GetMemoryStats()
		fmt.Fprintf(c.config.writer(), "🧠 Memory: %s allocated, %d heap objects\n",
			memory.FormatBytes(stats.AllocBytes), stats.HeapObjects)
		fmt.Fprintln(c.config.writer(), "🏁 MRP analysis complete!")
	}
	return nil
}

// inputFiles lists the files a watch should follow
func (c *MRPCommand) inputFiles() []string {
	var files []string
	for _, f := range []string{
		c.config.TreeFile,
		c.config.GraphFile,
		c.config.NodesFile,
		c.config.EdgesFile,
		c.config.ScheduleFile,
	} {
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}

// printHeader prints the command header information
func (c *MRPCommand) printHeader() {
	out := c.config.writer()
	fmt.Fprintf(out, "🚀 BOM Planner MRP\n")
	fmt.Fprintf(out, "Inputs:\n")
	for _, f := range c.inputFiles() {
		fmt.Fprintf(out, "  %s\n", f)
	}
	if c.config.BOMID != "" {
		fmt.Fprintf(out, "  stored bom %s/%s\n", c.config.FolderID, c.config.BOMID)
	}
	if c.config.Schedule != "" {
		fmt.Fprintf(out, "  schedule %s\n", c.config.Schedule)
	}
	fmt.Fprintf(out, "Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Fprintf(out, "Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Fprintln(out)
}
