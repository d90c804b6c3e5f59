package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vsinha/bomplan/pkg/interfaces/cli/commands"
)

// executor is what every planning command in pkg/interfaces/cli/commands
// looks like
type executor interface {
	Execute(ctx context.Context) error
}

// runWith opens a workspace, fills in the shared settings and runs the
// command built by build
func runWith(
	cmd *cobra.Command,
	state *appState,
	cfg *commands.Config,
	build func(commands.Config, *commands.Workspace) executor,
) error {
	ws, err := state.workspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	c := *cfg
	c.Out = cmd.OutOrStdout()
	c.Verbose = state.cfg.Verbose
	if !cmd.Flags().Changed("format") {
		c.Format = state.cfg.Output.Format
	}
	if !cmd.Flags().Changed("output-dir") {
		c.OutputDir = state.cfg.Output.Dir
	}
	return build(c, ws).Execute(cmd.Context())
}

func addGraphFlags(cmd *cobra.Command, cfg *commands.Config) {
	cmd.Flags().StringVar(&cfg.GraphFile, "graph", "", "graph JSON document")
	cmd.Flags().StringVar(&cfg.NodesFile, "nodes", "", "graph nodes CSV")
	cmd.Flags().StringVar(&cfg.EdgesFile, "edges", "", "graph edges CSV")
	cmd.Flags().StringVar(&cfg.FolderID, "folder", "", "folder id")
}

func addTreeFlags(cmd *cobra.Command, cfg *commands.Config) {
	addGraphFlags(cmd, cfg)
	cmd.Flags().StringVar(&cfg.TreeFile, "tree", "", "tree document (.json, .yaml or .toml)")
	cmd.Flags().StringVar(&cfg.BOMID, "bom", "", "stored bom id (needs --folder)")
}

func addOutputFlags(cmd *cobra.Command, cfg *commands.Config) {
	cmd.Flags().StringVarP(&cfg.Format, "format", "f", "text", "output format")
	cmd.Flags().StringVarP(&cfg.OutputDir, "output-dir", "o", "", "directory for result files")
}

func newValidateCmd(state *appState) *cobra.Command {
	cfg := &commands.Config{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a graph forms a valid BOM",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, state, cfg, func(c commands.Config, ws *commands.Workspace) executor {
				return commands.NewValidateCommand(c, ws)
			})
		},
	}
	addGraphFlags(cmd, cfg)
	return cmd
}

func newBuildCmd(state *appState) *cobra.Command {
	cfg := &commands.Config{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Collapse a graph into a BOM tree",
		Long:  "Collapses a graph into a BOM tree and writes it out, or saves it as a BOM snapshot with --save.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, state, cfg, func(c commands.Config, ws *commands.Workspace) executor {
				return commands.NewBuildCommand(c, ws)
			})
		},
	}
	addGraphFlags(cmd, cfg)
	cmd.Flags().BoolVar(&cfg.Save, "save", false, "store the tree as a BOM snapshot in --folder")
	cmd.Flags().StringVar(&cfg.Name, "name", "", "snapshot name (default: root component)")
	cmd.Flags().StringVar(&cfg.OutputFile, "out", "", "tree document to write (.json, .yaml or .toml)")
	return cmd
}

func newExpandCmd(state *appState) *cobra.Command {
	cfg := &commands.Config{}
	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Lay a BOM tree out as an editable graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, state, cfg, func(c commands.Config, ws *commands.Workspace) executor {
				return commands.NewExpandCommand(c, ws)
			})
		},
	}
	addTreeFlags(cmd, cfg)
	cmd.Flags().Float64Var(&cfg.OriginX, "x", 0, "root x position")
	cmd.Flags().Float64Var(&cfg.OriginY, "y", 0, "root y position")
	cmd.Flags().StringVar(&cfg.OutputFile, "out", "", "graph JSON document to write")
	return cmd
}

func newEOQCmd(state *appState) *cobra.Command {
	cfg := &commands.Config{}
	cmd := &cobra.Command{
		Use:   "eoq",
		Short: "Compute economic order quantities",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, state, cfg, func(c commands.Config, ws *commands.Workspace) executor {
				return commands.NewEOQCommand(c, ws)
			})
		},
	}
	addTreeFlags(cmd, cfg)
	addOutputFlags(cmd, cfg)
	cmd.Flags().Int64VarP(&cfg.AnnualDemand, "demand", "d", 0, "annual demand for the root component")
	return cmd
}

func newMRPCmd(state *appState) *cobra.Command {
	cfg := &commands.Config{}
	cmd := &cobra.Command{
		Use:   "mrp",
		Short: "Run material requirements planning",
		Example: `  bomplan mrp --tree alpha.yaml --schedule 100,2:50,3:50
  bomplan mrp --folder samples --bom bom-skate --schedule-file orders.csv --format xlsx -o out/
  bomplan mrp --tree alpha.yaml --schedule-file orders.csv --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, state, cfg, func(c commands.Config, ws *commands.Workspace) executor {
				return commands.NewMRPCommand(c, ws)
			})
		},
	}
	addTreeFlags(cmd, cfg)
	addOutputFlags(cmd, cfg)
	cmd.Flags().StringVarP(&cfg.Schedule, "schedule", "s", "", `inline schedule, e.g. "100,2:50,3:50"`)
	cmd.Flags().StringVar(&cfg.ScheduleFile, "schedule-file", "", "schedule CSV (offset,demand)")
	cmd.Flags().BoolVarP(&cfg.Watch, "watch", "w", false, "recompute whenever an input file changes")
	return cmd
}

func newSeedCmd(state *appState) *cobra.Command {
	cfg := &commands.Config{}
	return &cobra.Command{
		Use:   "seed",
		Short: "Store the sample folder with the Alpha and Skate BOMs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWith(cmd, state, cfg, func(c commands.Config, ws *commands.Workspace) executor {
				return commands.NewSeedCommand(c, ws)
			})
		},
	}
}
