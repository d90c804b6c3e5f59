package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vsinha/bomplan/pkg/infrastructure/config"
	"github.com/vsinha/bomplan/pkg/interfaces/cli/commands"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// appState carries the configuration loaded before any subcommand runs
type appState struct {
	cfg config.Config
}

func (s *appState) workspace() (*commands.Workspace, error) {
	return commands.OpenWorkspace(commands.StoreOptions{
		Driver:          s.cfg.Database.Driver,
		DSN:             s.cfg.Database.DSN,
		MaxCacheEntries: s.cfg.Cache.MaxEntries,
		Verbose:         s.cfg.Verbose,
	})
}

func newRootCmd() *cobra.Command {
	state := &appState{}

	cmd := &cobra.Command{
		Use:           "bomplan",
		Short:         "BOM editing backend with EOQ and MRP planning",
		Long:          "bomplan validates and converts bills of materials and plans them with EOQ and MRP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return state.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default .bomplan.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.String("db-driver", "", "store driver: sqlite, mysql or memory")
	flags.String("db-dsn", "", "store data source name")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newValidateCmd(state))
	cmd.AddCommand(newBuildCmd(state))
	cmd.AddCommand(newExpandCmd(state))
	cmd.AddCommand(newEOQCmd(state))
	cmd.AddCommand(newMRPCmd(state))
	cmd.AddCommand(newSeedCmd(state))
	cmd.AddCommand(newServeCmd(state))
	return cmd
}

// load reads .env, the config file, BOMPLAN_* variables and root flags
func (s *appState) load(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("failed to read .env: %v", err)
	}

	cfgFile, _ := cmd.Root().PersistentFlags().GetString("config")
	if err := config.Init(cfgFile); err != nil {
		return err
	}

	root := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		"verbose":         "verbose",
		"database.driver": "db-driver",
		"database.dsn":    "db-dsn",
	} {
		if f := root.Lookup(flag); f != nil && f.Changed {
			if err := viper.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	s.cfg = cfg
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bomplan %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func execute(ctx context.Context, cmd *cobra.Command) int {
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, newRootCmd())
	stop()
	os.Exit(code)
}
