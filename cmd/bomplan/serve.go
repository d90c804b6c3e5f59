package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/vsinha/bomplan/pkg/infrastructure/repositories/gormstore"
	"github.com/vsinha/bomplan/pkg/interfaces/httpapi"
)

func newServeCmd(state *appState) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API used by the BOM editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := state.workspace()
			if err != nil {
				return err
			}
			defer ws.Close()

			if !cmd.Flags().Changed("port") {
				port = state.cfg.Server.Port
			}
			log.Printf("serving %s store %s", state.cfg.Database.Driver,
				gormstore.RedactDSN(state.cfg.Database.Driver, state.cfg.Database.DSN))

			return httpapi.Start(cmd.Context(), httpapi.StartOpts{
				Planner:    ws.Planner,
				Folders:    ws.Folders,
				Components: ws.Components,
				BOMs:       ws.BOMs,
				Port:       port,
				Out:        cmd.OutOrStdout(),
				Verbose:    state.cfg.Verbose,
			})
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on")
	return cmd
}
