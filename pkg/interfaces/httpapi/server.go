package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vsinha/bomplan/pkg/application/services/orchestration"
	"github.com/vsinha/bomplan/pkg/domain/repositories"
)

// StartOpts holds configuration for the API server.
type StartOpts struct {
	Planner    *orchestration.PlanningOrchestrator
	Folders    repositories.FolderRepository
	Components repositories.ComponentRepository
	BOMs       repositories.BOMRepository
	Port       int
	Out        io.Writer
	Verbose    bool
}

// Start launches the API server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.Planner == nil {
		return fmt.Errorf("httpapi: planner is required")
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           NewRouter(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "🌐 API listening on http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("httpapi: %w", err)
	}
	return nil
}

// NewRouter builds the gin engine with every route registered
func NewRouter(opts StartOpts) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if opts.Verbose {
		router.Use(gin.Logger())
	}

	registerRoutes(router, &handlers{
		planner:    opts.Planner,
		folders:    opts.Folders,
		components: opts.Components,
		boms:       opts.BOMs,
	})
	return router
}
