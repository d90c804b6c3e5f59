package commands

import (
	"fmt"
	"strings"

	"github.com/vsinha/bomplan/pkg/application/services/eoq"
	"github.com/vsinha/bomplan/pkg/application/services/mrp"
	"github.com/vsinha/bomplan/pkg/application/services/orchestration"
	"github.com/vsinha/bomplan/pkg/domain/repositories"
	"github.com/vsinha/bomplan/pkg/infrastructure/events"
	"github.com/vsinha/bomplan/pkg/infrastructure/repositories/gormstore"
	"github.com/vsinha/bomplan/pkg/infrastructure/repositories/memory"
)

// DriverMemory keeps everything in process memory
const DriverMemory = "memory"

// StoreOptions selects the repositories behind a workspace
type StoreOptions struct {
	Driver          string
	DSN             string
	MaxCacheEntries int
	Verbose         bool
}

// Workspace bundles the repositories and the planner every command works on
type Workspace struct {
	Planner    *orchestration.PlanningOrchestrator
	Folders    repositories.FolderRepository
	Components repositories.ComponentRepository
	BOMs       repositories.BOMRepository
	Events     *events.InMemoryEventStore

	close func() error
}

// OpenWorkspace connects to the configured store and builds the planner on
// top of it
func OpenWorkspace(opts StoreOptions) (*Workspace, error) {
	if strings.ToLower(opts.Driver) == DriverMemory {
		return NewMemoryWorkspace(opts.MaxCacheEntries), nil
	}

	db, err := gormstore.Open(opts.Driver, opts.DSN, opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	store := gormstore.NewStore(db)

	ws := newWorkspace(store, store, store, opts.MaxCacheEntries)
	ws.close = func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return ws, nil
}

// NewMemoryWorkspace builds a workspace on in-memory repositories
func NewMemoryWorkspace(maxCacheEntries int) *Workspace {
	return newWorkspace(
		memory.NewFolderRepository(),
		memory.NewComponentRepository(),
		memory.NewBOMRepository(16),
		maxCacheEntries,
	)
}

func newWorkspace(
	folders repositories.FolderRepository,
	components repositories.ComponentRepository,
	boms repositories.BOMRepository,
	maxCacheEntries int,
) *Workspace {
	eventStore := events.NewInMemoryEventStore()
	mrpService := mrp.NewMRPServiceWithConfig(mrp.EngineConfig{
		EnableGCPacing:  true,
		MaxCacheEntries: maxCacheEntries,
	})

	return &Workspace{
		Planner:    orchestration.NewPlanningOrchestrator(eoq.NewEOQService(), mrpService, folders, boms, eventStore),
		Folders:    folders,
		Components: components,
		BOMs:       boms,
		Events:     eventStore,
	}
}

// Close waits for event handlers and releases the store
func (w *Workspace) Close() error {
	w.Events.Wait()
	if w.close == nil {
		return nil
	}
	return w.close()
}
