package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/bomplan/pkg/domain/entities"
	"github.com/vsinha/bomplan/pkg/domain/repositories"
)

// FolderRepository keeps folders in memory
type FolderRepository struct {
	mu      sync.RWMutex
	folders map[string]entities.Folder
}

func NewFolderRepository() *FolderRepository {
	return &FolderRepository{folders: make(map[string]entities.Folder)}
}

// Verify interface compliance
var _ repositories.FolderRepository = (*FolderRepository)(nil)

func (r *FolderRepository) SaveFolder(ctx context.Context, folder *entities.Folder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if folder == nil {
		return fmt.Errorf("folder cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.folders[folder.ID] = *folder
	return nil
}

func (r *FolderRepository) GetFolder(ctx context.Context, id string) (*entities.Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	folder, exists := r.folders[id]
	if !exists {
		return nil, fmt.Errorf("folder %s: %w", id, repositories.ErrNotFound)
	}
	return &folder, nil
}

// ListFolders returns every folder sorted by name
func (r *FolderRepository) ListFolders(ctx context.Context) ([]*entities.Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	folders := make([]*entities.Folder, 0, len(r.folders))
	for _, f := range r.folders {
		copied := f
		folders = append(folders, &copied)
	}
	sort.Slice(folders, func(i, j int) bool {
		return folders[i].Name < folders[j].Name
	})
	return folders, nil
}
