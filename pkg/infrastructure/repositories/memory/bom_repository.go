package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/bomplan/pkg/domain/entities"
	"github.com/vsinha/bomplan/pkg/domain/repositories"
)

// BOMRepository keeps saved BOM snapshots in memory, in insertion order
type BOMRepository struct {
	mu      sync.RWMutex
	boms    []*entities.SavedBOM
	indexes map[string]int
}

// NewBOMRepository creates a BOM repository sized for expectedBOMs snapshots
func NewBOMRepository(expectedBOMs int) *BOMRepository {
	return &BOMRepository{
		boms:    make([]*entities.SavedBOM, 0, expectedBOMs),
		indexes: make(map[string]int, expectedBOMs),
	}
}

// Verify interface compliance
var _ repositories.BOMRepository = (*BOMRepository)(nil)

func bomKey(folderID, id string) string {
	return folderID + "/" + id
}

// SaveBOM stores a copy of bom, replacing any snapshot with the same id
func (r *BOMRepository) SaveBOM(ctx context.Context, bom *entities.SavedBOM) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if bom == nil || bom.Tree == nil {
		return fmt.Errorf("bom cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := bomKey(bom.FolderID, bom.ID)
	if index, exists := r.indexes[key]; exists {
		r.boms[index] = bom.Clone()
		return nil
	}
	r.indexes[key] = len(r.boms)
	r.boms = append(r.boms, bom.Clone())
	return nil
}

// GetBOM returns a copy of the snapshot
func (r *BOMRepository) GetBOM(ctx context.Context, folderID, id string) (*entities.SavedBOM, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.indexes[bomKey(folderID, id)]
	if !exists {
		return nil, fmt.Errorf("bom %s: %w", id, repositories.ErrNotFound)
	}
	return r.boms[index].Clone(), nil
}

// ListBOMs returns copies of every snapshot in folderID
func (r *BOMRepository) ListBOMs(ctx context.Context, folderID string) ([]*entities.SavedBOM, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	boms := make([]*entities.SavedBOM, 0)
	for _, bom := range r.boms {
		if bom.FolderID == folderID {
			boms = append(boms, bom.Clone())
		}
	}
	return boms, nil
}

func (r *BOMRepository) DeleteBOM(ctx context.Context, folderID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := bomKey(folderID, id)
	index, exists := r.indexes[key]
	if !exists {
		return fmt.Errorf("bom %s: %w", id, repositories.ErrNotFound)
	}

	r.boms = append(r.boms[:index], r.boms[index+1:]...)
	delete(r.indexes, key)
	for i := index; i < len(r.boms); i++ {
		r.indexes[bomKey(r.boms[i].FolderID, r.boms[i].ID)] = i
	}
	return nil
}
