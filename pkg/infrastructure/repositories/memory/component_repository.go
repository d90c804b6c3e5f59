package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/bomplan/pkg/domain/entities"
	"github.com/vsinha/bomplan/pkg/domain/repositories"
)

// ComponentRepository keeps component definitions in memory
type ComponentRepository struct {
	mu         sync.RWMutex
	components map[string]entities.Component
}

func NewComponentRepository() *ComponentRepository {
	return &ComponentRepository{
		components: make(map[string]entities.Component),
	}
}

// Verify interface compliance
var _ repositories.ComponentRepository = (*ComponentRepository)(nil)

func (r *ComponentRepository) SaveComponent(ctx context.Context, component *entities.Component) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if component == nil {
		return fmt.Errorf("component cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[bomKey(component.FolderID, component.ID)] = *component
	return nil
}

func (r *ComponentRepository) GetComponent(ctx context.Context, folderID, id string) (*entities.Component, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	component, exists := r.components[bomKey(folderID, id)]
	if !exists {
		return nil, fmt.Errorf("component %s: %w", id, repositories.ErrNotFound)
	}
	return &component, nil
}

// ListComponents returns the components of folderID sorted by name
func (r *ComponentRepository) ListComponents(ctx context.Context, folderID string) ([]*entities.Component, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	components := make([]*entities.Component, 0)
	for _, c := range r.components {
		if c.FolderID == folderID {
			copied := c
			components = append(components, &copied)
		}
	}
	sort.Slice(components, func(i, j int) bool {
		if components[i].Name != components[j].Name {
			return components[i].Name < components[j].Name
		}
		return components[i].ID < components[j].ID
	})
	return components, nil
}

func (r *ComponentRepository) DeleteComponent(ctx context.Context, folderID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := bomKey(folderID, id)
	if _, exists := r.components[key]; !exists {
		return fmt.Errorf("component %s: %w", id, repositories.ErrNotFound)
	}
	delete(r.components, key)
	return nil
}
