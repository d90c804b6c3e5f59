package repositories

import (
	"context"

	"github.com/vsinha/bomplan/pkg/domain/entities"
)

// ComponentRepository provides access to component definitions
type ComponentRepository interface {
	SaveComponent(ctx context.Context, component *entities.Component) error
	GetComponent(ctx context.Context, folderID, id string) (*entities.Component, error)
	ListComponents(ctx context.Context, folderID string) ([]*entities.Component, error)
	DeleteComponent(ctx context.Context, folderID, id string) error
}
