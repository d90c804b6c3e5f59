package repositories

import (
	"context"

	"github.com/vsinha/bomplan/pkg/domain/entities"
)

// BOMRepository stores saved BOM snapshots. Implementations hand out copies
// so a stored snapshot never changes after SaveBOM.
type BOMRepository interface {
	SaveBOM(ctx context.Context, bom *entities.SavedBOM) error
	GetBOM(ctx context.Context, folderID, id string) (*entities.SavedBOM, error)
	ListBOMs(ctx context.Context, folderID string) ([]*entities.SavedBOM, error)
	DeleteBOM(ctx context.Context, folderID, id string) error
}
