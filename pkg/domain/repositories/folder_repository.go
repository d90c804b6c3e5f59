package repositories

import (
	"context"
	"errors"

	"github.com/vsinha/bomplan/pkg/domain/entities"
)

// ErrNotFound is returned when a folder, component or BOM does not exist
var ErrNotFound = errors.New("not found")

// FolderRepository provides access to folders
type FolderRepository interface {
	SaveFolder(ctx context.Context, folder *entities.Folder) error
	GetFolder(ctx context.Context, id string) (*entities.Folder, error)
	ListFolders(ctx context.Context) ([]*entities.Folder, error)
}
