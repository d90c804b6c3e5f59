package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vsinha/bomplan/pkg/domain/entities"
	"github.com/vsinha/bomplan/pkg/domain/repositories"
)

// Store persists folders, components and saved BOMs through GORM
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open, migrated connection
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Verify interface compliance
var (
	_ repositories.FolderRepository    = (*Store)(nil)
	_ repositories.ComponentRepository = (*Store)(nil)
	_ repositories.BOMRepository       = (*Store)(nil)
)

func notFound(err error, what, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", what, id, repositories.ErrNotFound)
	}
	return fmt.Errorf("db: get %s %q: %w", what, id, err)
}

func (s *Store) SaveFolder(ctx context.Context, folder *entities.Folder) error {
	m := folderModel(folder)
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&m)
	if result.Error != nil {
		return fmt.Errorf("db: save folder %q: %w", folder.ID, result.Error)
	}
	return nil
}

func (s *Store) GetFolder(ctx context.Context, id string) (*entities.Folder, error) {
	var m FolderModel
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "folder", id)
	}
	return m.entity(), nil
}

func (s *Store) ListFolders(ctx context.Context) ([]*entities.Folder, error) {
	var rows []FolderModel
	if err := s.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("db: list folders: %w", err)
	}
	folders := make([]*entities.Folder, len(rows))
	for i, m := range rows {
		folders[i] = m.entity()
	}
	return folders, nil
}

func (s *Store) SaveComponent(ctx context.Context, component *entities.Component) error {
	m := componentModel(component)
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "folder_id"}, {Name: "id"}},
		UpdateAll: true,
	}).Create(&m)
	if result.Error != nil {
		return fmt.Errorf("db: save component %q: %w", component.ID, result.Error)
	}
	return nil
}

func (s *Store) GetComponent(ctx context.Context, folderID, id string) (*entities.Component, error) {
	var m ComponentModel
	err := s.db.WithContext(ctx).First(&m, "folder_id = ? AND id = ?", folderID, id).Error
	if err != nil {
		return nil, notFound(err, "component", id)
	}
	return m.entity(), nil
}

func (s *Store) ListComponents(ctx context.Context, folderID string) ([]*entities.Component, error) {
	var rows []ComponentModel
	err := s.db.WithContext(ctx).Where("folder_id = ?", folderID).Order("name, id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("db: list components of %q: %w", folderID, err)
	}
	components := make([]*entities.Component, len(rows))
	for i, m := range rows {
		components[i] = m.entity()
	}
	return components, nil
}

func (s *Store) DeleteComponent(ctx context.Context, folderID, id string) error {
	result := s.db.WithContext(ctx).Delete(&ComponentModel{}, "folder_id = ? AND id = ?", folderID, id)
	if result.Error != nil {
		return fmt.Errorf("db: delete component %q: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("component %s: %w", id, repositories.ErrNotFound)
	}
	return nil
}

func (s *Store) SaveBOM(ctx context.Context, bom *entities.SavedBOM) error {
	if bom == nil || bom.Tree == nil {
		return fmt.Errorf("bom cannot be nil")
	}
	m, err := bomModel(bom)
	if err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "folder_id"}, {Name: "id"}},
		UpdateAll: true,
	}).Create(&m)
	if result.Error != nil {
		return fmt.Errorf("db: save bom %q: %w", bom.ID, result.Error)
	}
	return nil
}

func (s *Store) GetBOM(ctx context.Context, folderID, id string) (*entities.SavedBOM, error) {
	var m SavedBOMModel
	err := s.db.WithContext(ctx).First(&m, "folder_id = ? AND id = ?", folderID, id).Error
	if err != nil {
		return nil, notFound(err, "bom", id)
	}
	return m.entity()
}

// ListBOMs returns the snapshots of folderID, oldest first
func (s *Store) ListBOMs(ctx context.Context, folderID string) ([]*entities.SavedBOM, error) {
	var rows []SavedBOMModel
	err := s.db.WithContext(ctx).Where("folder_id = ?", folderID).Order("created_at, id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("db: list boms of %q: %w", folderID, err)
	}
	boms := make([]*entities.SavedBOM, 0, len(rows))
	for _, m := range rows {
		bom, err := m.entity()
		if err != nil {
			return nil, err
		}
		boms = append(boms, bom)
	}
	return boms, nil
}

func (s *Store) DeleteBOM(ctx context.Context, folderID, id string) error {
	result := s.db.WithContext(ctx).Delete(&SavedBOMModel{}, "folder_id = ? AND id = ?", folderID, id)
	if result.Error != nil {
		return fmt.Errorf("db: delete bom %q: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("bom %s: %w", id, repositories.ErrNotFound)
	}
	return nil
}
