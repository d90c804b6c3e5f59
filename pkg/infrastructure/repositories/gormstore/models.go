package gormstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/vsinha/bomplan/pkg/domain/entities"
)

// FolderModel is the folders table
type FolderModel struct {
	ID        string `gorm:"primaryKey;size:64"`
	Name      string `gorm:"size:255;not null;index"`
	CreatedAt time.Time
}

func (FolderModel) TableName() string { return "folders" }

// ComponentModel is the components table. Costs keep their exact decimal
// value.
type ComponentModel struct {
	FolderID     string          `gorm:"primaryKey;size:64"`
	ID           string          `gorm:"primaryKey;size:64"`
	Name         string          `gorm:"size:255;not null;index"`
	UnitCost     decimal.Decimal `gorm:"type:decimal(20,6)"`
	OrderingCost decimal.Decimal `gorm:"type:decimal(20,6)"`
	CarryingCost decimal.Decimal `gorm:"type:decimal(20,6)"`
	NumberOnHand int64
	LeadTime     int
	LotSize      int64
	UpdatedAt    time.Time
}

func (ComponentModel) TableName() string { return "components" }

// SavedBOMModel is the boms table. The collapsed tree is stored as a JSON
// document.
type SavedBOMModel struct {
	FolderID  string         `gorm:"primaryKey;size:64"`
	ID        string         `gorm:"primaryKey;size:64"`
	Name      string         `gorm:"size:255;not null"`
	Tree      datatypes.JSON `gorm:"not null"`
	Signature string         `gorm:"size:64;index"`
	CreatedAt time.Time      `gorm:"index"`
}

func (SavedBOMModel) TableName() string { return "boms" }

func folderModel(f *entities.Folder) FolderModel {
	return FolderModel{ID: f.ID, Name: f.Name, CreatedAt: f.CreatedAt}
}

func (m FolderModel) entity() *entities.Folder {
	return &entities.Folder{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt.UTC()}
}

func componentModel(c *entities.Component) ComponentModel {
	a := c.Attributes
	return ComponentModel{
		FolderID:     c.FolderID,
		ID:           c.ID,
		Name:         c.Name,
		UnitCost:     a.UnitCost,
		OrderingCost: a.OrderingCost,
		CarryingCost: a.CarryingCost,
		NumberOnHand: int64(a.NumberOnHand),
		LeadTime:     a.LeadTime,
		LotSize:      int64(a.LotSize),
	}
}

func (m ComponentModel) entity() *entities.Component {
	return &entities.Component{
		ID:       m.ID,
		FolderID: m.FolderID,
		Name:     m.Name,
		Attributes: entities.Attributes{
			UnitCost:     m.UnitCost,
			OrderingCost: m.OrderingCost,
			CarryingCost: m.CarryingCost,
			NumberOnHand: entities.Quantity(m.NumberOnHand),
			LeadTime:     m.LeadTime,
			LotSize:      entities.Quantity(m.LotSize),
		},
	}
}

func bomModel(b *entities.SavedBOM) (SavedBOMModel, error) {
	tree, err := json.Marshal(b.Tree)
	if err != nil {
		return SavedBOMModel{}, fmt.Errorf("db: marshal tree of bom %q: %w", b.ID, err)
	}
	return SavedBOMModel{
		FolderID:  b.FolderID,
		ID:        b.ID,
		Name:      b.Name,
		Tree:      datatypes.JSON(tree),
		Signature: b.Signature,
		CreatedAt: b.CreatedAt,
	}, nil
}

func (m SavedBOMModel) entity() (*entities.SavedBOM, error) {
	var tree entities.BOMNode
	if err := json.Unmarshal(m.Tree, &tree); err != nil {
		return nil, fmt.Errorf("db: unmarshal tree of bom %q: %w", m.ID, err)
	}
	return &entities.SavedBOM{
		ID:        m.ID,
		FolderID:  m.FolderID,
		Name:      m.Name,
		Tree:      &tree,
		Signature: m.Signature,
		CreatedAt: m.CreatedAt.UTC(),
	}, nil
}
