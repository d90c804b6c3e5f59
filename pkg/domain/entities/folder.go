package entities

import (
	"fmt"
	"time"
)

// Folder groups component definitions and saved BOMs
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SavedBOM is an immutable snapshot of a collapsed BOM tree
type SavedBOM struct {
	ID        string    `json:"id"`
	FolderID  string    `json:"folder_id"`
	Name      string    `json:"name"`
	Tree      *BOMNode  `json:"tree"`
	Signature string    `json:"signature"`
	CreatedAt time.Time `json:"created_at"`
}

// NewFolder creates a validated Folder
func NewFolder(id, name string) (*Folder, error) {
	if id == "" {
		return nil, fmt.Errorf("folder id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("folder name cannot be empty")
	}
	return &Folder{ID: id, Name: name, CreatedAt: time.Now().UTC()}, nil
}

// NewComponent creates a validated component definition
func NewComponent(id, folderID, name string, attrs Attributes) (*Component, error) {
	if id == "" {
		return nil, fmt.Errorf("component id cannot be empty")
	}
	if folderID == "" {
		return nil, fmt.Errorf("folder id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("component name cannot be empty")
	}
	return &Component{ID: id, FolderID: folderID, Name: name, Attributes: attrs.Normalized()}, nil
}

// NewSavedBOM snapshots tree into a SavedBOM. The tree is deep-copied so
// later edits by the caller do not reach the snapshot.
func NewSavedBOM(id, folderID, name string, tree *BOMNode) (*SavedBOM, error) {
	if id == "" {
		return nil, fmt.Errorf("bom id cannot be empty")
	}
	if folderID == "" {
		return nil, fmt.Errorf("folder id cannot be empty")
	}
	if tree == nil {
		return nil, fmt.Errorf("bom tree cannot be nil")
	}
	if name == "" {
		name = tree.Component
	}

	snapshot := tree.Clone()
	return &SavedBOM{
		ID:        id,
		FolderID:  folderID,
		Name:      name,
		Tree:      snapshot,
		Signature: snapshot.Signature(),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Clone returns a deep copy of the saved BOM
func (b *SavedBOM) Clone() *SavedBOM {
	copied := *b
	copied.Tree = b.Tree.Clone()
	return &copied
}
