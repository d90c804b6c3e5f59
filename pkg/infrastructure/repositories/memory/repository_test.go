package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/vsinha/bomplan/pkg/domain/entities"
	"github.com/vsinha/bomplan/pkg/domain/repositories"
	"github.com/vsinha/bomplan/pkg/infrastructure/samples"
)

func TestBOMRepository_SaveAndGetBOM(t *testing.T) {
	ctx := context.Background()
	repo := NewBOMRepository(4)

	bom, err := entities.NewSavedBOM("bom-1", "f1", "", samples.AlphaBOM())
	if err != nil {
		t.Fatalf("Failed to create bom: %v", err)
	}
	if err := repo.SaveBOM(ctx, bom); err != nil {
		t.Fatalf("Failed to save bom: %v", err)
	}

	got, err := repo.GetBOM(ctx, "f1", "bom-1")
	if err != nil {
		t.Fatalf("Failed to get bom: %v", err)
	}
	if got.Name != "Alpha" {
		t.Errorf("Expected name Alpha, got %s", got.Name)
	}
	if got.Tree.Signature() != bom.Signature {
		t.Error("Expected stored tree to match the saved signature")
	}

	// Edits to a returned copy never reach the store
	got.Tree.Children = nil
	again, _ := repo.GetBOM(ctx, "f1", "bom-1")
	if len(again.Tree.Children) != 2 {
		t.Errorf("Expected stored snapshot to keep 2 children, got %d", len(again.Tree.Children))
	}

	if _, err := repo.GetBOM(ctx, "f2", "bom-1"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for another folder, got %v", err)
	}
}

func TestBOMRepository_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewBOMRepository(0)

	for _, id := range []string{"a", "b", "c"} {
		bom, _ := entities.NewSavedBOM(id, "f1", id, samples.SkateBOM())
		if err := repo.SaveBOM(ctx, bom); err != nil {
			t.Fatalf("Failed to save bom %s: %v", id, err)
		}
	}
	other, _ := entities.NewSavedBOM("x", "f2", "x", samples.SkateBOM())
	_ = repo.SaveBOM(ctx, other)

	if err := repo.DeleteBOM(ctx, "f1", "b"); err != nil {
		t.Fatalf("Failed to delete bom: %v", err)
	}
	if err := repo.DeleteBOM(ctx, "f1", "b"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}

	boms, err := repo.ListBOMs(ctx, "f1")
	if err != nil {
		t.Fatalf("Failed to list boms: %v", err)
	}
	if len(boms) != 2 || boms[0].ID != "a" || boms[1].ID != "c" {
		t.Errorf("Expected boms [a c], got %d entries", len(boms))
	}

	// Indexes must still resolve after the removal shifted entries
	if got, err := repo.GetBOM(ctx, "f1", "c"); err != nil || got.ID != "c" {
		t.Errorf("Expected to find bom c after delete, got %v", err)
	}
}

func TestBOMRepository_HonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewBOMRepository(0)
	if _, err := repo.ListBOMs(ctx, "f1"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestComponentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewComponentRepository()

	for _, c := range samples.AlphaComponents() {
		if err := repo.SaveComponent(ctx, c); err != nil {
			t.Fatalf("Failed to save component: %v", err)
		}
	}

	components, err := repo.ListComponents(ctx, samples.FolderID)
	if err != nil {
		t.Fatalf("Failed to list components: %v", err)
	}
	if len(components) != 6 || components[0].Name != "Alpha" || components[5].Name != "F" {
		t.Fatalf("Expected 6 components sorted by name, got %d", len(components))
	}

	got, err := repo.GetComponent(ctx, samples.FolderID, "cmp-c")
	if err != nil {
		t.Fatalf("Failed to get component: %v", err)
	}
	if got.Name != "C" {
		t.Errorf("Expected component C, got %s", got.Name)
	}

	if err := repo.DeleteComponent(ctx, samples.FolderID, "cmp-c"); err != nil {
		t.Fatalf("Failed to delete component: %v", err)
	}
	if _, err := repo.GetComponent(ctx, samples.FolderID, "cmp-c"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestFolderRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewFolderRepository()

	for _, name := range []string{"Zulu", "Alpha"} {
		folder, _ := entities.NewFolder("id-"+name, name)
		if err := repo.SaveFolder(ctx, folder); err != nil {
			t.Fatalf("Failed to save folder: %v", err)
		}
	}

	folders, err := repo.ListFolders(ctx)
	if err != nil {
		t.Fatalf("Failed to list folders: %v", err)
	}
	if len(folders) != 2 || folders[0].Name != "Alpha" {
		t.Errorf("Expected folders sorted by name, got %d", len(folders))
	}

	if _, err := repo.GetFolder(ctx, "missing"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSeed_PopulatesRepositories(t *testing.T) {
	ctx := context.Background()
	folders := NewFolderRepository()
	components := NewComponentRepository()
	boms := NewBOMRepository(2)

	saved, err := samples.Seed(ctx, folders, components, boms)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("Expected 2 sample boms, got %d", len(saved))
	}

	list, _ := components.ListComponents(ctx, samples.FolderID)
	if len(list) != 13 {
		t.Errorf("Expected 13 sample components, got %d", len(list))
	}
	if _, err := boms.GetBOM(ctx, samples.FolderID, "bom-skate"); err != nil {
		t.Errorf("Expected skate bom to be stored: %v", err)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := map[uint64]string{
		512:         "512 B",
		2048:        "2.0 KB",
		5 * 1 << 20: "5.0 MB",
	}
	for in, want := range cases {
		if got := FormatBytes(in); got != want {
			t.Errorf("FormatBytes(%d): expected %s, got %s", in, want, got)
		}
	}
}
