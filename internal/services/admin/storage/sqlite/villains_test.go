package sqlite

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/louisbranch/umsra/internal/platform/errors"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
)

func TestVillainCRUD(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	v := villain("Loki")
	v.Count = 0
	id := mustCreateVillain(t, store, v)

	got, err := store.GetVillain(ctx, id)
	if err != nil {
		t.Fatalf("get villain: %v", err)
	}
	if got.Count != 1 || !got.IsUnique || got.Gender != storage.GenderOther {
		t.Fatalf("villain defaults = %+v", got)
	}

	got.PowerFactor = 90
	if err := store.UpdateVillain(ctx, got); err != nil {
		t.Fatalf("update villain: %v", err)
	}
	got.Count = 0
	err = store.UpdateVillain(ctx, got)
	wantCode(t, err, apperrors.CodeCountOutOfRange)

	if _, err := store.GetVillain(ctx, 999); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get missing err = %v", err)
	}
	if n, err := store.DeleteVillains(ctx, []int64{id}); err != nil || n != 1 {
		t.Fatalf("delete villains = %d, %v", n, err)
	}
}

func TestMakeVillainsUnique(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	keep := villain("Fenrir")
	keep.IsUnique = false
	keepID := mustCreateVillain(t, store, keep)

	dupe := villain("FENRIR")
	dupe.Count = 2
	mustCreateVillain(t, store, dupe)
	mustCreateVillain(t, store, villain("fenrir"))
	otherID := mustCreateVillain(t, store, villain("Hel"))

	deleted, err := store.MakeVillainsUnique(ctx, []int64{keepID})
	if err != nil {
		t.Fatalf("make unique: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}

	got, err := store.GetVillain(ctx, keepID)
	if err != nil {
		t.Fatalf("get kept villain: %v", err)
	}
	if got.Count != 4 || !got.IsUnique {
		t.Fatalf("kept villain count=%d unique=%v, want 4/true", got.Count, got.IsUnique)
	}

	page, err := store.ListVillains(ctx, storage.ListQuery{})
	if err != nil {
		t.Fatalf("list villains: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("remaining villains = %d, want 2", page.Total)
	}
	if _, err := store.GetVillain(ctx, otherID); err != nil {
		t.Fatalf("unrelated villain removed: %v", err)
	}
}

func TestMakeVillainsUniqueSkipsMergedSelections(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	a := mustCreateVillain(t, store, villain("Surtr"))
	b := mustCreateVillain(t, store, villain("surtr"))

	deleted, err := store.MakeVillainsUnique(ctx, []int64{a, b})
	if err != nil {
		t.Fatalf("make unique: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}
	got, err := store.GetVillain(ctx, a)
	if err != nil {
		t.Fatalf("get kept villain: %v", err)
	}
	if got.Count != 2 {
		t.Fatalf("count = %d, want 2", got.Count)
	}
}

func TestImportVillainsIsAllOrNothing(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	fenrir := villain("Fenrir")
	fenrir.OriginName = "Jotunheim"
	hydra := villain("Hydra")
	hydra.Count = -1

	_, err := store.ImportVillains(ctx, []storage.Villain{fenrir, hydra})
	var rowErr *storage.RowError
	if !errors.As(err, &rowErr) || rowErr.Row != 1 {
		t.Fatalf("err = %v, want row 1 error", err)
	}
	wantCode(t, err, apperrors.CodeCountOutOfRange)
	villains, _ := store.ListVillains(ctx, storage.ListQuery{})
	origins, _ := store.ListOriginsWithCounts(ctx, storage.ListQuery{})
	if villains.Total != 0 || origins.Total != 0 {
		t.Fatalf("failed import left %d villains and %d origins", villains.Total, origins.Total)
	}

	if n, err := store.ImportVillains(ctx, []storage.Villain{fenrir}); err != nil || n != 1 {
		t.Fatalf("ImportVillains() = %d, %v", n, err)
	}
}
