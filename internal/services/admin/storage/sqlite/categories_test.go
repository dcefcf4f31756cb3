package sqlite

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/louisbranch/umsra/internal/platform/errors"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
)

func TestCategoryCRUD(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	id := mustCreateCategory(t, store, "  Norse ")
	got, err := store.GetCategory(ctx, id)
	if err != nil {
		t.Fatalf("get category: %v", err)
	}
	if got.Name != "Norse" {
		t.Fatalf("name = %q, want %q", got.Name, "Norse")
	}

	if _, err := store.CreateCategory(ctx, storage.Category{Name: "Norse"}); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate create err = %v, want ErrAlreadyExists", err)
	}
	_, err = store.CreateCategory(ctx, storage.Category{Name: ""})
	wantCode(t, err, apperrors.CodeNameRequired)

	if err := store.UpdateCategory(ctx, storage.Category{ID: id, Name: "Greek"}); err != nil {
		t.Fatalf("update category: %v", err)
	}
	if err := store.UpdateCategory(ctx, storage.Category{ID: 999, Name: "Roman"}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("update missing err = %v, want ErrNotFound", err)
	}

	n, err := store.DeleteCategories(ctx, []int64{id, 999})
	if err != nil {
		t.Fatalf("delete categories: %v", err)
	}
	if n != 1 {
		t.Fatalf("deleted = %d, want 1", n)
	}
	if _, err := store.GetCategory(ctx, id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get deleted err = %v, want ErrNotFound", err)
	}
}

func TestDeleteCategorySetsEntityCategoryNull(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	catID := mustCreateCategory(t, store, "Norse")
	h := hero("Thor")
	h.CategoryID = catID
	heroID := mustCreateHero(t, store, h)

	if _, err := store.DeleteCategories(ctx, []int64{catID}); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	got, err := store.GetHero(ctx, heroID)
	if err != nil {
		t.Fatalf("get hero: %v", err)
	}
	if got.CategoryID != 0 || got.CategoryName != "" {
		t.Fatalf("category = %d/%q, want unset", got.CategoryID, got.CategoryName)
	}
}

func TestListCategoriesSearchAndPaging(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	for _, name := range []string{"Norse", "Greek", "Egyptian", "Nordic"} {
		mustCreateCategory(t, store, name)
	}

	page, err := store.ListCategories(ctx, storage.ListQuery{Search: "nor"})
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if page.Total != 2 || len(page.Rows) != 2 {
		t.Fatalf("search total=%d rows=%d, want 2/2", page.Total, len(page.Rows))
	}
	if page.Rows[0].Name != "Nordic" {
		t.Fatalf("first row = %q, want Nordic", page.Rows[0].Name)
	}

	page, err = store.ListCategories(ctx, storage.ListQuery{OrderBy: "name desc", Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("list categories paged: %v", err)
	}
	if page.Total != 4 || len(page.Rows) != 2 {
		t.Fatalf("paged total=%d rows=%d, want 4/2", page.Total, len(page.Rows))
	}
	if page.Rows[0].Name != "Nordic" || page.Rows[1].Name != "Greek" {
		t.Fatalf("paged rows = %v", page.Rows)
	}

	_, err = store.ListCategories(ctx, storage.ListQuery{OrderBy: "color"})
	wantCode(t, err, apperrors.CodeInvalidOrder)
	_, err = store.ListCategories(ctx, storage.ListQuery{Filter: "color = 1"})
	wantCode(t, err, apperrors.CodeInvalidFilter)
}

func TestGetOrCreateCategory(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	first, err := store.GetOrCreateCategory(ctx, "Norse")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	second, err := store.GetOrCreateCategory(ctx, " Norse ")
	if err != nil {
		t.Fatalf("get or create again: %v", err)
	}
	if first.ID == 0 || first.ID != second.ID {
		t.Fatalf("ids = %d/%d, want equal non-zero", first.ID, second.ID)
	}
	_, err = store.GetOrCreateCategory(ctx, "")
	wantCode(t, err, apperrors.CodeNameRequired)
}
