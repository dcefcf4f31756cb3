package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
)

func TestListOriginsWithCountsIsDistinct(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	asgard := mustCreateOrigin(t, store, "Asgard")
	olympus := mustCreateOrigin(t, store, "Olympus")
	mustCreateOrigin(t, store, "Duat")

	for _, name := range []string{"Thor", "Freya", "Baldur"} {
		h := hero(name)
		h.OriginID = asgard
		mustCreateHero(t, store, h)
	}
	for _, name := range []string{"Loki", "Hel"} {
		v := villain(name)
		v.OriginID = asgard
		mustCreateVillain(t, store, v)
	}
	h := hero("Zeus")
	h.OriginID = olympus
	mustCreateHero(t, store, h)

	page, err := store.ListOriginsWithCounts(ctx, storage.ListQuery{OrderBy: "hero_count desc"})
	if err != nil {
		t.Fatalf("list origins: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("total = %d, want 3", page.Total)
	}
	type counts struct {
		Name             string
		Heroes, Villains int
	}
	var got []counts
	for _, row := range page.Rows {
		got = append(got, counts{row.Name, row.HeroCount, row.VillainCount})
	}
	want := []counts{
		{"Asgard", 3, 2},
		{"Olympus", 1, 0},
		{"Duat", 0, 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("origin counts mismatch (-want +got):\n%s", diff)
	}

	page, err = store.ListOriginsWithCounts(ctx, storage.ListQuery{OrderBy: "villain_count desc, name", Limit: 1})
	if err != nil {
		t.Fatalf("list origins by villains: %v", err)
	}
	if len(page.Rows) != 1 || page.Rows[0].Name != "Asgard" || page.Total != 3 {
		t.Fatalf("villain ordering = %+v total %d", page.Rows, page.Total)
	}
}

func TestOriginCRUD(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	id := mustCreateOrigin(t, store, "Asgard")
	if _, err := store.CreateOrigin(ctx, storage.Origin{Name: "Asgard"}); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate err = %v, want ErrAlreadyExists", err)
	}
	if err := store.UpdateOrigin(ctx, storage.Origin{ID: id, Name: "Midgard"}); err != nil {
		t.Fatalf("update origin: %v", err)
	}
	got, err := store.GetOrigin(ctx, id)
	if err != nil {
		t.Fatalf("get origin: %v", err)
	}
	if got.Name != "Midgard" {
		t.Fatalf("name = %q, want Midgard", got.Name)
	}

	o, err := store.GetOrCreateOrigin(ctx, "Midgard")
	if err != nil {
		t.Fatalf("get or create origin: %v", err)
	}
	if o.ID != id {
		t.Fatalf("get or create id = %d, want %d", o.ID, id)
	}

	if n, err := store.DeleteOrigins(ctx, []int64{id}); err != nil || n != 1 {
		t.Fatalf("delete origins = %d, %v", n, err)
	}
	if _, err := store.GetOrigin(ctx, id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get deleted err = %v", err)
	}
}
