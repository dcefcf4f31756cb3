package seed

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
	adminsqlite "github.com/louisbranch/umsra/internal/services/admin/storage/sqlite"
)

func openStore(t *testing.T) *adminsqlite.Store {
	t.Helper()
	store, err := adminsqlite.Open(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func heroByName(t *testing.T, store *adminsqlite.Store, name string) storage.Hero {
	t.Helper()
	page, err := store.ListHeroes(context.Background(), storage.ListQuery{Filter: `name = "` + name + `"`})
	if err != nil {
		t.Fatalf("list heroes: %v", err)
	}
	if len(page.Rows) != 1 {
		t.Fatalf("heroes named %q = %d", name, len(page.Rows))
	}
	return page.Rows[0]
}

func TestRunDefaultFixture(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	fixture, err := LoadFile("")
	if err != nil {
		t.Fatalf("load default fixture: %v", err)
	}
	var out bytes.Buffer
	got, err := Run(ctx, store, fixture, Options{Verbose: true, Out: &out})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := Result{Categories: 2, Origins: 3, Heroes: 8, Villains: 3, Epics: 2, Events: 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out.String(), "hero Zeus") {
		t.Fatalf("verbose output missing hero line:\n%s", out.String())
	}

	zeus := heroByName(t, store, "Zeus")
	cronus := heroByName(t, store, "Cronus")
	rhea := heroByName(t, store, "Rhea")
	hera := heroByName(t, store, "Hera")
	if zeus.FatherID != cronus.ID || zeus.MotherID != rhea.ID || zeus.SpouseID != hera.ID {
		t.Fatalf("zeus family = father %d mother %d spouse %d", zeus.FatherID, zeus.MotherID, zeus.SpouseID)
	}
	if heroByName(t, store, "Hera").BenevolenceFactor != storage.DefaultFactor {
		t.Fatal("missing benevolence should default")
	}

	acquaintance, err := store.GetAcquaintance(ctx, zeus.ID)
	if err != nil {
		t.Fatalf("get acquaintance: %v", err)
	}
	if len(acquaintance.Friends) != 1 || len(acquaintance.Detractors) != 1 || len(acquaintance.MainAntagonists) != 1 {
		t.Fatalf("acquaintance = %+v", acquaintance)
	}

	villains, err := store.ListVillains(ctx, storage.ListQuery{OrderBy: "name"})
	if err != nil {
		t.Fatalf("list villains: %v", err)
	}
	giant := villains.Rows[0]
	if giant.Name != "Frost giant" || giant.IsUnique || giant.Count != 12 {
		t.Fatalf("frost giant = %+v", giant)
	}
	if !villains.Rows[1].IsUnique || villains.Rows[1].Count != 1 {
		t.Fatalf("loki = %+v", villains.Rows[1])
	}

	links, err := store.ListEventHeroes(ctx, storage.ListQuery{})
	if err != nil {
		t.Fatalf("list event heroes: %v", err)
	}
	if links.Total != 4 {
		t.Fatalf("event heroes = %d, want 4", links.Total)
	}
}

func TestRunReusesExistingCategories(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	existing, err := store.CreateCategory(ctx, storage.Category{Name: "Greek"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	fixture := Fixture{Heroes: []HeroFixture{{EntityFixture: EntityFixture{Name: "Achilles", Category: "Greek"}}}}
	if _, err := Run(ctx, store, fixture, Options{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := heroByName(t, store, "Achilles").CategoryID; got != existing {
		t.Fatalf("category id = %d, want %d", got, existing)
	}
	page, err := store.ListCategories(ctx, storage.ListQuery{})
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("categories = %d, want 1", page.Total)
	}
}

func TestRunRejectsBadReferences(t *testing.T) {
	tests := []struct {
		name    string
		fixture Fixture
		want    string
	}{
		{
			name:    "unknown father",
			fixture: Fixture{Heroes: []HeroFixture{{EntityFixture: EntityFixture{Name: "Perseus"}, Father: "Nobody"}}},
			want:    `unknown hero "Nobody"`,
		},
		{
			name:    "unknown antagonist",
			fixture: Fixture{Heroes: []HeroFixture{{EntityFixture: EntityFixture{Name: "Perseus"}, Antagonists: []string{"Medusa"}}}},
			want:    `unknown villain "Medusa"`,
		},
		{
			name: "duplicate hero",
			fixture: Fixture{Heroes: []HeroFixture{
				{EntityFixture: EntityFixture{Name: "Perseus"}},
				{EntityFixture: EntityFixture{Name: "perseus"}},
			}},
			want: `duplicate hero "perseus"`,
		},
		{
			name:    "bad gender",
			fixture: Fixture{Villains: []VillainFixture{{EntityFixture: EntityFixture{Name: "Medusa", Gender: "gorgon"}}}},
			want:    `unknown gender "gorgon"`,
		},
		{
			name:    "negative years",
			fixture: Fixture{Epics: []EpicFixture{{Name: "Perseid", Events: []EventFixture{{YearsAgo: -1}}}}},
			want:    "years ago cannot be negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(context.Background(), openStore(t), tt.fixture, Options{})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Run() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, openStore(t), Fixture{Categories: []string{"Greek"}}, Options{}); err == nil {
		t.Fatal("expected context error")
	}
}

func TestParse(t *testing.T) {
	fixture, err := Parse([]byte("categories: [Greek]\nvillains:\n  - name: Medusa\n    unique: false\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(fixture.Villains) != 1 || fixture.Villains[0].Unique == nil || *fixture.Villains[0].Unique {
		t.Fatalf("villains = %+v", fixture.Villains)
	}

	if _, err := Parse([]byte("heroes:\n  - name: Perseus\n    wings: true\n")); err == nil {
		t.Fatal("expected unknown field error")
	}
	if _, err := Parse([]byte("categories: [A]\n---\ncategories: [B]\n")); err == nil {
		t.Fatal("expected multiple document error")
	}
	empty, err := Parse(nil)
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	if diff := cmp.Diff(Fixture{}, empty); diff != "" {
		t.Fatalf("empty fixture mismatch:\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	if err := os.WriteFile(path, []byte("origins: [Olympus]\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	fixture, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"Olympus"}, fixture.Origins); diff != "" {
		t.Fatalf("origins mismatch:\n%s", diff)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
