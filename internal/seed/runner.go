package seed

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/louisbranch/umsra/internal/services/admin/storage"
)

// Store is the persistence surface a fixture writes to.
type Store interface {
	storage.CategoryStore
	storage.OriginStore
	storage.HeroStore
	storage.VillainStore
	storage.EpicStore
}

// Result counts the records a fixture created.
type Result struct {
	Categories int
	Origins    int
	Heroes     int
	Villains   int
	Epics      int
	Events     int
}

// Options tunes a seed run.
type Options struct {
	// Verbose writes one line per created record to Out.
	Verbose bool
	Out     io.Writer
}

type runner struct {
	store      Store
	opts       Options
	categories map[string]int64
	origins    map[string]int64
	heroes     map[string]int64
	villains   map[string]int64
	result     Result
}

// Run writes fixture into store. Categories and origins are reused when a
// record with the same name already exists; every other record is created.
func Run(ctx context.Context, store Store, fixture Fixture, opts Options) (Result, error) {
	if store == nil {
		return Result{}, fmt.Errorf("seed store is required")
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	r := &runner{
		store:      store,
		opts:       opts,
		categories: map[string]int64{},
		origins:    map[string]int64{},
		heroes:     map[string]int64{},
		villains:   map[string]int64{},
	}

	steps := []struct {
		name string
		run  func(context.Context, Fixture) error
	}{
		{"categories", r.seedCategories},
		{"origins", r.seedOrigins},
		{"villains", r.seedVillains},
		{"heroes", r.seedHeroes},
		{"hero relations", r.seedHeroRelations},
		{"epics", r.seedEpics},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return r.result, err
		}
		if err := step.run(ctx, fixture); err != nil {
			return r.result, fmt.Errorf("seed %s: %w", step.name, err)
		}
	}
	return r.result, nil
}

func (r *runner) logf(format string, args ...any) {
	if r.opts.Verbose {
		fmt.Fprintf(r.opts.Out, "  → "+format+"\n", args...)
	}
}

func (r *runner) seedCategories(ctx context.Context, fixture Fixture) error {
	for _, name := range fixture.Categories {
		if _, err := r.category(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) seedOrigins(ctx context.Context, fixture Fixture) error {
	for _, name := range fixture.Origins {
		if _, err := r.origin(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// category resolves a category name, creating it on first use.
func (r *runner) category(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, nil
	}
	if id, ok := r.categories[strings.ToLower(name)]; ok {
		return id, nil
	}
	category, err := r.store.GetOrCreateCategory(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("category %q: %w", name, err)
	}
	r.categories[strings.ToLower(name)] = category.ID
	r.result.Categories++
	r.logf("category %s", name)
	return category.ID, nil
}

// origin resolves an origin name, creating it on first use.
func (r *runner) origin(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, nil
	}
	if id, ok := r.origins[strings.ToLower(name)]; ok {
		return id, nil
	}
	origin, err := r.store.GetOrCreateOrigin(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("origin %q: %w", name, err)
	}
	r.origins[strings.ToLower(name)] = origin.ID
	r.result.Origins++
	r.logf("origin %s", name)
	return origin.ID, nil
}

func (r *runner) entity(ctx context.Context, f EntityFixture) (storage.Entity, error) {
	gender, ok := storage.ParseGender(f.Gender)
	if !ok {
		return storage.Entity{}, fmt.Errorf("%s: unknown gender %q", f.Name, f.Gender)
	}
	categoryID, err := r.category(ctx, f.Category)
	if err != nil {
		return storage.Entity{}, err
	}
	originID, err := r.origin(ctx, f.Origin)
	if err != nil {
		return storage.Entity{}, err
	}
	return storage.Entity{
		Name:        strings.TrimSpace(f.Name),
		Gender:      gender,
		CategoryID:  categoryID,
		OriginID:    originID,
		Description: f.Description,
	}, nil
}

func (r *runner) seedVillains(ctx context.Context, fixture Fixture) error {
	for _, f := range fixture.Villains {
		key := strings.ToLower(strings.TrimSpace(f.Name))
		if _, dup := r.villains[key]; dup {
			return fmt.Errorf("duplicate villain %q", f.Name)
		}
		entity, err := r.entity(ctx, f.EntityFixture)
		if err != nil {
			return err
		}
		villain := storage.Villain{
			Entity:            entity,
			IsImmortal:        f.Immortal,
			MalevolenceFactor: f.Malevolence,
			PowerFactor:       f.Power,
			IsUnique:          true,
			Count:             f.Count,
		}
		if f.Unique != nil {
			villain.IsUnique = *f.Unique
		}
		id, err := r.store.CreateVillain(ctx, villain)
		if err != nil {
			return fmt.Errorf("villain %q: %w", f.Name, err)
		}
		r.villains[key] = id
		r.result.Villains++
		r.logf("villain %s", entity.Name)
	}
	return nil
}

func (r *runner) seedHeroes(ctx context.Context, fixture Fixture) error {
	for _, f := range fixture.Heroes {
		key := strings.ToLower(strings.TrimSpace(f.Name))
		if _, dup := r.heroes[key]; dup {
			return fmt.Errorf("duplicate hero %q", f.Name)
		}
		entity, err := r.entity(ctx, f.EntityFixture)
		if err != nil {
			return err
		}
		hero := storage.Hero{
			Entity:              entity,
			IsImmortal:          f.Immortal,
			BenevolenceFactor:   storage.DefaultFactor,
			ArbitrarinessFactor: storage.DefaultFactor,
		}
		if f.Benevolence != nil {
			hero.BenevolenceFactor = *f.Benevolence
		}
		if f.Arbitrariness != nil {
			hero.ArbitrarinessFactor = *f.Arbitrariness
		}
		id, err := r.store.CreateHero(ctx, hero)
		if err != nil {
			return fmt.Errorf("hero %q: %w", f.Name, err)
		}
		r.heroes[key] = id
		r.result.Heroes++
		r.logf("hero %s", entity.Name)
	}
	return nil
}

// seedHeroRelations runs after every hero exists so family links and
// acquaintances may point forward in the fixture.
func (r *runner) seedHeroRelations(ctx context.Context, fixture Fixture) error {
	for _, f := range fixture.Heroes {
		id := r.heroes[strings.ToLower(strings.TrimSpace(f.Name))]
		if f.Father != "" || f.Mother != "" || f.Spouse != "" {
			hero, err := r.store.GetHero(ctx, id)
			if err != nil {
				return fmt.Errorf("hero %q: %w", f.Name, err)
			}
			if hero.FatherID, err = lookup(r.heroes, "hero", f.Father); err != nil {
				return err
			}
			if hero.MotherID, err = lookup(r.heroes, "hero", f.Mother); err != nil {
				return err
			}
			if hero.SpouseID, err = lookup(r.heroes, "hero", f.Spouse); err != nil {
				return err
			}
			if err := r.store.UpdateHero(ctx, hero); err != nil {
				return fmt.Errorf("hero %q family: %w", f.Name, err)
			}
		}

		if len(f.Friends) == 0 && len(f.Detractors) == 0 && len(f.Antagonists) == 0 {
			continue
		}
		acquaintance := storage.HeroAcquaintance{HeroID: id}
		var err error
		if acquaintance.Friends, err = lookupAll(r.heroes, "hero", f.Friends); err != nil {
			return err
		}
		if acquaintance.Detractors, err = lookupAll(r.heroes, "hero", f.Detractors); err != nil {
			return err
		}
		if acquaintance.MainAntagonists, err = lookupAll(r.villains, "villain", f.Antagonists); err != nil {
			return err
		}
		if err := r.store.PutAcquaintance(ctx, acquaintance); err != nil {
			return fmt.Errorf("hero %q acquaintance: %w", f.Name, err)
		}
	}
	return nil
}

func (r *runner) seedEpics(ctx context.Context, fixture Fixture) error {
	for _, f := range fixture.Epics {
		heroes, err := lookupAll(r.heroes, "hero", f.Heroes)
		if err != nil {
			return err
		}
		villains, err := lookupAll(r.villains, "villain", f.Villains)
		if err != nil {
			return err
		}
		epicID, err := r.store.CreateEpic(ctx, storage.Epic{Name: f.Name, Heroes: heroes, Villains: villains})
		if err != nil {
			return fmt.Errorf("epic %q: %w", f.Name, err)
		}
		r.result.Epics++
		r.logf("epic %s", f.Name)

		for _, ef := range f.Events {
			if err := r.seedEvent(ctx, epicID, ef); err != nil {
				return fmt.Errorf("epic %q: %w", f.Name, err)
			}
		}
	}
	return nil
}

func (r *runner) seedEvent(ctx context.Context, epicID int64, f EventFixture) error {
	eventID, err := r.store.CreateEvent(ctx, storage.Event{EpicID: epicID, Details: f.Details, YearsAgo: f.YearsAgo})
	if err != nil {
		return fmt.Errorf("event %q: %w", f.Details, err)
	}
	r.result.Events++
	r.logf("event %s", f.Details)

	for _, link := range f.Heroes {
		heroID, err := lookup(r.heroes, "hero", link.Name)
		if err != nil {
			return err
		}
		if _, err := r.store.CreateEventHero(ctx, storage.EventHero{EventID: eventID, HeroID: heroID, IsPrimary: link.Primary}); err != nil {
			return fmt.Errorf("event hero %q: %w", link.Name, err)
		}
	}
	for _, link := range f.Villains {
		villainID, err := lookup(r.villains, "villain", link.Name)
		if err != nil {
			return err
		}
		if _, err := r.store.CreateEventVillain(ctx, storage.EventVillain{EventID: eventID, VillainID: villainID, IsPrimary: link.Primary}); err != nil {
			return fmt.Errorf("event villain %q: %w", link.Name, err)
		}
	}
	return nil
}

// lookup maps a fixture name to a created id; an empty name is no reference.
func lookup(ids map[string]int64, kind, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, nil
	}
	id, ok := ids[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown %s %q", kind, name)
	}
	return id, nil
}

func lookupAll(ids map[string]int64, kind string, names []string) ([]int64, error) {
	var out []int64
	for _, name := range names {
		id, err := lookup(ids, kind, name)
		if err != nil {
			return nil, err
		}
		if id != 0 {
			out = append(out, id)
		}
	}
	return out, nil
}
