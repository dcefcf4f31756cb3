package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/umsra/internal/services/admin/filter"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
)

const heroColumns = `h.id, h.name, h.gender,
	COALESCE(h.category_id, 0), COALESCE(c.name, ''),
	COALESCE(h.origin_id, 0), COALESCE(o.name, ''),
	h.description, h.added_on, h.is_immortal,
	h.benevolence_factor, h.arbitrariness_factor,
	COALESCE(h.father_id, 0), COALESCE(h.mother_id, 0), COALESCE(h.spouse_id, 0)`

const heroFrom = `heroes h
	LEFT JOIN categories c ON c.id = h.category_id
	LEFT JOIN origins o ON o.id = h.origin_id`

var heroList = listSpec{
	columns: heroColumns,
	from:    heroFrom,
	fields: filter.Fields{
		"id":                   {Column: "h.id", Type: filter.FieldInt},
		"name":                 {Column: "h.name", Type: filter.FieldString},
		"gender":               {Column: "h.gender", Type: filter.FieldString},
		"category":             {Column: "c.name", Type: filter.FieldString},
		"category_id":          {Column: "h.category_id", Type: filter.FieldInt},
		"origin":               {Column: "o.name", Type: filter.FieldString},
		"origin_id":            {Column: "h.origin_id", Type: filter.FieldInt},
		"added_on":             {Column: "h.added_on", Type: filter.FieldInt},
		"is_immortal":          {Column: "h.is_immortal", Type: filter.FieldBool},
		"benevolence_factor":   {Column: "h.benevolence_factor", Type: filter.FieldInt},
		"arbitrariness_factor": {Column: "h.arbitrariness_factor", Type: filter.FieldInt},
		"father_id":            {Column: "h.father_id", Type: filter.FieldInt},
		"mother_id":            {Column: "h.mother_id", Type: filter.FieldInt},
		"spouse_id":            {Column: "h.spouse_id", Type: filter.FieldInt},
	},
	search: "h.name",
	idCol:  "h.id",
	order:  "h.id DESC",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHero(row rowScanner) (storage.Hero, error) {
	var h storage.Hero
	var gender string
	var addedOn int64
	if err := row.Scan(
		&h.ID, &h.Name, &gender,
		&h.CategoryID, &h.CategoryName,
		&h.OriginID, &h.OriginName,
		&h.Description, &addedOn, &h.IsImmortal,
		&h.BenevolenceFactor, &h.ArbitrarinessFactor,
		&h.FatherID, &h.MotherID, &h.SpouseID,
	); err != nil {
		return storage.Hero{}, err
	}
	h.Gender = storage.Gender(gender)
	h.AddedOn = fromMillis(addedOn)
	return h, nil
}

func normalizeEntity(e *storage.Entity) {
	e.Name = strings.TrimSpace(e.Name)
	e.Description = strings.TrimSpace(e.Description)
	if gender, ok := storage.ParseGender(string(e.Gender)); ok {
		e.Gender = gender
	}
}

// CreateHero inserts a hero and returns its id. A zero AddedOn is stamped
// with the current time.
func (s *Store) CreateHero(ctx context.Context, hero storage.Hero) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	if err := s.prepareHero(&hero); err != nil {
		return 0, err
	}
	return insertHero(ctx, s.sqlDB, hero)
}

func (s *Store) prepareHero(hero *storage.Hero) error {
	normalizeEntity(&hero.Entity)
	if err := hero.Validate(); err != nil {
		return err
	}
	if hero.AddedOn.IsZero() {
		hero.AddedOn = s.clock()
	}
	return nil
}

func insertHero(ctx context.Context, db execer, hero storage.Hero) (int64, error) {
	res, err := db.ExecContext(ctx, `
INSERT INTO heroes (
	name, gender, category_id, origin_id, description, added_on, is_immortal,
	benevolence_factor, arbitrariness_factor, father_id, mother_id, spouse_id
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		hero.Name, string(hero.Gender), nullID(hero.CategoryID), nullID(hero.OriginID),
		hero.Description, toMillis(hero.AddedOn), boolInt(hero.IsImmortal),
		hero.BenevolenceFactor, hero.ArbitrarinessFactor,
		nullID(hero.FatherID), nullID(hero.MotherID), nullID(hero.SpouseID),
	)
	if err != nil {
		return 0, fmt.Errorf("create hero: %w", mapWriteError(err))
	}
	return res.LastInsertId()
}

// ImportHeroes creates heroes in one transaction, get-or-creating their
// categories and origins by name. The first failing hero is reported as a
// *storage.RowError and nothing is written.
func (s *Store) ImportHeroes(ctx context.Context, heroes []storage.Hero) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for i, hero := range heroes {
			if err := s.prepareHero(&hero); err != nil {
				return &storage.RowError{Row: i, Err: err}
			}
			if err := resolveEntityRefs(ctx, tx, &hero.Entity); err != nil {
				return &storage.RowError{Row: i, Err: err}
			}
			if _, err := insertHero(ctx, tx, hero); err != nil {
				return &storage.RowError{Row: i, Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(heroes), nil
}

// GetHero loads a hero by id.
func (s *Store) GetHero(ctx context.Context, id int64) (storage.Hero, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Hero{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, "SELECT "+heroColumns+" FROM "+heroFrom+" WHERE h.id = ?", id)
	h, err := scanHero(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Hero{}, storage.ErrNotFound
		}
		return storage.Hero{}, fmt.Errorf("get hero: %w", err)
	}
	return h, nil
}

// UpdateHero rewrites every editable hero column.
func (s *Store) UpdateHero(ctx context.Context, hero storage.Hero) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := s.prepareHero(&hero); err != nil {
		return err
	}
	return updateHero(ctx, s.sqlDB, hero)
}

func updateHero(ctx context.Context, db execer, hero storage.Hero) error {
	res, err := db.ExecContext(ctx, `
UPDATE heroes SET
	name = ?, gender = ?, category_id = ?, origin_id = ?, description = ?, added_on = ?,
	is_immortal = ?, benevolence_factor = ?, arbitrariness_factor = ?,
	father_id = ?, mother_id = ?, spouse_id = ?
WHERE id = ?`,
		hero.Name, string(hero.Gender), nullID(hero.CategoryID), nullID(hero.OriginID),
		hero.Description, toMillis(hero.AddedOn), boolInt(hero.IsImmortal),
		hero.BenevolenceFactor, hero.ArbitrarinessFactor,
		nullID(hero.FatherID), nullID(hero.MotherID), nullID(hero.SpouseID),
		hero.ID,
	)
	if err != nil {
		return fmt.Errorf("update hero: %w", mapWriteError(err))
	}
	return requireUpdated(res)
}

// SaveHero creates the hero when its ID is zero and updates it otherwise,
// then replaces its acquaintance, all in one transaction. The acquaintance
// HeroID is taken from the saved hero. Nothing is written on error.
func (s *Store) SaveHero(ctx context.Context, hero storage.Hero, acquaintance storage.HeroAcquaintance) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	if err := s.prepareHero(&hero); err != nil {
		return 0, err
	}

	id := hero.ID
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if id == 0 {
			var err error
			if id, err = insertHero(ctx, tx, hero); err != nil {
				return err
			}
		} else if err := updateHero(ctx, tx, hero); err != nil {
			return err
		}
		acquaintance.HeroID = id
		if err := acquaintance.Validate(); err != nil {
			return err
		}
		return putAcquaintance(ctx, tx, acquaintance)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteHeroes removes heroes and their acquaintance links.
func (s *Store) DeleteHeroes(ctx context.Context, ids []int64) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	return deleteIDs(ctx, s.sqlDB, "heroes", ids)
}

// ListHeroes returns one page of heroes.
func (s *Store) ListHeroes(ctx context.Context, query storage.ListQuery) (storage.Page[storage.Hero], error) {
	if err := s.ready(ctx); err != nil {
		return storage.Page[storage.Hero]{}, err
	}
	page, err := listRows(ctx, s.sqlDB, heroList, query, func(rows *sql.Rows) (storage.Hero, error) {
		return scanHero(rows)
	})
	if err != nil {
		return page, fmt.Errorf("list heroes: %w", err)
	}
	return page, nil
}

// SetAllHeroesImmortal flags every hero and returns the number updated.
func (s *Store) SetAllHeroesImmortal(ctx context.Context, immortal bool) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	res, err := s.sqlDB.ExecContext(ctx, "UPDATE heroes SET is_immortal = ?", boolInt(immortal))
	if err != nil {
		return 0, fmt.Errorf("set heroes immortal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("set heroes immortal: %w", err)
	}
	return int(n), nil
}

// SetHeroesImmortal flags the selected heroes and returns the number updated.
func (s *Store) SetHeroesImmortal(ctx context.Context, ids []int64, immortal bool) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	cond := filter.In("id", ids)
	if cond.Empty() {
		return 0, nil
	}
	args := append([]any{boolInt(immortal)}, cond.Params...)
	res, err := s.sqlDB.ExecContext(ctx, "UPDATE heroes SET is_immortal = ? WHERE "+cond.Clause, args...)
	if err != nil {
		return 0, fmt.Errorf("set heroes immortal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("set heroes immortal: %w", err)
	}
	return int(n), nil
}

// HeroChildren lists heroes whose father or mother is id.
func (s *Store) HeroChildren(ctx context.Context, id int64) ([]storage.Hero, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT "+heroColumns+" FROM "+heroFrom+" WHERE h.father_id = ? OR h.mother_id = ? ORDER BY h.name, h.id",
		id, id,
	)
	if err != nil {
		return nil, fmt.Errorf("hero children: %w", err)
	}
	defer rows.Close()

	var children []storage.Hero
	for rows.Next() {
		h, err := scanHero(rows)
		if err != nil {
			return nil, fmt.Errorf("hero children: %w", err)
		}
		children = append(children, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("hero children: %w", err)
	}
	return children, nil
}

// HeroDescendants builds the children tree below id. Each hero appears at
// most once, so cyclic parent links terminate. maxDepth <= 0 means unbounded.
func (s *Store) HeroDescendants(ctx context.Context, id int64, maxDepth int) ([]storage.HeroNode, error) {
	if _, err := s.GetHero(ctx, id); err != nil {
		return nil, err
	}

	seen := map[int64]bool{id: true}
	var walk func(parent int64, depth int) ([]storage.HeroNode, error)
	walk = func(parent int64, depth int) ([]storage.HeroNode, error) {
		if maxDepth > 0 && depth > maxDepth {
			return nil, nil
		}
		children, err := s.HeroChildren(ctx, parent)
		if err != nil {
			return nil, err
		}
		var nodes []storage.HeroNode
		for _, child := range children {
			if seen[child.ID] {
				continue
			}
			seen[child.ID] = true
			node := storage.HeroNode{ID: child.ID, Name: child.Name}
			if node.Children, err = walk(child.ID, depth+1); err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
		}
		return nodes, nil
	}
	return walk(id, 1)
}

// GetAcquaintance loads a hero's friends, detractors and main antagonists.
func (s *Store) GetAcquaintance(ctx context.Context, heroID int64) (storage.HeroAcquaintance, error) {
	if _, err := s.GetHero(ctx, heroID); err != nil {
		return storage.HeroAcquaintance{}, err
	}

	a := storage.HeroAcquaintance{HeroID: heroID}
	var err error
	if a.Friends, err = queryIDs(ctx, s.sqlDB, "SELECT friend_id FROM hero_friends WHERE hero_id = ? ORDER BY friend_id", heroID); err != nil {
		return storage.HeroAcquaintance{}, fmt.Errorf("get friends: %w", err)
	}
	if a.Detractors, err = queryIDs(ctx, s.sqlDB, "SELECT detractor_id FROM hero_detractors WHERE hero_id = ? ORDER BY detractor_id", heroID); err != nil {
		return storage.HeroAcquaintance{}, fmt.Errorf("get detractors: %w", err)
	}
	if a.MainAntagonists, err = queryIDs(ctx, s.sqlDB, "SELECT villain_id FROM hero_antagonists WHERE hero_id = ? ORDER BY villain_id", heroID); err != nil {
		return storage.HeroAcquaintance{}, fmt.Errorf("get antagonists: %w", err)
	}
	return a, nil
}

// PutAcquaintance replaces all three relation sets of a hero atomically.
func (s *Store) PutAcquaintance(ctx context.Context, acquaintance storage.HeroAcquaintance) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := acquaintance.Validate(); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx, "SELECT 1 FROM heroes WHERE id = ?", acquaintance.HeroID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("put acquaintance: %w", err)
		}
		return putAcquaintance(ctx, tx, acquaintance)
	})
}

func putAcquaintance(ctx context.Context, tx *sql.Tx, a storage.HeroAcquaintance) error {
	if err := replaceLinks(ctx, tx, "hero_friends", "hero_id", "friend_id", a.HeroID, a.Friends); err != nil {
		return err
	}
	if err := replaceLinks(ctx, tx, "hero_detractors", "hero_id", "detractor_id", a.HeroID, a.Detractors); err != nil {
		return err
	}
	return replaceLinks(ctx, tx, "hero_antagonists", "hero_id", "villain_id", a.HeroID, a.MainAntagonists)
}
