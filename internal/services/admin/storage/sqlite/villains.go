package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/louisbranch/umsra/internal/services/admin/filter"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
)

const villainColumns = `v.id, v.name, v.gender,
	COALESCE(v.category_id, 0), COALESCE(c.name, ''),
	COALESCE(v.origin_id, 0), COALESCE(o.name, ''),
	v.description, v.added_on, v.is_immortal,
	v.malevolence_factor, v.power_factor, v.is_unique, v.count`

const villainFrom = `villains v
	LEFT JOIN categories c ON c.id = v.category_id
	LEFT JOIN origins o ON o.id = v.origin_id`

var villainList = listSpec{
	columns: villainColumns,
	from:    villainFrom,
	fields: filter.Fields{
		"id":                 {Column: "v.id", Type: filter.FieldInt},
		"name":               {Column: "v.name", Type: filter.FieldString},
		"gender":             {Column: "v.gender", Type: filter.FieldString},
		"category":           {Column: "c.name", Type: filter.FieldString},
		"category_id":        {Column: "v.category_id", Type: filter.FieldInt},
		"origin":             {Column: "o.name", Type: filter.FieldString},
		"origin_id":          {Column: "v.origin_id", Type: filter.FieldInt},
		"added_on":           {Column: "v.added_on", Type: filter.FieldInt},
		"is_immortal":        {Column: "v.is_immortal", Type: filter.FieldBool},
		"malevolence_factor": {Column: "v.malevolence_factor", Type: filter.FieldInt},
		"power_factor":       {Column: "v.power_factor", Type: filter.FieldInt},
		"is_unique":          {Column: "v.is_unique", Type: filter.FieldBool},
		"count":              {Column: "v.count", Type: filter.FieldInt},
	},
	search: "v.name",
	idCol:  "v.id",
	order:  "v.id DESC",
}

func scanVillain(row rowScanner) (storage.Villain, error) {
	var v storage.Villain
	var gender string
	var addedOn int64
	if err := row.Scan(
		&v.ID, &v.Name, &gender,
		&v.CategoryID, &v.CategoryName,
		&v.OriginID, &v.OriginName,
		&v.Description, &addedOn, &v.IsImmortal,
		&v.MalevolenceFactor, &v.PowerFactor, &v.IsUnique, &v.Count,
	); err != nil {
		return storage.Villain{}, err
	}
	v.Gender = storage.Gender(gender)
	v.AddedOn = fromMillis(addedOn)
	return v, nil
}

// CreateVillain inserts a villain and returns its id. A zero Count is stored
// as 1.
func (s *Store) CreateVillain(ctx context.Context, villain storage.Villain) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	if err := s.prepareVillain(&villain); err != nil {
		return 0, err
	}
	return insertVillain(ctx, s.sqlDB, villain)
}

func (s *Store) prepareVillain(villain *storage.Villain) error {
	normalizeEntity(&villain.Entity)
	if villain.Count == 0 {
		villain.Count = 1
	}
	if err := villain.Validate(); err != nil {
		return err
	}
	if villain.AddedOn.IsZero() {
		villain.AddedOn = s.clock()
	}
	return nil
}

func insertVillain(ctx context.Context, db execer, villain storage.Villain) (int64, error) {
	res, err := db.ExecContext(ctx, `
INSERT INTO villains (
	name, gender, category_id, origin_id, description, added_on, is_immortal,
	malevolence_factor, power_factor, is_unique, count
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		villain.Name, string(villain.Gender), nullID(villain.CategoryID), nullID(villain.OriginID),
		villain.Description, toMillis(villain.AddedOn), boolInt(villain.IsImmortal),
		villain.MalevolenceFactor, villain.PowerFactor, boolInt(villain.IsUnique), villain.Count,
	)
	if err != nil {
		return 0, fmt.Errorf("create villain: %w", mapWriteError(err))
	}
	return res.LastInsertId()
}

// ImportVillains creates villains in one transaction, get-or-creating their
// categories and origins by name. The first failing villain is reported as a
// *storage.RowError and nothing is written.
func (s *Store) ImportVillains(ctx context.Context, villains []storage.Villain) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for i, villain := range villains {
			if err := s.prepareVillain(&villain); err != nil {
				return &storage.RowError{Row: i, Err: err}
			}
			if err := resolveEntityRefs(ctx, tx, &villain.Entity); err != nil {
				return &storage.RowError{Row: i, Err: err}
			}
			if _, err := insertVillain(ctx, tx, villain); err != nil {
				return &storage.RowError{Row: i, Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(villains), nil
}

// GetVillain loads a villain by id.
func (s *Store) GetVillain(ctx context.Context, id int64) (storage.Villain, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Villain{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, "SELECT "+villainColumns+" FROM "+villainFrom+" WHERE v.id = ?", id)
	v, err := scanVillain(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Villain{}, storage.ErrNotFound
		}
		return storage.Villain{}, fmt.Errorf("get villain: %w", err)
	}
	return v, nil
}

// UpdateVillain rewrites every editable villain column.
func (s *Store) UpdateVillain(ctx context.Context, villain storage.Villain) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	normalizeEntity(&villain.Entity)
	if err := villain.Validate(); err != nil {
		return err
	}
	if villain.AddedOn.IsZero() {
		villain.AddedOn = s.clock()
	}

	res, err := s.sqlDB.ExecContext(ctx, `
UPDATE villains SET
	name = ?, gender = ?, category_id = ?, origin_id = ?, description = ?, added_on = ?,
	is_immortal = ?, malevolence_factor = ?, power_factor = ?, is_unique = ?, count = ?
WHERE id = ?`,
		villain.Name, string(villain.Gender), nullID(villain.CategoryID), nullID(villain.OriginID),
		villain.Description, toMillis(villain.AddedOn), boolInt(villain.IsImmortal),
		villain.MalevolenceFactor, villain.PowerFactor, boolInt(villain.IsUnique), villain.Count,
		villain.ID,
	)
	if err != nil {
		return fmt.Errorf("update villain: %w", mapWriteError(err))
	}
	return requireUpdated(res)
}

// DeleteVillains removes villains.
func (s *Store) DeleteVillains(ctx context.Context, ids []int64) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	return deleteIDs(ctx, s.sqlDB, "villains", ids)
}

// ListVillains returns one page of villains.
func (s *Store) ListVillains(ctx context.Context, query storage.ListQuery) (storage.Page[storage.Villain], error) {
	if err := s.ready(ctx); err != nil {
		return storage.Page[storage.Villain]{}, err
	}
	page, err := listRows(ctx, s.sqlDB, villainList, query, func(rows *sql.Rows) (storage.Villain, error) {
		return scanVillain(rows)
	})
	if err != nil {
		return page, fmt.Errorf("list villains: %w", err)
	}
	return page, nil
}

// MakeVillainsUnique merges every other villain sharing a selected villain's
// name (case-insensitively) into the selected one. The merged rows' counts are
// added to the kept villain, which is then flagged unique. Selected ids already
// merged away by an earlier selection are skipped. Returns the number of rows
// deleted.
func (s *Store) MakeVillainsUnique(ctx context.Context, ids []int64) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}

	deleted := 0
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			var name string
			err := tx.QueryRowContext(ctx, "SELECT name FROM villains WHERE id = ?", id).Scan(&name)
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			if err != nil {
				return fmt.Errorf("make unique: %w", err)
			}

			dupes, err := queryIDs(ctx, tx, "SELECT id FROM villains WHERE id != ? AND name = ? COLLATE NOCASE", id, name)
			if err != nil {
				return fmt.Errorf("make unique duplicates: %w", err)
			}

			merged := 0
			if cond := filter.In("id", dupes); !cond.Empty() {
				if err := tx.QueryRowContext(ctx, "SELECT COALESCE(SUM(count), 0) FROM villains WHERE "+cond.Clause, cond.Params...).Scan(&merged); err != nil {
					return fmt.Errorf("make unique count: %w", err)
				}
				n, err := deleteIDs(ctx, tx, "villains", dupes)
				if err != nil {
					return err
				}
				deleted += n
			}

			if _, err := tx.ExecContext(ctx, "UPDATE villains SET is_unique = 1, count = count + ? WHERE id = ?", merged, id); err != nil {
				return fmt.Errorf("make unique update: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
