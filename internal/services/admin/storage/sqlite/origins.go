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

// originList counts distinct heroes and villains; the double LEFT JOIN would
// otherwise multiply one count by the other.
var originList = listSpec{
	columns:   "o.id, o.name, COUNT(DISTINCT h.id) AS hero_count, COUNT(DISTINCT v.id) AS villain_count",
	from:      "origins o LEFT JOIN heroes h ON h.origin_id = o.id LEFT JOIN villains v ON v.origin_id = o.id",
	countFrom: "origins o",
	groupBy:   "o.id, o.name",
	fields: filter.Fields{
		"id":            {Column: "o.id", Type: filter.FieldInt},
		"name":          {Column: "o.name", Type: filter.FieldString},
		"hero_count":    {Column: "hero_count", Type: filter.FieldInt, NoFilter: true},
		"villain_count": {Column: "villain_count", Type: filter.FieldInt, NoFilter: true},
	},
	search: "o.name",
	idCol:  "o.id",
	order:  "o.name ASC, o.id ASC",
}

// CreateOrigin inserts an origin and returns its id.
func (s *Store) CreateOrigin(ctx context.Context, origin storage.Origin) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	origin.Name = strings.TrimSpace(origin.Name)
	if err := origin.Validate(); err != nil {
		return 0, err
	}

	res, err := s.sqlDB.ExecContext(ctx, "INSERT INTO origins (name) VALUES (?)", origin.Name)
	if err != nil {
		return 0, fmt.Errorf("create origin: %w", mapWriteError(err))
	}
	return res.LastInsertId()
}

// GetOrigin loads an origin by id.
func (s *Store) GetOrigin(ctx context.Context, id int64) (storage.Origin, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Origin{}, err
	}

	var o storage.Origin
	err := s.sqlDB.QueryRowContext(ctx, "SELECT id, name FROM origins WHERE id = ?", id).Scan(&o.ID, &o.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Origin{}, storage.ErrNotFound
		}
		return storage.Origin{}, fmt.Errorf("get origin: %w", err)
	}
	return o, nil
}

// UpdateOrigin renames an origin.
func (s *Store) UpdateOrigin(ctx context.Context, origin storage.Origin) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	origin.Name = strings.TrimSpace(origin.Name)
	if err := origin.Validate(); err != nil {
		return err
	}

	res, err := s.sqlDB.ExecContext(ctx, "UPDATE origins SET name = ? WHERE id = ?", origin.Name, origin.ID)
	if err != nil {
		return fmt.Errorf("update origin: %w", mapWriteError(err))
	}
	return requireUpdated(res)
}

// DeleteOrigins removes origins; entities keep existing with no origin.
func (s *Store) DeleteOrigins(ctx context.Context, ids []int64) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	return deleteIDs(ctx, s.sqlDB, "origins", ids)
}

// ListOriginsWithCounts returns one page of origins annotated with the
// distinct number of heroes and villains from each.
func (s *Store) ListOriginsWithCounts(ctx context.Context, query storage.ListQuery) (storage.Page[storage.OriginStats], error) {
	if err := s.ready(ctx); err != nil {
		return storage.Page[storage.OriginStats]{}, err
	}
	page, err := listRows(ctx, s.sqlDB, originList, query, func(rows *sql.Rows) (storage.OriginStats, error) {
		var o storage.OriginStats
		err := rows.Scan(&o.ID, &o.Name, &o.HeroCount, &o.VillainCount)
		return o, err
	})
	if err != nil {
		return page, fmt.Errorf("list origins: %w", err)
	}
	return page, nil
}

// GetOrCreateOrigin returns the origin with name, creating it if needed.
func (s *Store) GetOrCreateOrigin(ctx context.Context, name string) (storage.Origin, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Origin{}, err
	}
	o := storage.Origin{Name: strings.TrimSpace(name)}
	if err := o.Validate(); err != nil {
		return storage.Origin{}, err
	}

	id, err := getOrCreateNamed(ctx, s.sqlDB, "origins", o.Name)
	if err != nil {
		return storage.Origin{}, err
	}
	o.ID = id
	return o, nil
}
