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

var epicList = listSpec{
	columns: "ep.id, ep.name",
	from:    "epics ep",
	fields: filter.Fields{
		"id":   {Column: "ep.id", Type: filter.FieldInt},
		"name": {Column: "ep.name", Type: filter.FieldString},
	},
	search: "ep.name",
	idCol:  "ep.id",
	order:  "ep.id DESC",
}

// CreateEpic inserts an epic with its participants.
func (s *Store) CreateEpic(ctx context.Context, epic storage.Epic) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	epic.Name = strings.TrimSpace(epic.Name)
	if err := epic.Validate(); err != nil {
		return 0, err
	}

	var id int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "INSERT INTO epics (name) VALUES (?)", epic.Name)
		if err != nil {
			return fmt.Errorf("create epic: %w", mapWriteError(err))
		}
		if id, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("create epic: %w", err)
		}
		return putEpicParticipants(ctx, tx, id, epic)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func putEpicParticipants(ctx context.Context, tx *sql.Tx, id int64, epic storage.Epic) error {
	if err := replaceLinks(ctx, tx, "epic_heroes", "epic_id", "hero_id", id, epic.Heroes); err != nil {
		return err
	}
	return replaceLinks(ctx, tx, "epic_villains", "epic_id", "villain_id", id, epic.Villains)
}

// GetEpic loads an epic and its participants.
func (s *Store) GetEpic(ctx context.Context, id int64) (storage.Epic, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Epic{}, err
	}

	var epic storage.Epic
	if err := s.sqlDB.QueryRowContext(ctx, "SELECT id, name FROM epics WHERE id = ?", id).Scan(&epic.ID, &epic.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Epic{}, storage.ErrNotFound
		}
		return storage.Epic{}, fmt.Errorf("get epic: %w", err)
	}
	var err error
	if epic.Heroes, err = queryIDs(ctx, s.sqlDB, "SELECT hero_id FROM epic_heroes WHERE epic_id = ? ORDER BY hero_id", id); err != nil {
		return storage.Epic{}, fmt.Errorf("get epic heroes: %w", err)
	}
	if epic.Villains, err = queryIDs(ctx, s.sqlDB, "SELECT villain_id FROM epic_villains WHERE epic_id = ? ORDER BY villain_id", id); err != nil {
		return storage.Epic{}, fmt.Errorf("get epic villains: %w", err)
	}
	return epic, nil
}

// UpdateEpic renames an epic and replaces its participants.
func (s *Store) UpdateEpic(ctx context.Context, epic storage.Epic) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	epic.Name = strings.TrimSpace(epic.Name)
	if err := epic.Validate(); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE epics SET name = ? WHERE id = ?", epic.Name, epic.ID)
		if err != nil {
			return fmt.Errorf("update epic: %w", mapWriteError(err))
		}
		if err := requireUpdated(res); err != nil {
			return err
		}
		return putEpicParticipants(ctx, tx, epic.ID, epic)
	})
}

// DeleteEpics removes epics together with their events.
func (s *Store) DeleteEpics(ctx context.Context, ids []int64) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	return deleteIDs(ctx, s.sqlDB, "epics", ids)
}

// ListEpics returns one page of epics without participants.
func (s *Store) ListEpics(ctx context.Context, query storage.ListQuery) (storage.Page[storage.Epic], error) {
	if err := s.ready(ctx); err != nil {
		return storage.Page[storage.Epic]{}, err
	}
	page, err := listRows(ctx, s.sqlDB, epicList, query, func(rows *sql.Rows) (storage.Epic, error) {
		var e storage.Epic
		err := rows.Scan(&e.ID, &e.Name)
		return e, err
	})
	if err != nil {
		return page, fmt.Errorf("list epics: %w", err)
	}
	return page, nil
}
