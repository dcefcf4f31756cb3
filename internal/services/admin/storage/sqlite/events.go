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

const (
	eventColumns = "ev.id, ev.epic_id, ep.name, ev.details, ev.years_ago"
	eventFrom    = "events ev JOIN epics ep ON ep.id = ev.epic_id"

	eventHeroColumns = "eh.id, eh.event_id, ev.details, eh.hero_id, h.name, eh.is_primary"
	eventHeroFrom    = "event_heroes eh JOIN events ev ON ev.id = eh.event_id JOIN heroes h ON h.id = eh.hero_id"

	eventVillainColumns = "evl.id, evl.event_id, ev.details, evl.villain_id, v.name, evl.is_primary"
	eventVillainFrom    = "event_villains evl JOIN events ev ON ev.id = evl.event_id JOIN villains v ON v.id = evl.villain_id"
)

var eventList = listSpec{
	columns: eventColumns,
	from:    eventFrom,
	fields: filter.Fields{
		"id":        {Column: "ev.id", Type: filter.FieldInt},
		"epic_id":   {Column: "ev.epic_id", Type: filter.FieldInt},
		"epic":      {Column: "ep.name", Type: filter.FieldString},
		"details":   {Column: "ev.details", Type: filter.FieldString},
		"years_ago": {Column: "ev.years_ago", Type: filter.FieldInt},
	},
	search: "ev.details",
	idCol:  "ev.id",
	order:  "ev.id DESC",
}

var eventHeroList = listSpec{
	columns: eventHeroColumns,
	from:    eventHeroFrom,
	fields: filter.Fields{
		"id":         {Column: "eh.id", Type: filter.FieldInt},
		"event_id":   {Column: "eh.event_id", Type: filter.FieldInt},
		"event":      {Column: "ev.details", Type: filter.FieldString},
		"hero_id":    {Column: "eh.hero_id", Type: filter.FieldInt},
		"hero":       {Column: "h.name", Type: filter.FieldString},
		"is_primary": {Column: "eh.is_primary", Type: filter.FieldBool},
	},
	search: "h.name",
	idCol:  "eh.id",
	order:  "eh.id DESC",
}

var eventVillainList = listSpec{
	columns: eventVillainColumns,
	from:    eventVillainFrom,
	fields: filter.Fields{
		"id":         {Column: "evl.id", Type: filter.FieldInt},
		"event_id":   {Column: "evl.event_id", Type: filter.FieldInt},
		"event":      {Column: "ev.details", Type: filter.FieldString},
		"villain_id": {Column: "evl.villain_id", Type: filter.FieldInt},
		"villain":    {Column: "v.name", Type: filter.FieldString},
		"is_primary": {Column: "evl.is_primary", Type: filter.FieldBool},
	},
	search: "v.name",
	idCol:  "evl.id",
	order:  "evl.id DESC",
}

func scanEvent(row rowScanner) (storage.Event, error) {
	var e storage.Event
	err := row.Scan(&e.ID, &e.EpicID, &e.EpicName, &e.Details, &e.YearsAgo)
	return e, err
}

func scanEventHero(row rowScanner) (storage.EventHero, error) {
	var l storage.EventHero
	err := row.Scan(&l.ID, &l.EventID, &l.EventDetails, &l.HeroID, &l.HeroName, &l.IsPrimary)
	return l, err
}

func scanEventVillain(row rowScanner) (storage.EventVillain, error) {
	var l storage.EventVillain
	err := row.Scan(&l.ID, &l.EventID, &l.EventDetails, &l.VillainID, &l.VillainName, &l.IsPrimary)
	return l, err
}

func lastInsertID(res sql.Result, err error, op string) (int64, error) {
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapWriteError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// CreateEvent inserts an event of an epic.
func (s *Store) CreateEvent(ctx context.Context, event storage.Event) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	event.Details = strings.TrimSpace(event.Details)
	if err := event.Validate(); err != nil {
		return 0, err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		"INSERT INTO events (epic_id, details, years_ago) VALUES (?, ?, ?)",
		event.EpicID, event.Details, event.YearsAgo,
	)
	return lastInsertID(res, err, "create event")
}

// GetEvent loads an event by id.
func (s *Store) GetEvent(ctx context.Context, id int64) (storage.Event, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Event{}, err
	}
	e, err := scanEvent(s.sqlDB.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM "+eventFrom+" WHERE ev.id = ?", id))
	if err != nil {
		return storage.Event{}, notFoundOr(err, "get event")
	}
	return e, nil
}

// UpdateEvent rewrites an event.
func (s *Store) UpdateEvent(ctx context.Context, event storage.Event) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	event.Details = strings.TrimSpace(event.Details)
	if err := event.Validate(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		"UPDATE events SET epic_id = ?, details = ?, years_ago = ? WHERE id = ?",
		event.EpicID, event.Details, event.YearsAgo, event.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", mapWriteError(err))
	}
	return requireUpdated(res)
}

// DeleteEvents removes events together with their hero and villain links.
func (s *Store) DeleteEvents(ctx context.Context, ids []int64) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	return deleteIDs(ctx, s.sqlDB, "events", ids)
}

// ListEvents returns one page of events.
func (s *Store) ListEvents(ctx context.Context, query storage.ListQuery) (storage.Page[storage.Event], error) {
	if err := s.ready(ctx); err != nil {
		return storage.Page[storage.Event]{}, err
	}
	page, err := listRows(ctx, s.sqlDB, eventList, query, func(rows *sql.Rows) (storage.Event, error) {
		return scanEvent(rows)
	})
	if err != nil {
		return page, fmt.Errorf("list events: %w", err)
	}
	return page, nil
}

// CreateEventHero links a hero to an event.
func (s *Store) CreateEventHero(ctx context.Context, link storage.EventHero) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	if err := link.Validate(); err != nil {
		return 0, err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		"INSERT INTO event_heroes (event_id, hero_id, is_primary) VALUES (?, ?, ?)",
		link.EventID, link.HeroID, boolInt(link.IsPrimary),
	)
	return lastInsertID(res, err, "create event hero")
}

// GetEventHero loads an event hero link by id.
func (s *Store) GetEventHero(ctx context.Context, id int64) (storage.EventHero, error) {
	if err := s.ready(ctx); err != nil {
		return storage.EventHero{}, err
	}
	l, err := scanEventHero(s.sqlDB.QueryRowContext(ctx, "SELECT "+eventHeroColumns+" FROM "+eventHeroFrom+" WHERE eh.id = ?", id))
	if err != nil {
		return storage.EventHero{}, notFoundOr(err, "get event hero")
	}
	return l, nil
}

// UpdateEventHero rewrites an event hero link.
func (s *Store) UpdateEventHero(ctx context.Context, link storage.EventHero) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := link.Validate(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		"UPDATE event_heroes SET event_id = ?, hero_id = ?, is_primary = ? WHERE id = ?",
		link.EventID, link.HeroID, boolInt(link.IsPrimary), link.ID,
	)
	if err != nil {
		return fmt.Errorf("update event hero: %w", mapWriteError(err))
	}
	return requireUpdated(res)
}

// DeleteEventHeroes removes event hero links.
func (s *Store) DeleteEventHeroes(ctx context.Context, ids []int64) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	return deleteIDs(ctx, s.sqlDB, "event_heroes", ids)
}

// ListEventHeroes returns one page of event hero links.
func (s *Store) ListEventHeroes(ctx context.Context, query storage.ListQuery) (storage.Page[storage.EventHero], error) {
	if err := s.ready(ctx); err != nil {
		return storage.Page[storage.EventHero]{}, err
	}
	page, err := listRows(ctx, s.sqlDB, eventHeroList, query, func(rows *sql.Rows) (storage.EventHero, error) {
		return scanEventHero(rows)
	})
	if err != nil {
		return page, fmt.Errorf("list event heroes: %w", err)
	}
	return page, nil
}

// CreateEventVillain links a villain to an event.
func (s *Store) CreateEventVillain(ctx context.Context, link storage.EventVillain) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	if err := link.Validate(); err != nil {
		return 0, err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		"INSERT INTO event_villains (event_id, villain_id, is_primary) VALUES (?, ?, ?)",
		link.EventID, link.VillainID, boolInt(link.IsPrimary),
	)
	return lastInsertID(res, err, "create event villain")
}

// GetEventVillain loads an event villain link by id.
func (s *Store) GetEventVillain(ctx context.Context, id int64) (storage.EventVillain, error) {
	if err := s.ready(ctx); err != nil {
		return storage.EventVillain{}, err
	}
	l, err := scanEventVillain(s.sqlDB.QueryRowContext(ctx, "SELECT "+eventVillainColumns+" FROM "+eventVillainFrom+" WHERE evl.id = ?", id))
	if err != nil {
		return storage.EventVillain{}, notFoundOr(err, "get event villain")
	}
	return l, nil
}

// UpdateEventVillain rewrites an event villain link.
func (s *Store) UpdateEventVillain(ctx context.Context, link storage.EventVillain) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := link.Validate(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		"UPDATE event_villains SET event_id = ?, villain_id = ?, is_primary = ? WHERE id = ?",
		link.EventID, link.VillainID, boolInt(link.IsPrimary), link.ID,
	)
	if err != nil {
		return fmt.Errorf("update event villain: %w", mapWriteError(err))
	}
	return requireUpdated(res)
}

// DeleteEventVillains removes event villain links.
func (s *Store) DeleteEventVillains(ctx context.Context, ids []int64) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	return deleteIDs(ctx, s.sqlDB, "event_villains", ids)
}

// ListEventVillains returns one page of event villain links.
func (s *Store) ListEventVillains(ctx context.Context, query storage.ListQuery) (storage.Page[storage.EventVillain], error) {
	if err := s.ready(ctx); err != nil {
		return storage.Page[storage.EventVillain]{}, err
	}
	page, err := listRows(ctx, s.sqlDB, eventVillainList, query, func(rows *sql.Rows) (storage.EventVillain, error) {
		return scanEventVillain(rows)
	})
	if err != nil {
		return page, fmt.Errorf("list event villains: %w", err)
	}
	return page, nil
}
