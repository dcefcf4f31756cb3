package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// RowError locates the record that failed a batch import.
type RowError struct {
	// Row is the zero-based index into the batch.
	Row int
	Err error
}

func (e *RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// VeryBenevolentThreshold is the benevolence factor a hero must exceed to be
// listed as very benevolent.
const VeryBenevolentThreshold = 75

// DefaultFactor is the hero benevolence and arbitrariness used when none is given.
const DefaultFactor = 50

// Gender classifies an entity.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Genders lists the accepted gender values in display order.
func Genders() []Gender {
	return []Gender{GenderMale, GenderFemale, GenderOther}
}

// ParseGender normalizes a stored or submitted gender value.
func ParseGender(value string) (Gender, bool) {
	switch Gender(strings.ToLower(strings.TrimSpace(value))) {
	case GenderMale:
		return GenderMale, true
	case GenderFemale:
		return GenderFemale, true
	case GenderOther, "":
		return GenderOther, true
	default:
		return "", false
	}
}

// Category groups entities by kind, e.g. "Greek" or "Norse".
type Category struct {
	ID   int64
	Name string
}

// Origin is where an entity comes from.
type Origin struct {
	ID   int64
	Name string
}

// OriginStats is an origin annotated with distinct hero and villain counts.
type OriginStats struct {
	Origin
	HeroCount    int
	VillainCount int
}

// Entity holds the fields heroes and villains share. A zero CategoryID or
// OriginID means the reference is unset.
type Entity struct {
	ID           int64
	Name         string
	Gender       Gender
	CategoryID   int64
	CategoryName string
	OriginID     int64
	OriginName   string
	Description  string
	AddedOn      time.Time
}

// Hero is a benevolent entity with optional family links.
type Hero struct {
	Entity
	IsImmortal          bool
	BenevolenceFactor   int
	ArbitrarinessFactor int
	FatherID            int64
	MotherID            int64
	SpouseID            int64
}

// IsVeryBenevolent reports whether the hero is above the benevolence threshold.
func (h Hero) IsVeryBenevolent() bool {
	return h.BenevolenceFactor > VeryBenevolentThreshold
}

// Villain is a malevolent entity. Count tracks how many duplicate records were
// merged into this one.
type Villain struct {
	Entity
	IsImmortal        bool
	MalevolenceFactor int
	PowerFactor       int
	IsUnique          bool
	Count             int
}

// HeroAcquaintance holds a hero's relations to other heroes and villains.
type HeroAcquaintance struct {
	HeroID          int64
	Friends         []int64
	Detractors      []int64
	MainAntagonists []int64
}

// HeroNode is one hero in a descendants tree.
type HeroNode struct {
	ID       int64
	Name     string
	Children []HeroNode
}

// Epic is a named story that heroes and villains take part in.
type Epic struct {
	ID       int64
	Name     string
	Heroes   []int64
	Villains []int64
}

// Event is one episode of an epic.
type Event struct {
	ID       int64
	EpicID   int64
	EpicName string
	Details  string
	YearsAgo int
}

// EventHero links a hero to an event.
type EventHero struct {
	ID           int64
	EventID      int64
	EventDetails string
	HeroID       int64
	HeroName     string
	IsPrimary    bool
}

// EventVillain links a villain to an event.
type EventVillain struct {
	ID           int64
	EventID      int64
	EventDetails string
	VillainID    int64
	VillainName  string
	IsPrimary    bool
}

// Predicate is a structured comparison on a public field name. It is how
// changelist sidebar filters reach storage without building SQL.
type Predicate struct {
	Field  string
	Op     string
	Value  any
	Negate bool
}

// ListQuery selects, orders, and pages a changelist.
type ListQuery struct {
	// Filter is an AIP-160 expression over the record's public fields.
	Filter string
	// Predicates are ANDed with Filter.
	Predicates []Predicate
	// OrderBy is an AIP-132 ordering, e.g. "hero_count desc, name".
	OrderBy string
	// Search matches record names case-insensitively.
	Search string
	// IDs restricts the result to these records when non-empty.
	IDs    []int64
	Limit  int
	Offset int
}

// Page is one page of records plus the unpaged total.
type Page[T any] struct {
	Rows  []T
	Total int
}

// CategoryStore persists categories.
type CategoryStore interface {
	CreateCategory(ctx context.Context, category Category) (int64, error)
	GetCategory(ctx context.Context, id int64) (Category, error)
	UpdateCategory(ctx context.Context, category Category) error
	DeleteCategories(ctx context.Context, ids []int64) (int, error)
	ListCategories(ctx context.Context, query ListQuery) (Page[Category], error)
	GetOrCreateCategory(ctx context.Context, name string) (Category, error)
}

// OriginStore persists origins.
type OriginStore interface {
	CreateOrigin(ctx context.Context, origin Origin) (int64, error)
	GetOrigin(ctx context.Context, id int64) (Origin, error)
	UpdateOrigin(ctx context.Context, origin Origin) error
	DeleteOrigins(ctx context.Context, ids []int64) (int, error)
	ListOriginsWithCounts(ctx context.Context, query ListQuery) (Page[OriginStats], error)
	GetOrCreateOrigin(ctx context.Context, name string) (Origin, error)
}

// HeroStore persists heroes and their relations.
type HeroStore interface {
	CreateHero(ctx context.Context, hero Hero) (int64, error)
	GetHero(ctx context.Context, id int64) (Hero, error)
	UpdateHero(ctx context.Context, hero Hero) error
	DeleteHeroes(ctx context.Context, ids []int64) (int, error)
	ListHeroes(ctx context.Context, query ListQuery) (Page[Hero], error)
	SetAllHeroesImmortal(ctx context.Context, immortal bool) (int, error)
	SetHeroesImmortal(ctx context.Context, ids []int64, immortal bool) (int, error)
	HeroChildren(ctx context.Context, id int64) ([]Hero, error)
	HeroDescendants(ctx context.Context, id int64, maxDepth int) ([]HeroNode, error)
	GetAcquaintance(ctx context.Context, heroID int64) (HeroAcquaintance, error)
	PutAcquaintance(ctx context.Context, acquaintance HeroAcquaintance) error
	SaveHero(ctx context.Context, hero Hero, acquaintance HeroAcquaintance) (int64, error)
	ImportHeroes(ctx context.Context, heroes []Hero) (int, error)
}

// VillainStore persists villains.
type VillainStore interface {
	CreateVillain(ctx context.Context, villain Villain) (int64, error)
	GetVillain(ctx context.Context, id int64) (Villain, error)
	UpdateVillain(ctx context.Context, villain Villain) error
	DeleteVillains(ctx context.Context, ids []int64) (int, error)
	ListVillains(ctx context.Context, query ListQuery) (Page[Villain], error)
	MakeVillainsUnique(ctx context.Context, ids []int64) (int, error)
	ImportVillains(ctx context.Context, villains []Villain) (int, error)
}

// EpicStore persists epics and their events.
type EpicStore interface {
	CreateEpic(ctx context.Context, epic Epic) (int64, error)
	GetEpic(ctx context.Context, id int64) (Epic, error)
	UpdateEpic(ctx context.Context, epic Epic) error
	DeleteEpics(ctx context.Context, ids []int64) (int, error)
	ListEpics(ctx context.Context, query ListQuery) (Page[Epic], error)

	CreateEvent(ctx context.Context, event Event) (int64, error)
	GetEvent(ctx context.Context, id int64) (Event, error)
	UpdateEvent(ctx context.Context, event Event) error
	DeleteEvents(ctx context.Context, ids []int64) (int, error)
	ListEvents(ctx context.Context, query ListQuery) (Page[Event], error)

	CreateEventHero(ctx context.Context, link EventHero) (int64, error)
	GetEventHero(ctx context.Context, id int64) (EventHero, error)
	UpdateEventHero(ctx context.Context, link EventHero) error
	DeleteEventHeroes(ctx context.Context, ids []int64) (int, error)
	ListEventHeroes(ctx context.Context, query ListQuery) (Page[EventHero], error)

	CreateEventVillain(ctx context.Context, link EventVillain) (int64, error)
	GetEventVillain(ctx context.Context, id int64) (EventVillain, error)
	UpdateEventVillain(ctx context.Context, link EventVillain) error
	DeleteEventVillains(ctx context.Context, ids []int64) (int, error)
	ListEventVillains(ctx context.Context, query ListQuery) (Page[EventVillain], error)
}

// Store is a composite interface for admin storage concerns.
type Store interface {
	CategoryStore
	OriginStore
	HeroStore
	VillainStore
	EpicStore
	Close() error
}
