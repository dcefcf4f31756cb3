package storage

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/umsra/internal/platform/errors"
)

const (
	minFactor = 0
	maxFactor = 100
)

func requireName(kind string, name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.WithMetadata(apperrors.CodeNameRequired, kind+" name is required", map[string]string{"Kind": kind})
	}
	return nil
}

func checkFactor(field string, value int) error {
	if value < minFactor || value > maxFactor {
		return apperrors.WithMetadata(
			apperrors.CodeFactorOutOfRange,
			fmt.Sprintf("%s must be between %d and %d", field, minFactor, maxFactor),
			map[string]string{"Field": field},
		)
	}
	return nil
}

func checkSelf(field string, id int64, ref int64) error {
	if id != 0 && ref == id {
		return apperrors.WithMetadata(apperrors.CodeSelfRelation, field+" cannot reference the hero itself", map[string]string{"Field": field})
	}
	return nil
}

func requireRef(field string, id int64) error {
	if id <= 0 {
		return apperrors.WithMetadata(apperrors.CodeReferenceRequired, field+" is required", map[string]string{"Field": field})
	}
	return nil
}

// Validate checks a category before it is written.
func (c Category) Validate() error {
	return requireName("category", c.Name)
}

// Validate checks an origin before it is written.
func (o Origin) Validate() error {
	return requireName("origin", o.Name)
}

// Validate checks the shared entity fields.
func (e Entity) Validate() error {
	if err := requireName("entity", e.Name); err != nil {
		return err
	}
	if _, ok := ParseGender(string(e.Gender)); !ok {
		return apperrors.WithMetadata(apperrors.CodeInvalidGender, "invalid gender: "+string(e.Gender), map[string]string{"Gender": string(e.Gender)})
	}
	return nil
}

// Validate checks a hero before it is written. A hero cannot be its own
// father, mother or spouse.
func (h Hero) Validate() error {
	if err := h.Entity.Validate(); err != nil {
		return err
	}
	if err := checkFactor("benevolence_factor", h.BenevolenceFactor); err != nil {
		return err
	}
	if err := checkFactor("arbitrariness_factor", h.ArbitrarinessFactor); err != nil {
		return err
	}
	if err := checkSelf("father", h.ID, h.FatherID); err != nil {
		return err
	}
	if err := checkSelf("mother", h.ID, h.MotherID); err != nil {
		return err
	}
	return checkSelf("spouse", h.ID, h.SpouseID)
}

// Validate checks a villain before it is written.
func (v Villain) Validate() error {
	if err := v.Entity.Validate(); err != nil {
		return err
	}
	if err := checkFactor("malevolence_factor", v.MalevolenceFactor); err != nil {
		return err
	}
	if err := checkFactor("power_factor", v.PowerFactor); err != nil {
		return err
	}
	if v.Count < 1 {
		return apperrors.New(apperrors.CodeCountOutOfRange, "count must be at least 1")
	}
	return nil
}

// Validate checks that a hero does not befriend or detract itself.
func (a HeroAcquaintance) Validate() error {
	if err := requireRef("hero", a.HeroID); err != nil {
		return err
	}
	for _, id := range a.Friends {
		if err := checkSelf("friends", a.HeroID, id); err != nil {
			return err
		}
	}
	for _, id := range a.Detractors {
		if err := checkSelf("detractors", a.HeroID, id); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks an epic before it is written.
func (e Epic) Validate() error {
	return requireName("epic", e.Name)
}

// Validate checks an event before it is written.
func (e Event) Validate() error {
	if err := requireRef("epic", e.EpicID); err != nil {
		return err
	}
	if e.YearsAgo < 0 {
		return apperrors.New(apperrors.CodeYearsAgoNegative, "years ago cannot be negative")
	}
	return nil
}

// Validate checks an event hero link before it is written.
func (l EventHero) Validate() error {
	if err := requireRef("event", l.EventID); err != nil {
		return err
	}
	return requireRef("hero", l.HeroID)
}

// Validate checks an event villain link before it is written.
func (l EventVillain) Validate() error {
	if err := requireRef("event", l.EventID); err != nil {
		return err
	}
	return requireRef("villain", l.VillainID)
}
