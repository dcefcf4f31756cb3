package storage

import (
	"testing"

	apperrors "github.com/louisbranch/umsra/internal/platform/errors"
)

func TestValidate(t *testing.T) {
	valid := Entity{Name: "Thor", Gender: GenderMale}
	tests := []struct {
		name string
		v    interface{ Validate() error }
		want apperrors.Code
	}{
		{name: "category ok", v: Category{Name: "Norse"}},
		{name: "category blank", v: Category{Name: "  "}, want: apperrors.CodeNameRequired},
		{name: "origin blank", v: Origin{}, want: apperrors.CodeNameRequired},
		{name: "hero ok", v: Hero{Entity: valid, BenevolenceFactor: 50, ArbitrarinessFactor: 10}},
		{name: "hero empty gender", v: Hero{Entity: Entity{Name: "Loki"}}},
		{name: "hero bad gender", v: Hero{Entity: Entity{Name: "Loki", Gender: "robot"}}, want: apperrors.CodeInvalidGender},
		{name: "hero factor high", v: Hero{Entity: valid, BenevolenceFactor: 101}, want: apperrors.CodeFactorOutOfRange},
		{name: "hero factor low", v: Hero{Entity: valid, ArbitrarinessFactor: -1}, want: apperrors.CodeFactorOutOfRange},
		{name: "hero own father", v: Hero{Entity: Entity{ID: 4, Name: "Thor"}, FatherID: 4}, want: apperrors.CodeSelfRelation},
		{name: "hero own spouse", v: Hero{Entity: Entity{ID: 4, Name: "Thor"}, SpouseID: 4}, want: apperrors.CodeSelfRelation},
		{name: "new hero zero ids", v: Hero{Entity: valid}},
		{name: "villain ok", v: Villain{Entity: valid, Count: 1}},
		{name: "villain zero count", v: Villain{Entity: valid}, want: apperrors.CodeCountOutOfRange},
		{name: "villain factor", v: Villain{Entity: valid, PowerFactor: 200, Count: 1}, want: apperrors.CodeFactorOutOfRange},
		{name: "acquaintance ok", v: HeroAcquaintance{HeroID: 1, Friends: []int64{2}, Detractors: []int64{3}}},
		{name: "acquaintance self friend", v: HeroAcquaintance{HeroID: 1, Friends: []int64{1}}, want: apperrors.CodeSelfRelation},
		{name: "acquaintance self detractor", v: HeroAcquaintance{HeroID: 1, Detractors: []int64{1}}, want: apperrors.CodeSelfRelation},
		{name: "acquaintance no hero", v: HeroAcquaintance{}, want: apperrors.CodeReferenceRequired},
		{name: "epic blank", v: Epic{}, want: apperrors.CodeNameRequired},
		{name: "event no epic", v: Event{}, want: apperrors.CodeReferenceRequired},
		{name: "event negative years", v: Event{EpicID: 1, YearsAgo: -1}, want: apperrors.CodeYearsAgoNegative},
		{name: "event hero no hero", v: EventHero{EventID: 1}, want: apperrors.CodeReferenceRequired},
		{name: "event villain ok", v: EventVillain{EventID: 1, VillainID: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.v.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if got := apperrors.GetCode(err); got != tt.want {
				t.Fatalf("code = %s, want %s (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestParseGender(t *testing.T) {
	tests := map[string]Gender{
		"male":    GenderMale,
		" Female": GenderFemale,
		"":        GenderOther,
		"OTHER":   GenderOther,
	}
	for input, want := range tests {
		got, ok := ParseGender(input)
		if !ok || got != want {
			t.Fatalf("ParseGender(%q) = %q, %v; want %q", input, got, ok, want)
		}
	}
	if _, ok := ParseGender("dragon"); ok {
		t.Fatal("expected dragon to be rejected")
	}
}

func TestIsVeryBenevolent(t *testing.T) {
	if (Hero{BenevolenceFactor: 75}).IsVeryBenevolent() {
		t.Fatal("75 should not be very benevolent")
	}
	if !(Hero{BenevolenceFactor: 76}).IsVeryBenevolent() {
		t.Fatal("76 should be very benevolent")
	}
}
