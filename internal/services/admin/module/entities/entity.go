package entities

import (
	"net/url"

	"github.com/louisbranch/umsra/internal/services/admin/csvexport"
	"github.com/louisbranch/umsra/internal/services/admin/site"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
	"github.com/louisbranch/umsra/internal/services/admin/templates"
)

// entityFields are the form fields heroes and villains share.
func entityFields(loc templates.Localizer, e storage.Entity, categories, origins []templates.Choice) []templates.Field {
	t := func(key string) string { return templates.T(loc, key) }
	gender := string(e.Gender)
	if gender == "" {
		gender = string(storage.GenderOther)
	}
	fields := []templates.Field{
		{Name: "name", Label: t("entities.field.name"), Value: e.Name, Required: true},
		{Name: "gender", Label: t("entities.field.gender"), Kind: templates.FieldSelect, Value: gender, Choices: genderChoices(loc), Required: true},
		{Name: "category", Label: t("entities.field.category"), Kind: templates.FieldSelect, Value: site.IDString(e.CategoryID), Choices: categories},
		{Name: "origin", Label: t("entities.field.origin"), Kind: templates.FieldSelect, Value: site.IDString(e.OriginID), Choices: origins},
		{Name: "description", Label: t("entities.field.description"), Kind: templates.FieldTextArea, Value: e.Description},
	}
	if !e.AddedOn.IsZero() {
		fields = append(fields, templates.Field{
			Name:  "added_on",
			Label: t("entities.field.added_on"),
			Kind:  templates.FieldReadOnly,
			Value: e.AddedOn.Format(csvexport.TimeLayout),
		})
	}
	return fields
}

// entityFromForm reads the shared entity fields. An unknown gender is kept
// as submitted so validation reports it.
func entityFromForm(values url.Values) (storage.Entity, error) {
	e := storage.Entity{
		Name:        site.FormString(values, "name"),
		Description: site.FormString(values, "description"),
	}
	raw := site.FormString(values, "gender")
	if gender, ok := storage.ParseGender(raw); ok {
		e.Gender = gender
	} else {
		e.Gender = storage.Gender(raw)
	}
	var err error
	if e.CategoryID, err = site.FormID(values, "category"); err != nil {
		return storage.Entity{}, err
	}
	if e.OriginID, err = site.FormID(values, "origin"); err != nil {
		return storage.Entity{}, err
	}
	return e, nil
}

// entityFromRow reads the shared entity columns of an imported CSV row.
// Category and origin stay as names; the store get-or-creates them on import.
func entityFromRow(row csvexport.Row) storage.Entity {
	e := storage.Entity{
		Name:         row.Get("name"),
		Description:  row.Get("description"),
		CategoryName: row.Get("category"),
		OriginName:   row.Get("origin"),
	}
	raw := row.Get("gender")
	if gender, ok := storage.ParseGender(raw); ok {
		e.Gender = gender
	} else {
		e.Gender = storage.Gender(raw)
	}
	return e
}
