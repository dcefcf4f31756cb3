package entities

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/louisbranch/umsra/internal/platform/timeouts"
	"github.com/louisbranch/umsra/internal/services/admin/csvexport"
	"github.com/louisbranch/umsra/internal/services/admin/routepath"
	"github.com/louisbranch/umsra/internal/services/admin/site"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
	"github.com/louisbranch/umsra/internal/services/admin/templates"
)

const villainModel = "villain"

var villainExportFields = []string{
	"id", "name", "gender", "category", "origin", "description", "added_on",
	"is_immortal", "malevolence_factor", "power_factor", "is_unique", "count",
}

var villainImportColumns = []string{
	"name", "gender", "category", "origin", "description",
	"is_immortal", "malevolence_factor", "power_factor", "is_unique", "count",
}

type villainResource struct {
	store  Store
	prefix string
}

func newVillainResource(store Store, prefix string) *villainResource {
	return &villainResource{store: store, prefix: prefix}
}

func (r *villainResource) Options() site.Options {
	return site.Options{
		App:        App,
		Model:      villainModel,
		AppLabel:   "entities.app",
		Name:       "entities.villain",
		PluralName: "entities.villains",
		Columns: []site.Column{
			{Name: "name", Label: "entities.field.name", Sortable: true},
			{Name: "category", Label: "entities.field.category", Sortable: true},
			{Name: "origin", Label: "entities.field.origin", Sortable: true},
		},
		Actions: []site.Action{
			{Name: "export_as_csv", Description: "entities.export_selected", Run: r.exportCSV},
			{Name: "make_unique", Description: "entities.villain.make_unique", Run: r.makeUnique},
		},
		Routes: []site.Route{
			{Path: "import-csv", Handler: villainImport(r.store)},
		},
		Tools: []templates.Link{
			{Label: "entities.import_csv", URL: routepath.ModelRoute(r.prefix, App, villainModel, "import-csv")},
		},
		Searchable: true,
	}
}

func (r *villainResource) List(ctx context.Context, query storage.ListQuery) (site.ListPage, error) {
	page, err := r.store.ListVillains(ctx, query)
	if err != nil {
		return site.ListPage{}, err
	}
	rows := make([]site.Row, 0, len(page.Rows))
	for _, v := range page.Rows {
		rows = append(rows, site.Row{ID: v.ID, Values: []any{
			v.Name,
			optionalName(v.CategoryID, v.CategoryName),
			optionalName(v.OriginID, v.OriginName),
		}})
	}
	return site.ListPage{Rows: rows, Total: page.Total}, nil
}

func (r *villainResource) Labels(ctx context.Context, ids []int64) ([]string, error) {
	page, err := r.store.ListVillains(ctx, storage.ListQuery{IDs: ids})
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(page.Rows))
	for _, v := range page.Rows {
		names[v.ID] = v.Name
	}
	return orderedLabels(ids, names), nil
}

func (r *villainResource) Form(ctx context.Context, loc templates.Localizer, id int64) (site.Form, error) {
	villain := storage.Villain{IsUnique: true, Count: 1}
	if id != 0 {
		var err error
		if villain, err = r.store.GetVillain(ctx, id); err != nil {
			return site.Form{}, err
		}
	}
	categories, err := categoryChoices(ctx, r.store)
	if err != nil {
		return site.Form{}, err
	}
	origins, err := originChoices(ctx, r.store)
	if err != nil {
		return site.Form{}, err
	}

	t := func(key string) string { return templates.T(loc, key) }
	fields := entityFields(loc, villain.Entity, categories, origins)
	fields = append(fields,
		templates.Field{Name: "is_immortal", Label: t("entities.field.is_immortal"), Kind: templates.FieldCheckbox, Value: site.CheckboxValue(villain.IsImmortal)},
		templates.Field{Name: "malevolence_factor", Label: t("entities.field.malevolence_factor"), Kind: templates.FieldNumber, Value: strconv.Itoa(villain.MalevolenceFactor), Help: t("entities.help.factor")},
		templates.Field{Name: "power_factor", Label: t("entities.field.power_factor"), Kind: templates.FieldNumber, Value: strconv.Itoa(villain.PowerFactor), Help: t("entities.help.factor")},
		templates.Field{Name: "is_unique", Label: t("entities.field.is_unique"), Kind: templates.FieldCheckbox, Value: site.CheckboxValue(villain.IsUnique)},
		templates.Field{Name: "count", Label: t("entities.field.count"), Kind: templates.FieldNumber, Value: strconv.Itoa(villain.Count)},
	)
	return site.Form{
		Label:     villain.Name,
		Fieldsets: []templates.Fieldset{{Fields: fields}},
	}, nil
}

func (r *villainResource) Save(ctx context.Context, id int64, values url.Values) (int64, error) {
	villain := storage.Villain{}
	if id != 0 {
		existing, err := r.store.GetVillain(ctx, id)
		if err != nil {
			return 0, err
		}
		villain.AddedOn = existing.AddedOn
	}
	entity, err := entityFromForm(values)
	if err != nil {
		return 0, err
	}
	entity.ID = id
	entity.AddedOn = villain.AddedOn
	villain.Entity = entity
	villain.IsImmortal = site.FormBool(values, "is_immortal")
	villain.IsUnique = site.FormBool(values, "is_unique")
	if villain.MalevolenceFactor, err = site.FormInt(values, "malevolence_factor", 0); err != nil {
		return 0, err
	}
	if villain.PowerFactor, err = site.FormInt(values, "power_factor", 0); err != nil {
		return 0, err
	}
	if villain.Count, err = site.FormInt(values, "count", 1); err != nil {
		return 0, err
	}

	if id == 0 {
		return r.store.CreateVillain(ctx, villain)
	}
	return id, r.store.UpdateVillain(ctx, villain)
}

func (r *villainResource) Delete(ctx context.Context, ids []int64) (int, error) {
	return r.store.DeleteVillains(ctx, ids)
}

func (r *villainResource) makeUnique(w http.ResponseWriter, req *http.Request, ids []int64) (bool, error) {
	ctx, cancel := context.WithTimeout(req.Context(), timeouts.StoreRequest)
	defer cancel()

	deleted, err := r.store.MakeVillainsUnique(ctx, ids)
	if err != nil {
		return false, err
	}
	site.MessageUser(w, req, "entities.villain.made_unique", deleted)
	return false, nil
}

func (r *villainResource) exportCSV(w http.ResponseWriter, req *http.Request, ids []int64) (bool, error) {
	ctx, cancel := context.WithTimeout(req.Context(), timeouts.StoreRequest)
	defer cancel()

	page, err := r.store.ListVillains(ctx, storage.ListQuery{IDs: ids, OrderBy: "id"})
	if err != nil {
		return false, err
	}
	rows := make([][]any, 0, len(page.Rows))
	for _, v := range page.Rows {
		rows = append(rows, []any{
			v.ID, v.Name, string(v.Gender),
			optionalName(v.CategoryID, v.CategoryName),
			optionalName(v.OriginID, v.OriginName),
			v.Description, v.AddedOn, v.IsImmortal,
			v.MalevolenceFactor, v.PowerFactor, v.IsUnique, v.Count,
		})
	}
	return true, csvexport.WriteResponse(w, App, villainModel, villainExportFields, rows)
}

func villainImport(store Store) http.HandlerFunc {
	return csvImport[storage.Villain]{
		plural:  "entities.villains",
		columns: villainImportColumns,
		parse: func(row csvexport.Row) (storage.Villain, error) {
			villain := storage.Villain{Entity: entityFromRow(row), IsUnique: true}
			var err error
			if villain.IsImmortal, err = csvexport.ParseBool(row.Get("is_immortal")); err != nil {
				return storage.Villain{}, invalidCell("is_immortal", err)
			}
			if raw := row.Get("is_unique"); raw != "" {
				if villain.IsUnique, err = csvexport.ParseBool(raw); err != nil {
					return storage.Villain{}, invalidCell("is_unique", err)
				}
			}
			if villain.MalevolenceFactor, err = csvexport.ParseInt(row.Get("malevolence_factor"), 0); err != nil {
				return storage.Villain{}, invalidCell("malevolence_factor", err)
			}
			if villain.PowerFactor, err = csvexport.ParseInt(row.Get("power_factor"), 0); err != nil {
				return storage.Villain{}, invalidCell("power_factor", err)
			}
			if villain.Count, err = csvexport.ParseInt(row.Get("count"), 1); err != nil {
				return storage.Villain{}, invalidCell("count", err)
			}
			return villain, villain.Validate()
		},
		store: store.ImportVillains,
	}.handler()
}
