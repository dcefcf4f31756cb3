package events

import (
	"context"
	"net/url"

	"github.com/louisbranch/umsra/internal/services/admin/site"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
	"github.com/louisbranch/umsra/internal/services/admin/templates"
)

// epicResource edits epics together with their participating heroes and villains.
type epicResource struct {
	store Store
}

func (r *epicResource) Options() site.Options {
	return site.Options{
		App:        App,
		Model:      "epic",
		AppLabel:   "events.app",
		Name:       "events.epic",
		PluralName: "events.epics",
		Columns: []site.Column{
			{Name: "name", Label: "events.field.name", Sortable: true},
		},
		Searchable: true,
	}
}

func (r *epicResource) List(ctx context.Context, query storage.ListQuery) (site.ListPage, error) {
	page, err := r.store.ListEpics(ctx, query)
	if err != nil {
		return site.ListPage{}, err
	}
	rows := make([]site.Row, 0, len(page.Rows))
	for _, e := range page.Rows {
		rows = append(rows, site.Row{ID: e.ID, Values: []any{e.Name}})
	}
	return site.ListPage{Rows: rows, Total: page.Total}, nil
}

func (r *epicResource) Labels(ctx context.Context, ids []int64) ([]string, error) {
	page, err := r.store.ListEpics(ctx, storage.ListQuery{IDs: ids})
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(page.Rows))
	for _, e := range page.Rows {
		names[e.ID] = e.Name
	}
	return orderedLabels(ids, names), nil
}

func (r *epicResource) Form(ctx context.Context, loc templates.Localizer, id int64) (site.Form, error) {
	var epic storage.Epic
	if id != 0 {
		var err error
		if epic, err = r.store.GetEpic(ctx, id); err != nil {
			return site.Form{}, err
		}
	}
	heroes, err := heroChoices(ctx, r.store)
	if err != nil {
		return site.Form{}, err
	}
	villains, err := villainChoices(ctx, r.store)
	if err != nil {
		return site.Form{}, err
	}
	t := func(key string) string { return templates.T(loc, key) }
	return site.Form{
		Label: epic.Name,
		Fieldsets: []templates.Fieldset{
			{Fields: []templates.Field{
				{Name: "name", Label: t("events.field.name"), Value: epic.Name, Required: true},
			}},
			{Title: t("events.epic.participants"), Fields: []templates.Field{
				{Name: "heroes", Label: t("events.field.heroes"), Kind: templates.FieldMultiSelect, Values: site.IDStrings(epic.Heroes), Choices: heroes},
				{Name: "villains", Label: t("events.field.villains"), Kind: templates.FieldMultiSelect, Values: site.IDStrings(epic.Villains), Choices: villains},
			}},
		},
	}, nil
}

func (r *epicResource) Save(ctx context.Context, id int64, values url.Values) (int64, error) {
	epic := storage.Epic{ID: id, Name: site.FormString(values, "name")}
	var err error
	if epic.Heroes, err = site.FormIDs(values, "heroes"); err != nil {
		return 0, err
	}
	if epic.Villains, err = site.FormIDs(values, "villains"); err != nil {
		return 0, err
	}
	if id == 0 {
		return r.store.CreateEpic(ctx, epic)
	}
	return id, r.store.UpdateEpic(ctx, epic)
}

func (r *epicResource) Delete(ctx context.Context, ids []int64) (int, error) {
	return r.store.DeleteEpics(ctx, ids)
}
