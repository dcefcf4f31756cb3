package entities

import (
	"context"
	"net/url"

	"github.com/louisbranch/umsra/internal/services/admin/site"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
	"github.com/louisbranch/umsra/internal/services/admin/templates"
)

// originResource lists origins with distinct hero and villain counts.
type originResource struct {
	store storage.OriginStore
}

func (r *originResource) Options() site.Options {
	return site.Options{
		App:        App,
		Model:      "origin",
		AppLabel:   "entities.app",
		Name:       "entities.origin",
		PluralName: "entities.origins",
		Columns: []site.Column{
			{Name: "name", Label: "entities.field.name", Sortable: true},
			{Name: "hero_count", Label: "entities.field.hero_count", Sortable: true},
			{Name: "villain_count", Label: "entities.field.villain_count", Sortable: true},
		},
		Searchable: true,
	}
}

func (r *originResource) List(ctx context.Context, query storage.ListQuery) (site.ListPage, error) {
	page, err := r.store.ListOriginsWithCounts(ctx, query)
	if err != nil {
		return site.ListPage{}, err
	}
	rows := make([]site.Row, 0, len(page.Rows))
	for _, o := range page.Rows {
		rows = append(rows, site.Row{ID: o.ID, Values: []any{o.Name, o.HeroCount, o.VillainCount}})
	}
	return site.ListPage{Rows: rows, Total: page.Total}, nil
}

func (r *originResource) Labels(ctx context.Context, ids []int64) ([]string, error) {
	page, err := r.store.ListOriginsWithCounts(ctx, storage.ListQuery{IDs: ids})
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(page.Rows))
	for _, o := range page.Rows {
		names[o.ID] = o.Name
	}
	return orderedLabels(ids, names), nil
}

func (r *originResource) Form(ctx context.Context, loc templates.Localizer, id int64) (site.Form, error) {
	var origin storage.Origin
	if id != 0 {
		var err error
		if origin, err = r.store.GetOrigin(ctx, id); err != nil {
			return site.Form{}, err
		}
	}
	return site.Form{
		Label: origin.Name,
		Fieldsets: []templates.Fieldset{{Fields: []templates.Field{
			{Name: "name", Label: templates.T(loc, "entities.field.name"), Value: origin.Name, Required: true},
		}}},
	}, nil
}

func (r *originResource) Save(ctx context.Context, id int64, values url.Values) (int64, error) {
	origin := storage.Origin{ID: id, Name: site.FormString(values, "name")}
	if id == 0 {
		return r.store.CreateOrigin(ctx, origin)
	}
	return id, r.store.UpdateOrigin(ctx, origin)
}

func (r *originResource) Delete(ctx context.Context, ids []int64) (int, error) {
	return r.store.DeleteOrigins(ctx, ids)
}
