package entities

import (
	"context"
	"net/url"

	"github.com/louisbranch/umsra/internal/services/admin/site"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
	"github.com/louisbranch/umsra/internal/services/admin/templates"
)

type categoryResource struct {
	store storage.CategoryStore
}

func (r *categoryResource) Options() site.Options {
	return site.Options{
		App:        App,
		Model:      "category",
		AppLabel:   "entities.app",
		Name:       "entities.category",
		PluralName: "entities.categories",
		Columns: []site.Column{
			{Name: "name", Label: "entities.field.name", Sortable: true},
		},
		Searchable: true,
	}
}

func (r *categoryResource) List(ctx context.Context, query storage.ListQuery) (site.ListPage, error) {
	page, err := r.store.ListCategories(ctx, query)
	if err != nil {
		return site.ListPage{}, err
	}
	rows := make([]site.Row, 0, len(page.Rows))
	for _, c := range page.Rows {
		rows = append(rows, site.Row{ID: c.ID, Values: []any{c.Name}})
	}
	return site.ListPage{Rows: rows, Total: page.Total}, nil
}

func (r *categoryResource) Labels(ctx context.Context, ids []int64) ([]string, error) {
	page, err := r.store.ListCategories(ctx, storage.ListQuery{IDs: ids})
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(page.Rows))
	for _, c := range page.Rows {
		names[c.ID] = c.Name
	}
	return orderedLabels(ids, names), nil
}

func (r *categoryResource) Form(ctx context.Context, loc templates.Localizer, id int64) (site.Form, error) {
	var category storage.Category
	if id != 0 {
		var err error
		if category, err = r.store.GetCategory(ctx, id); err != nil {
			return site.Form{}, err
		}
	}
	return site.Form{
		Label: category.Name,
		Fieldsets: []templates.Fieldset{{Fields: []templates.Field{
			{Name: "name", Label: templates.T(loc, "entities.field.name"), Value: category.Name, Required: true},
		}}},
	}, nil
}

func (r *categoryResource) Save(ctx context.Context, id int64, values url.Values) (int64, error) {
	category := storage.Category{ID: id, Name: site.FormString(values, "name")}
	if id == 0 {
		return r.store.CreateCategory(ctx, category)
	}
	return id, r.store.UpdateCategory(ctx, category)
}

func (r *categoryResource) Delete(ctx context.Context, ids []int64) (int, error) {
	return r.store.DeleteCategories(ctx, ids)
}
