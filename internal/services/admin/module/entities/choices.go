package entities

import (
	"context"
	"strconv"

	"github.com/louisbranch/umsra/internal/services/admin/site"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
	"github.com/louisbranch/umsra/internal/services/admin/templates"
)

func idText(id int64) string {
	return strconv.FormatInt(id, 10)
}

func categoryChoices(ctx context.Context, store storage.CategoryStore) ([]templates.Choice, error) {
	page, err := store.ListCategories(ctx, storage.ListQuery{OrderBy: "name"})
	if err != nil {
		return nil, err
	}
	choices := make([]templates.Choice, 0, len(page.Rows))
	for _, c := range page.Rows {
		choices = append(choices, templates.Choice{Value: idText(c.ID), Label: c.Name})
	}
	return choices, nil
}

func originChoices(ctx context.Context, store storage.OriginStore) ([]templates.Choice, error) {
	page, err := store.ListOriginsWithCounts(ctx, storage.ListQuery{OrderBy: "name"})
	if err != nil {
		return nil, err
	}
	choices := make([]templates.Choice, 0, len(page.Rows))
	for _, o := range page.Rows {
		choices = append(choices, templates.Choice{Value: idText(o.ID), Label: o.Name})
	}
	return choices, nil
}

// heroChoices lists every hero except the one being edited.
func heroChoices(ctx context.Context, store storage.HeroStore, exclude int64) ([]templates.Choice, error) {
	page, err := store.ListHeroes(ctx, storage.ListQuery{OrderBy: "name"})
	if err != nil {
		return nil, err
	}
	choices := make([]templates.Choice, 0, len(page.Rows))
	for _, h := range page.Rows {
		if h.ID == exclude {
			continue
		}
		choices = append(choices, templates.Choice{Value: idText(h.ID), Label: h.Name})
	}
	return choices, nil
}

func villainChoices(ctx context.Context, store storage.VillainStore) ([]templates.Choice, error) {
	page, err := store.ListVillains(ctx, storage.ListQuery{OrderBy: "name"})
	if err != nil {
		return nil, err
	}
	choices := make([]templates.Choice, 0, len(page.Rows))
	for _, v := range page.Rows {
		choices = append(choices, templates.Choice{Value: idText(v.ID), Label: v.Name})
	}
	return choices, nil
}

func genderChoices(loc templates.Localizer) []templates.Choice {
	genders := storage.Genders()
	choices := make([]templates.Choice, 0, len(genders))
	for _, g := range genders {
		choices = append(choices, templates.Choice{Value: string(g), Label: templates.T(loc, "entities.gender."+string(g))})
	}
	return choices
}

func filterChoices(choices []templates.Choice) []site.FilterChoice {
	out := make([]site.FilterChoice, 0, len(choices))
	for _, c := range choices {
		out = append(out, site.FilterChoice{Value: c.Value, Label: c.Label})
	}
	return out
}

// orderedLabels returns names for ids in the order of ids, skipping missing ones.
func orderedLabels(ids []int64, names map[int64]string) []string {
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			labels = append(labels, name)
		}
	}
	return labels
}

// optionalName renders a nullable foreign key's display name.
func optionalName(id int64, name string) any {
	if id == 0 {
		return nil
	}
	return name
}
