package events

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

func epicChoices(ctx context.Context, store Store) ([]templates.Choice, error) {
	page, err := store.ListEpics(ctx, storage.ListQuery{OrderBy: "name"})
	if err != nil {
		return nil, err
	}
	choices := make([]templates.Choice, 0, len(page.Rows))
	for _, e := range page.Rows {
		choices = append(choices, templates.Choice{Value: idText(e.ID), Label: e.Name})
	}
	return choices, nil
}

func eventChoices(ctx context.Context, store Store) ([]templates.Choice, error) {
	page, err := store.ListEvents(ctx, storage.ListQuery{OrderBy: "epic, years_ago desc"})
	if err != nil {
		return nil, err
	}
	choices := make([]templates.Choice, 0, len(page.Rows))
	for _, e := range page.Rows {
		choices = append(choices, templates.Choice{Value: idText(e.ID), Label: eventLabel(e)})
	}
	return choices, nil
}

func heroChoices(ctx context.Context, store Store) ([]templates.Choice, error) {
	page, err := store.ListHeroes(ctx, storage.ListQuery{OrderBy: "name"})
	if err != nil {
		return nil, err
	}
	choices := make([]templates.Choice, 0, len(page.Rows))
	for _, h := range page.Rows {
		choices = append(choices, templates.Choice{Value: idText(h.ID), Label: h.Name})
	}
	return choices, nil
}

func villainChoices(ctx context.Context, store Store) ([]templates.Choice, error) {
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

func filterChoices(choices []templates.Choice) []site.FilterChoice {
	out := make([]site.FilterChoice, 0, len(choices))
	for _, c := range choices {
		out = append(out, site.FilterChoice{Value: c.Value, Label: c.Label})
	}
	return out
}

// eventLabel names an event by its epic and the start of its details.
func eventLabel(e storage.Event) string {
	if e.Details == "" {
		return e.EpicName
	}
	return e.EpicName + ": " + shorten(e.Details)
}

const maxLabelRunes = 40

func shorten(text string) string {
	runes := []rune(text)
	if len(runes) <= maxLabelRunes {
		return text
	}
	return string(runes[:maxLabelRunes]) + "…"
}

func orderedLabels(ids []int64, names map[int64]string) []string {
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			labels = append(labels, name)
		}
	}
	return labels
}
