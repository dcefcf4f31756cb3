package events

import (
	"context"
	"net/url"

	"github.com/louisbranch/umsra/internal/services/admin/site"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
	"github.com/louisbranch/umsra/internal/services/admin/templates"
)

// eventHeroResource links heroes to events.
type eventHeroResource struct {
	store Store
}

func (r *eventHeroResource) Options() site.Options {
	return site.Options{
		App:        App,
		Model:      "eventhero",
		AppLabel:   "events.app",
		Name:       "events.eventhero",
		PluralName: "events.eventheroes",
		Columns: []site.Column{
			{Name: "hero", Label: "events.field.hero", Sortable: true},
			{Name: "event", Label: "events.field.event", Sortable: true},
			{Name: "is_primary", Label: "events.field.is_primary", Sortable: true},
		},
		Filters: []site.ListFilter{
			site.BoolFilter("events.field.is_primary", "is_primary"),
			site.RelatedFilter("events.field.event", "event", "event_id", func(ctx context.Context) ([]site.FilterChoice, error) {
				choices, err := eventChoices(ctx, r.store)
				return filterChoices(choices), err
			}),
		},
		Searchable: true,
	}
}

func (r *eventHeroResource) List(ctx context.Context, query storage.ListQuery) (site.ListPage, error) {
	page, err := r.store.ListEventHeroes(ctx, query)
	if err != nil {
		return site.ListPage{}, err
	}
	rows := make([]site.Row, 0, len(page.Rows))
	for _, l := range page.Rows {
		rows = append(rows, site.Row{ID: l.ID, Values: []any{l.HeroName, l.EventDetails, l.IsPrimary}})
	}
	return site.ListPage{Rows: rows, Total: page.Total}, nil
}

func (r *eventHeroResource) Labels(ctx context.Context, ids []int64) ([]string, error) {
	page, err := r.store.ListEventHeroes(ctx, storage.ListQuery{IDs: ids})
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(page.Rows))
	for _, l := range page.Rows {
		names[l.ID] = linkLabel(l.HeroName, l.EventDetails)
	}
	return orderedLabels(ids, names), nil
}

func (r *eventHeroResource) Form(ctx context.Context, loc templates.Localizer, id int64) (site.Form, error) {
	var link storage.EventHero
	if id != 0 {
		var err error
		if link, err = r.store.GetEventHero(ctx, id); err != nil {
			return site.Form{}, err
		}
	}
	events, err := eventChoices(ctx, r.store)
	if err != nil {
		return site.Form{}, err
	}
	heroes, err := heroChoices(ctx, r.store)
	if err != nil {
		return site.Form{}, err
	}
	return site.Form{
		Label:     linkLabel(link.HeroName, link.EventDetails),
		Fieldsets: linkFieldsets(loc, "hero", site.IDString(link.EventID), site.IDString(link.HeroID), link.IsPrimary, events, heroes),
	}, nil
}

func (r *eventHeroResource) Save(ctx context.Context, id int64, values url.Values) (int64, error) {
	eventID, memberID, primary, err := linkFromForm(values, "hero")
	if err != nil {
		return 0, err
	}
	link := storage.EventHero{ID: id, EventID: eventID, HeroID: memberID, IsPrimary: primary}
	if id == 0 {
		return r.store.CreateEventHero(ctx, link)
	}
	return id, r.store.UpdateEventHero(ctx, link)
}

func (r *eventHeroResource) Delete(ctx context.Context, ids []int64) (int, error) {
	return r.store.DeleteEventHeroes(ctx, ids)
}

// eventVillainResource links villains to events.
type eventVillainResource struct {
	store Store
}

func (r *eventVillainResource) Options() site.Options {
	return site.Options{
		App:        App,
		Model:      "eventvillain",
		AppLabel:   "events.app",
		Name:       "events.eventvillain",
		PluralName: "events.eventvillains",
		Columns: []site.Column{
			{Name: "villain", Label: "events.field.villain", Sortable: true},
			{Name: "event", Label: "events.field.event", Sortable: true},
			{Name: "is_primary", Label: "events.field.is_primary", Sortable: true},
		},
		Filters: []site.ListFilter{
			site.BoolFilter("events.field.is_primary", "is_primary"),
			site.RelatedFilter("events.field.event", "event", "event_id", func(ctx context.Context) ([]site.FilterChoice, error) {
				choices, err := eventChoices(ctx, r.store)
				return filterChoices(choices), err
			}),
		},
		Searchable: true,
	}
}

func (r *eventVillainResource) List(ctx context.Context, query storage.ListQuery) (site.ListPage, error) {
	page, err := r.store.ListEventVillains(ctx, query)
	if err != nil {
		return site.ListPage{}, err
	}
	rows := make([]site.Row, 0, len(page.Rows))
	for _, l := range page.Rows {
		rows = append(rows, site.Row{ID: l.ID, Values: []any{l.VillainName, l.EventDetails, l.IsPrimary}})
	}
	return site.ListPage{Rows: rows, Total: page.Total}, nil
}

func (r *eventVillainResource) Labels(ctx context.Context, ids []int64) ([]string, error) {
	page, err := r.store.ListEventVillains(ctx, storage.ListQuery{IDs: ids})
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(page.Rows))
	for _, l := range page.Rows {
		names[l.ID] = linkLabel(l.VillainName, l.EventDetails)
	}
	return orderedLabels(ids, names), nil
}

func (r *eventVillainResource) Form(ctx context.Context, loc templates.Localizer, id int64) (site.Form, error) {
	var link storage.EventVillain
	if id != 0 {
		var err error
		if link, err = r.store.GetEventVillain(ctx, id); err != nil {
			return site.Form{}, err
		}
	}
	events, err := eventChoices(ctx, r.store)
	if err != nil {
		return site.Form{}, err
	}
	villains, err := villainChoices(ctx, r.store)
	if err != nil {
		return site.Form{}, err
	}
	return site.Form{
		Label:     linkLabel(link.VillainName, link.EventDetails),
		Fieldsets: linkFieldsets(loc, "villain", site.IDString(link.EventID), site.IDString(link.VillainID), link.IsPrimary, events, villains),
	}, nil
}

func (r *eventVillainResource) Save(ctx context.Context, id int64, values url.Values) (int64, error) {
	eventID, memberID, primary, err := linkFromForm(values, "villain")
	if err != nil {
		return 0, err
	}
	link := storage.EventVillain{ID: id, EventID: eventID, VillainID: memberID, IsPrimary: primary}
	if id == 0 {
		return r.store.CreateEventVillain(ctx, link)
	}
	return id, r.store.UpdateEventVillain(ctx, link)
}

func (r *eventVillainResource) Delete(ctx context.Context, ids []int64) (int, error) {
	return r.store.DeleteEventVillains(ctx, ids)
}

// linkFieldsets builds the event, member and is_primary fields of a link form.
// member is "hero" or "villain".
func linkFieldsets(loc templates.Localizer, member, eventID, memberID string, primary bool, events, members []templates.Choice) []templates.Fieldset {
	t := func(key string) string { return templates.T(loc, key) }
	return []templates.Fieldset{{Fields: []templates.Field{
		{Name: "event", Label: t("events.field.event"), Kind: templates.FieldSelect, Value: eventID, Choices: events, Required: true},
		{Name: member, Label: t("events.field." + member), Kind: templates.FieldSelect, Value: memberID, Choices: members, Required: true},
		{Name: "is_primary", Label: t("events.field.is_primary"), Kind: templates.FieldCheckbox, Value: site.CheckboxValue(primary)},
	}}}
}

func linkFromForm(values url.Values, member string) (eventID, memberID int64, primary bool, err error) {
	if eventID, err = site.FormID(values, "event"); err != nil {
		return 0, 0, false, err
	}
	if memberID, err = site.FormID(values, member); err != nil {
		return 0, 0, false, err
	}
	return eventID, memberID, site.FormBool(values, "is_primary"), nil
}

func linkLabel(member, details string) string {
	if details == "" {
		return member
	}
	return member + " (" + shorten(details) + ")"
}
