package events

import (
	"context"
	"net/url"
	"strconv"

	"github.com/louisbranch/umsra/internal/services/admin/routepath"
	"github.com/louisbranch/umsra/internal/services/admin/site"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
	"github.com/louisbranch/umsra/internal/services/admin/templates"
)

// eventResource edits events. The change form lists the event's heroes and
// villains inline, linking to their own change pages.
type eventResource struct {
	store  Store
	prefix string
}

func (r *eventResource) Options() site.Options {
	return site.Options{
		App:        App,
		Model:      "event",
		AppLabel:   "events.app",
		Name:       "events.event",
		PluralName: "events.events",
		Columns: []site.Column{
			{Name: "details", Label: "events.field.details", Sortable: true},
			{Name: "epic", Label: "events.field.epic", Sortable: true},
			{Name: "years_ago", Label: "events.field.years_ago", Sortable: true},
		},
		Filters: []site.ListFilter{
			site.RelatedFilter("events.field.epic", "epic", "epic_id", func(ctx context.Context) ([]site.FilterChoice, error) {
				choices, err := epicChoices(ctx, r.store)
				return filterChoices(choices), err
			}),
		},
		Searchable: true,
	}
}

func (r *eventResource) List(ctx context.Context, query storage.ListQuery) (site.ListPage, error) {
	page, err := r.store.ListEvents(ctx, query)
	if err != nil {
		return site.ListPage{}, err
	}
	rows := make([]site.Row, 0, len(page.Rows))
	for _, e := range page.Rows {
		rows = append(rows, site.Row{ID: e.ID, Values: []any{eventLabel(e), e.EpicName, e.YearsAgo}})
	}
	return site.ListPage{Rows: rows, Total: page.Total}, nil
}

func (r *eventResource) Labels(ctx context.Context, ids []int64) ([]string, error) {
	page, err := r.store.ListEvents(ctx, storage.ListQuery{IDs: ids})
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(page.Rows))
	for _, e := range page.Rows {
		names[e.ID] = eventLabel(e)
	}
	return orderedLabels(ids, names), nil
}

func (r *eventResource) Form(ctx context.Context, loc templates.Localizer, id int64) (site.Form, error) {
	var event storage.Event
	if id != 0 {
		var err error
		if event, err = r.store.GetEvent(ctx, id); err != nil {
			return site.Form{}, err
		}
	}
	epics, err := epicChoices(ctx, r.store)
	if err != nil {
		return site.Form{}, err
	}
	t := func(key string) string { return templates.T(loc, key) }
	form := site.Form{
		Label: eventLabel(event),
		Fieldsets: []templates.Fieldset{{Fields: []templates.Field{
			{Name: "epic", Label: t("events.field.epic"), Kind: templates.FieldSelect, Value: site.IDString(event.EpicID), Choices: epics, Required: true},
			{Name: "details", Label: t("events.field.details"), Kind: templates.FieldTextArea, Value: event.Details},
			{Name: "years_ago", Label: t("events.field.years_ago"), Kind: templates.FieldNumber, Value: strconv.Itoa(event.YearsAgo)},
		}}},
	}
	if id == 0 {
		return form, nil
	}

	inlines, err := r.inlines(ctx, loc, id)
	if err != nil {
		return site.Form{}, err
	}
	form.Inlines = inlines
	return form, nil
}

func (r *eventResource) inlines(ctx context.Context, loc templates.Localizer, id int64) ([]templates.Inline, error) {
	t := func(key string) string { return templates.T(loc, key) }
	byEvent := storage.ListQuery{
		Predicates: []storage.Predicate{{Field: "event_id", Op: "=", Value: id}},
		OrderBy:    "is_primary desc, id",
	}

	heroes, err := r.store.ListEventHeroes(ctx, byEvent)
	if err != nil {
		return nil, err
	}
	heroRows := make([]templates.InlineRow, 0, len(heroes.Rows))
	for _, link := range heroes.Rows {
		heroRows = append(heroRows, templates.InlineRow{
			URL:   r.linkURL("eventhero", link.ID),
			Cells: []string{link.HeroName, yesNo(loc, link.IsPrimary)},
		})
	}

	villains, err := r.store.ListEventVillains(ctx, byEvent)
	if err != nil {
		return nil, err
	}
	villainRows := make([]templates.InlineRow, 0, len(villains.Rows))
	for _, link := range villains.Rows {
		villainRows = append(villainRows, templates.InlineRow{
			URL:   r.linkURL("eventvillain", link.ID),
			Cells: []string{link.VillainName, yesNo(loc, link.IsPrimary)},
		})
	}

	return []templates.Inline{
		{
			Title:   t("events.eventheroes"),
			Columns: []string{t("events.field.hero"), t("events.field.is_primary")},
			Rows:    heroRows,
			Empty:   t("core.none"),
		},
		{
			Title:   t("events.eventvillains"),
			Columns: []string{t("events.field.villain"), t("events.field.is_primary")},
			Rows:    villainRows,
			Empty:   t("core.none"),
		},
	}, nil
}

func (r *eventResource) linkURL(model string, id int64) string {
	return routepath.ModelRoute(r.prefix, App, model, idText(id)) + "change/"
}

func (r *eventResource) Save(ctx context.Context, id int64, values url.Values) (int64, error) {
	event := storage.Event{ID: id, Details: site.FormString(values, "details")}
	var err error
	if event.EpicID, err = site.FormID(values, "epic"); err != nil {
		return 0, err
	}
	if event.YearsAgo, err = site.FormInt(values, "years_ago", 0); err != nil {
		return 0, err
	}
	if id == 0 {
		return r.store.CreateEvent(ctx, event)
	}
	return id, r.store.UpdateEvent(ctx, event)
}

func (r *eventResource) Delete(ctx context.Context, ids []int64) (int, error) {
	return r.store.DeleteEvents(ctx, ids)
}

func yesNo(loc templates.Localizer, v bool) string {
	if v {
		return templates.T(loc, "core.yes")
	}
	return templates.T(loc, "core.no")
}
