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

const heroModel = "hero"

// Default factors for a new hero.
const defaultFactor = storage.DefaultFactor

// heroExportFields are the CSV columns written by export_as_csv.
var heroExportFields = []string{
	"id", "name", "gender", "category", "origin", "description", "added_on",
	"is_immortal", "benevolence_factor", "arbitrariness_factor", "father", "mother", "spouse",
}

// heroImportColumns are the CSV columns read by the hero import; only name is required.
var heroImportColumns = []string{
	"name", "gender", "category", "origin", "description",
	"is_immortal", "benevolence_factor", "arbitrariness_factor",
}

type heroResource struct {
	store  Store
	prefix string
}

func newHeroResource(store Store, prefix string) *heroResource {
	return &heroResource{store: store, prefix: prefix}
}

func (r *heroResource) changeURL(id int64) string {
	return routepath.ModelRoute(r.prefix, App, heroModel, strconv.FormatInt(id, 10)) + "change/"
}

func (r *heroResource) Options() site.Options {
	return site.Options{
		App:        App,
		Model:      heroModel,
		AppLabel:   "entities.app",
		Name:       "entities.hero",
		PluralName: "entities.heroes",
		Columns: []site.Column{
			{Name: "name", Label: "entities.field.name", Sortable: true},
			{Name: "is_immortal", Label: "entities.field.is_immortal", Sortable: true},
			{Name: "category", Label: "entities.field.category", Sortable: true},
			{Name: "origin", Label: "entities.field.origin", Sortable: true},
			{Name: "is_very_benevolent", Label: "entities.field.is_very_benevolent", Sortable: true, OrderField: "benevolence_factor"},
		},
		Filters: []site.ListFilter{
			site.BoolFilter("entities.field.is_immortal", "is_immortal"),
			site.RelatedFilter("entities.field.category", "category", "category_id", func(ctx context.Context) ([]site.FilterChoice, error) {
				choices, err := categoryChoices(ctx, r.store)
				return filterChoices(choices), err
			}),
			site.RelatedFilter("entities.field.origin", "origin", "origin_id", func(ctx context.Context) ([]site.FilterChoice, error) {
				choices, err := originChoices(ctx, r.store)
				return filterChoices(choices), err
			}),
			veryBenevolentFilter(),
		},
		Actions: []site.Action{
			{Name: "mark_immortal", Description: "entities.hero.mark_immortal", Run: r.markImmortal},
			{Name: "export_as_csv", Description: "entities.export_selected", Run: r.exportCSV},
		},
		RemoveDelete: true,
		Routes: []site.Route{
			{Path: "immortal", Handler: r.setAllImmortal(true)},
			{Path: "mortal", Handler: r.setAllImmortal(false)},
			{Path: "import-csv", Handler: heroImport(r.store)},
		},
		Tools: []templates.Link{
			{Label: "entities.hero.all_immortal", URL: routepath.ModelRoute(r.prefix, App, heroModel, "immortal")},
			{Label: "entities.hero.all_mortal", URL: routepath.ModelRoute(r.prefix, App, heroModel, "mortal")},
			{Label: "entities.import_csv", URL: routepath.ModelRoute(r.prefix, App, heroModel, "import-csv")},
		},
		Searchable: true,
	}
}

// veryBenevolentFilter splits heroes on benevolence_factor > 75 with the
// lookups Yes and No. Any other value leaves the list unfiltered.
func veryBenevolentFilter() site.ListFilter {
	above := storage.Predicate{Field: "benevolence_factor", Op: ">", Value: storage.VeryBenevolentThreshold}
	return site.ListFilter{
		Title:     "entities.field.is_very_benevolent",
		Parameter: "is_very_benevolent",
		Choices: func(_ context.Context, loc templates.Localizer) ([]site.FilterChoice, error) {
			return []site.FilterChoice{
				{Value: "Yes", Label: templates.T(loc, "core.yes")},
				{Value: "No", Label: templates.T(loc, "core.no")},
			}, nil
		},
		Apply: func(value string) (storage.Predicate, bool) {
			switch value {
			case "Yes":
				return above, true
			case "No":
				negated := above
				negated.Negate = true
				return negated, true
			default:
				return storage.Predicate{}, false
			}
		},
	}
}

func (r *heroResource) List(ctx context.Context, query storage.ListQuery) (site.ListPage, error) {
	page, err := r.store.ListHeroes(ctx, query)
	if err != nil {
		return site.ListPage{}, err
	}
	rows := make([]site.Row, 0, len(page.Rows))
	for _, h := range page.Rows {
		rows = append(rows, site.Row{ID: h.ID, Values: []any{
			h.Name,
			h.IsImmortal,
			optionalName(h.CategoryID, h.CategoryName),
			optionalName(h.OriginID, h.OriginName),
			h.IsVeryBenevolent(),
		}})
	}
	return site.ListPage{Rows: rows, Total: page.Total}, nil
}

func (r *heroResource) names(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	page, err := r.store.ListHeroes(ctx, storage.ListQuery{IDs: ids})
	if err != nil {
		return nil, err
	}
	for _, h := range page.Rows {
		names[h.ID] = h.Name
	}
	return names, nil
}

func (r *heroResource) Labels(ctx context.Context, ids []int64) ([]string, error) {
	names, err := r.names(ctx, ids)
	if err != nil {
		return nil, err
	}
	return orderedLabels(ids, names), nil
}

func (r *heroResource) Form(ctx context.Context, loc templates.Localizer, id int64) (site.Form, error) {
	hero := storage.Hero{
		Entity:              storage.Entity{Gender: storage.GenderOther},
		BenevolenceFactor:   defaultFactor,
		ArbitrarinessFactor: defaultFactor,
	}
	var acquaintance storage.HeroAcquaintance
	var children []storage.HeroNode
	if id != 0 {
		var err error
		if hero, err = r.store.GetHero(ctx, id); err != nil {
			return site.Form{}, err
		}
		if acquaintance, err = r.store.GetAcquaintance(ctx, id); err != nil {
			return site.Form{}, err
		}
		if children, err = r.store.HeroDescendants(ctx, id, 0); err != nil {
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
	heroes, err := heroChoices(ctx, r.store, id)
	if err != nil {
		return site.Form{}, err
	}
	villains, err := villainChoices(ctx, r.store)
	if err != nil {
		return site.Form{}, err
	}

	t := func(key string) string { return templates.T(loc, key) }
	fields := entityFields(loc, hero.Entity, categories, origins)
	fields = append(fields,
		templates.Field{Name: "is_immortal", Label: t("entities.field.is_immortal"), Kind: templates.FieldCheckbox, Value: site.CheckboxValue(hero.IsImmortal)},
		templates.Field{Name: "benevolence_factor", Label: t("entities.field.benevolence_factor"), Kind: templates.FieldNumber, Value: strconv.Itoa(hero.BenevolenceFactor), Help: t("entities.help.factor")},
		templates.Field{Name: "arbitrariness_factor", Label: t("entities.field.arbitrariness_factor"), Kind: templates.FieldNumber, Value: strconv.Itoa(hero.ArbitrarinessFactor), Help: t("entities.help.factor")},
	)

	family := []templates.Field{
		{Name: "father", Label: t("entities.field.father"), Kind: templates.FieldSelect, Value: site.IDString(hero.FatherID), Choices: heroes},
		{Name: "mother", Label: t("entities.field.mother"), Kind: templates.FieldSelect, Value: site.IDString(hero.MotherID), Choices: heroes},
		{Name: "spouse", Label: t("entities.field.spouse"), Kind: templates.FieldSelect, Value: site.IDString(hero.SpouseID), Choices: heroes},
	}
	if id != 0 {
		family = append(family, templates.Field{Name: "children", Label: t("entities.field.children"), Kind: templates.FieldTree, Tree: r.tree(children)})
	}

	return site.Form{
		Label: hero.Name,
		Fieldsets: []templates.Fieldset{
			{Fields: fields},
			{Title: t("entities.hero.family"), Fields: family},
			{Title: t("entities.hero.acquaintance"), Fields: []templates.Field{
				{Name: "friends", Label: t("entities.field.friends"), Kind: templates.FieldMultiSelect, Values: site.IDStrings(acquaintance.Friends), Choices: heroes},
				{Name: "detractors", Label: t("entities.field.detractors"), Kind: templates.FieldMultiSelect, Values: site.IDStrings(acquaintance.Detractors), Choices: heroes},
				{Name: "main_antagonists", Label: t("entities.field.main_antagonists"), Kind: templates.FieldMultiSelect, Values: site.IDStrings(acquaintance.MainAntagonists), Choices: villains},
			}},
		},
	}, nil
}

func (r *heroResource) tree(nodes []storage.HeroNode) []templates.TreeNode {
	out := make([]templates.TreeNode, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, templates.TreeNode{
			Label:    node.Name,
			URL:      r.changeURL(node.ID),
			Children: r.tree(node.Children),
		})
	}
	return out
}

func (r *heroResource) Save(ctx context.Context, id int64, values url.Values) (int64, error) {
	hero := storage.Hero{}
	if id != 0 {
		existing, err := r.store.GetHero(ctx, id)
		if err != nil {
			return 0, err
		}
		hero.AddedOn = existing.AddedOn
	}
	entity, err := entityFromForm(values)
	if err != nil {
		return 0, err
	}
	entity.ID = id
	entity.AddedOn = hero.AddedOn
	hero.Entity = entity
	hero.IsImmortal = site.FormBool(values, "is_immortal")
	if hero.BenevolenceFactor, err = site.FormInt(values, "benevolence_factor", defaultFactor); err != nil {
		return 0, err
	}
	if hero.ArbitrarinessFactor, err = site.FormInt(values, "arbitrariness_factor", defaultFactor); err != nil {
		return 0, err
	}
	if hero.FatherID, err = site.FormID(values, "father"); err != nil {
		return 0, err
	}
	if hero.MotherID, err = site.FormID(values, "mother"); err != nil {
		return 0, err
	}
	if hero.SpouseID, err = site.FormID(values, "spouse"); err != nil {
		return 0, err
	}

	acquaintance := storage.HeroAcquaintance{HeroID: id}
	if acquaintance.Friends, err = site.FormIDs(values, "friends"); err != nil {
		return 0, err
	}
	if acquaintance.Detractors, err = site.FormIDs(values, "detractors"); err != nil {
		return 0, err
	}
	if acquaintance.MainAntagonists, err = site.FormIDs(values, "main_antagonists"); err != nil {
		return 0, err
	}

	return r.store.SaveHero(ctx, hero, acquaintance)
}

func (r *heroResource) Delete(ctx context.Context, ids []int64) (int, error) {
	return r.store.DeleteHeroes(ctx, ids)
}

func (r *heroResource) markImmortal(w http.ResponseWriter, req *http.Request, ids []int64) (bool, error) {
	ctx, cancel := context.WithTimeout(req.Context(), timeouts.StoreRequest)
	defer cancel()

	updated, err := r.store.SetHeroesImmortal(ctx, ids, true)
	if err != nil {
		return false, err
	}
	site.MessageUser(w, req, "entities.hero.marked_immortal", updated)
	return false, nil
}

func (r *heroResource) setAllImmortal(immortal bool) http.HandlerFunc {
	message := "entities.hero.now_mortal"
	if immortal {
		message = "entities.hero.now_immortal"
	}
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet && req.Method != http.MethodPost {
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		ctx, cancel := context.WithTimeout(req.Context(), timeouts.StoreRequest)
		defer cancel()

		if _, err := r.store.SetAllHeroesImmortal(ctx, immortal); err != nil {
			site.RenderError(w, req, err)
			return
		}
		site.MessageUser(w, req, message)
		http.Redirect(w, req, site.ChangeListURL(req), http.StatusFound)
	}
}

func (r *heroResource) exportCSV(w http.ResponseWriter, req *http.Request, ids []int64) (bool, error) {
	ctx, cancel := context.WithTimeout(req.Context(), timeouts.StoreRequest)
	defer cancel()

	page, err := r.store.ListHeroes(ctx, storage.ListQuery{IDs: ids, OrderBy: "id"})
	if err != nil {
		return false, err
	}
	var related []int64
	for _, h := range page.Rows {
		related = append(related, h.FatherID, h.MotherID, h.SpouseID)
	}
	names, err := r.names(ctx, nonZero(related))
	if err != nil {
		return false, err
	}

	rows := make([][]any, 0, len(page.Rows))
	for _, h := range page.Rows {
		rows = append(rows, []any{
			h.ID, h.Name, string(h.Gender),
			optionalName(h.CategoryID, h.CategoryName),
			optionalName(h.OriginID, h.OriginName),
			h.Description, h.AddedOn, h.IsImmortal,
			h.BenevolenceFactor, h.ArbitrarinessFactor,
			optionalName(h.FatherID, names[h.FatherID]),
			optionalName(h.MotherID, names[h.MotherID]),
			optionalName(h.SpouseID, names[h.SpouseID]),
		})
	}
	return true, csvexport.WriteResponse(w, App, heroModel, heroExportFields, rows)
}

func nonZero(ids []int64) []int64 {
	out := ids[:0:0]
	for _, id := range ids {
		if id != 0 {
			out = append(out, id)
		}
	}
	return out
}

func heroImport(store Store) http.HandlerFunc {
	return csvImport[storage.Hero]{
		plural:  "entities.heroes",
		columns: heroImportColumns,
		parse: func(row csvexport.Row) (storage.Hero, error) {
			hero := storage.Hero{Entity: entityFromRow(row)}
			var err error
			if hero.IsImmortal, err = csvexport.ParseBool(row.Get("is_immortal")); err != nil {
				return storage.Hero{}, invalidCell("is_immortal", err)
			}
			if hero.BenevolenceFactor, err = csvexport.ParseInt(row.Get("benevolence_factor"), defaultFactor); err != nil {
				return storage.Hero{}, invalidCell("benevolence_factor", err)
			}
			if hero.ArbitrarinessFactor, err = csvexport.ParseInt(row.Get("arbitrariness_factor"), defaultFactor); err != nil {
				return storage.Hero{}, invalidCell("arbitrariness_factor", err)
			}
			return hero, hero.Validate()
		},
		store: store.ImportHeroes,
	}.handler()
}
