package site

import (
	"context"
	"net/http"
	"net/url"

	"github.com/louisbranch/umsra/internal/services/admin/storage"
	"github.com/louisbranch/umsra/internal/services/admin/templates"
)

// DeleteSelected is the name of the built-in bulk delete action.
const DeleteSelected = "delete_selected"

// Column describes one changelist column. Label is a message key.
type Column struct {
	Name  string
	Label string
	// Sortable columns order by OrderField, or Name when it is empty.
	Sortable   bool
	OrderField string
}

func (c Column) orderField() string {
	if c.OrderField != "" {
		return c.OrderField
	}
	return c.Name
}

// FilterChoice is one lookup offered by a sidebar filter. Label is display-ready.
type FilterChoice struct {
	Value string
	Label string
}

// ListFilter is a changelist sidebar filter driven by one query parameter.
type ListFilter struct {
	// Title is a message key.
	Title     string
	Parameter string
	Choices   func(ctx context.Context, loc templates.Localizer) ([]FilterChoice, error)
	// Apply maps a lookup value to a storage predicate. Returning false leaves
	// the list unfiltered.
	Apply func(value string) (storage.Predicate, bool)
}

// ActionFunc runs a bulk action on the selected ids. It reports whether it
// wrote its own response; otherwise the site redirects to the changelist.
type ActionFunc func(w http.ResponseWriter, r *http.Request, ids []int64) (bool, error)

// Action is a bulk operation offered on the changelist.
type Action struct {
	Name string
	// Description is a message key.
	Description string
	Run         ActionFunc
}

// Route is an extra per-model URL, relative to the changelist, e.g. "immortal".
type Route struct {
	Path    string
	Handler http.HandlerFunc
}

// Options describe how a resource is presented. Name, PluralName, AppLabel,
// and every Column, ListFilter, and Action label are message keys.
type Options struct {
	App        string
	Model      string
	AppLabel   string
	Name       string
	PluralName string

	Columns    []Column
	Filters    []ListFilter
	Actions    []Action
	Routes     []Route
	Searchable bool
	// RemoveDelete drops the built-in delete_selected action.
	RemoveDelete bool
	// Tools are extra links shown above the changelist. Labels are message keys.
	Tools []templates.Link
}

// Row is one changelist record. Values align with Options.Columns; bool
// values render as icons and nil renders empty.
type Row struct {
	ID     int64
	Values []any
}

// ListPage is one page of changelist rows.
type ListPage struct {
	Rows  []Row
	Total int
}

// Form is a display-ready add or change form.
type Form struct {
	Label     string
	Fieldsets []templates.Fieldset
	Inlines   []templates.Inline
}

// Resource is the per-model admin registered on a Site.
type Resource interface {
	Options() Options
	List(ctx context.Context, query storage.ListQuery) (ListPage, error)
	// Labels returns display names for ids, in the same order.
	Labels(ctx context.Context, ids []int64) ([]string, error)
	// Form builds the change form for id, or the add form when id is 0.
	Form(ctx context.Context, loc templates.Localizer, id int64) (Form, error)
	// Save creates (id 0) or updates a record from submitted form values.
	Save(ctx context.Context, id int64, values url.Values) (int64, error)
	Delete(ctx context.Context, ids []int64) (int, error)
}

// BoolFilter filters a boolean field through the "<field>__exact" parameter
// with the lookups 1 and 0.
func BoolFilter(title string, field string) ListFilter {
	return ListFilter{
		Title:     title,
		Parameter: field + "__exact",
		Choices: func(_ context.Context, loc templates.Localizer) ([]FilterChoice, error) {
			return []FilterChoice{
				{Value: "1", Label: templates.T(loc, "core.yes")},
				{Value: "0", Label: templates.T(loc, "core.no")},
			}, nil
		},
		Apply: func(value string) (storage.Predicate, bool) {
			switch value {
			case "1", "true", "True":
				return storage.Predicate{Field: field, Op: "=", Value: true}, true
			case "0", "false", "False":
				return storage.Predicate{Field: field, Op: "=", Value: false}, true
			default:
				return storage.Predicate{}, false
			}
		},
	}
}

// RelatedFilter filters a foreign key through "<name>__id__exact".
func RelatedFilter(title string, name string, field string, choices func(ctx context.Context) ([]FilterChoice, error)) ListFilter {
	return ListFilter{
		Title:     title,
		Parameter: name + "__id__exact",
		Choices: func(ctx context.Context, _ templates.Localizer) ([]FilterChoice, error) {
			return choices(ctx)
		},
		Apply: func(value string) (storage.Predicate, bool) {
			id, err := parseID(value)
			if err != nil {
				return storage.Predicate{}, false
			}
			return storage.Predicate{Field: field, Op: "=", Value: id}, true
		},
	}
}
