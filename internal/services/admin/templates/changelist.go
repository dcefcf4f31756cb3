package templates

import (
	"strconv"

	"github.com/a-h/templ"
)

// ColumnHeader is one changelist column header.
type ColumnHeader struct {
	Label string
	// SortURL toggles ordering on this column; empty when not sortable.
	SortURL string
	Sorted  bool
	Desc    bool
}

// Cell is one changelist cell. Boolean cells render as icons.
type Cell struct {
	Text   string
	URL    string
	IsBool bool
	Bool   bool
}

// ListRow is one changelist row.
type ListRow struct {
	ID    int64
	Cells []Cell
}

// FilterOption is one selectable value of a sidebar filter.
type FilterOption struct {
	Label    string
	URL      string
	Selected bool
}

// ListFilterView is one sidebar filter.
type ListFilterView struct {
	Title   string
	Options []FilterOption
}

// ChangeListView holds everything a changelist page renders.
type ChangeListView struct {
	ActionURL  string
	Actions    []Choice
	Columns    []ColumnHeader
	Rows       []ListRow
	Filters    []ListFilterView
	Searchable bool
	Search     string
	Total      int
	Page       int
	PageCount  int
	PrevURL    string
	NextURL    string
	Tools      []Link
}

// ChangeListPage renders the selectable, filterable list of one model.
func ChangeListPage(page PageContext, view ChangeListView) templ.Component {
	return Layout(page, component(func(h *htmlWriter) {
		loc := page.Loc

		if len(view.Tools) > 0 {
			h.open("div", "class", "object-tools")
			for _, tool := range view.Tools {
				h.element("a", tool.Label, "href", tool.URL)
			}
			h.close("div")
		}

		if view.Searchable {
			h.open("form", "method", "get", "id", "changelist-search")
			h.open("input", "type", "text", "name", "q", "value", view.Search)
			h.open("button", "type", "submit")
			h.text(T(loc, "core.search"))
			h.close("button")
			h.close("form")
		}

		h.open("div", "class", "changelist")
		h.open("div", "class", "results")
		h.open("form", "method", "post", "action", view.ActionURL, "id", "changelist-form", "hx-boost", "false")
		if len(view.Actions) > 0 {
			h.open("div", "class", "actions")
			h.open("label")
			h.text(T(loc, "core.action"))
			h.raw(" ")
			h.open("select", "name", "action", "required", "required")
			h.raw(`<option value="">---------</option>`)
			for _, action := range view.Actions {
				h.element("option", action.Label, "value", action.Value)
			}
			h.close("select")
			h.close("label")
			h.open("button", "type", "submit", "name", "index", "value", "0")
			h.text(T(loc, "core.go"))
			h.close("button")
			h.close("div")
		}

		h.open("table", "id", "result_list")
		h.raw("<thead><tr>")
		h.raw(`<th scope="col" class="action-checkbox-column"></th>`)
		for _, col := range view.Columns {
			h.open("th", "scope", "col")
			if col.SortURL != "" {
				h.element("a", col.Label, "href", col.SortURL)
				if col.Sorted {
					if col.Desc {
						h.raw(" &darr;")
					} else {
						h.raw(" &uarr;")
					}
				}
			} else {
				h.text(col.Label)
			}
			h.close("th")
		}
		h.raw("</tr></thead><tbody>")
		for _, row := range view.Rows {
			h.raw("<tr>")
			h.raw("<td>")
			h.open("input", "type", "checkbox", "name", "_selected_action", "value", strconv.FormatInt(row.ID, 10), "class", "action-select")
			h.raw("</td>")
			for _, cell := range row.Cells {
				h.raw("<td>")
				switch {
				case cell.IsBool:
					writeBoolIcon(h, loc, cell.Bool)
				case cell.URL != "":
					h.element("a", cell.Text, "href", cell.URL)
				default:
					h.text(cell.Text)
				}
				h.raw("</td>")
			}
			h.raw("</tr>")
		}
		h.raw("</tbody>")
		h.close("table")
		h.close("form")

		h.open("p", "class", "paginator")
		h.text(T(loc, "core.results", view.Total))
		if view.PageCount > 1 {
			h.raw(" ")
			if view.PrevURL != "" {
				h.element("a", T(loc, "core.previous"), "href", view.PrevURL, "rel", "prev")
				h.raw(" ")
			}
			h.text(T(loc, "core.page_of", view.Page, view.PageCount))
			if view.NextURL != "" {
				h.raw(" ")
				h.element("a", T(loc, "core.next"), "href", view.NextURL, "rel", "next")
			}
		}
		h.close("p")
		h.close("div")

		if len(view.Filters) > 0 {
			h.open("aside", "class", "filters")
			h.element("h2", T(loc, "core.filter"))
			for _, filter := range view.Filters {
				h.element("h3", filter.Title)
				h.raw("<ul>")
				for _, option := range filter.Options {
					h.raw("<li>")
					if option.Selected {
						h.element("a", option.Label, "href", option.URL, "class", "selected")
					} else {
						h.element("a", option.Label, "href", option.URL)
					}
					h.raw("</li>")
				}
				h.raw("</ul>")
			}
			h.close("aside")
		}
		h.close("div")
	}))
}
