package templates

import (
	"strings"

	"github.com/a-h/templ"
)

// ImportView holds the CSV upload page.
type ImportView struct {
	ActionURL string
	CancelURL string
	Columns   []string
	Errors    []string
}

// ImportPage renders the CSV upload form.
func ImportPage(page PageContext, view ImportView) templ.Component {
	return Layout(page, component(func(h *htmlWriter) {
		loc := page.Loc
		if len(view.Errors) > 0 {
			h.open("ul", "class", "errors")
			for _, msg := range view.Errors {
				h.element("li", msg)
			}
			h.close("ul")
		}
		h.element("p", T(loc, "core.import_columns", strings.Join(view.Columns, ", ")))
		h.open("form", "method", "post", "action", view.ActionURL, "enctype", "multipart/form-data", "hx-boost", "false")
		h.open("input", "type", "file", "name", "csv_file", "accept", ".csv,text/csv", "required", "required")
		h.open("button", "type", "submit")
		h.text(T(loc, "core.upload"))
		h.close("button")
		h.raw(" ")
		h.element("a", T(loc, "core.cancel"), "href", view.CancelURL)
		h.close("form")
	}))
}
