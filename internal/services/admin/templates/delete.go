package templates

import (
	"strconv"

	"github.com/a-h/templ"
)

// DeleteView holds a delete confirmation page.
type DeleteView struct {
	// Prompt is the translated confirmation question.
	Prompt    string
	Objects   []string
	ActionURL string
	CancelURL string
	// Action and IDs are echoed back for bulk deletes from the changelist.
	Action string
	IDs    []int64
}

// DeletePage asks for confirmation before deleting one or more records.
func DeletePage(page PageContext, view DeleteView) templ.Component {
	return Layout(page, component(func(h *htmlWriter) {
		loc := page.Loc
		h.element("p", view.Prompt)
		if len(view.Objects) > 0 {
			h.open("ul", "class", "deleted-objects")
			for _, label := range view.Objects {
				h.element("li", label)
			}
			h.close("ul")
		}
		h.open("form", "method", "post", "action", view.ActionURL)
		if view.Action != "" {
			h.open("input", "type", "hidden", "name", "action", "value", view.Action)
		}
		for _, id := range view.IDs {
			h.open("input", "type", "hidden", "name", "_selected_action", "value", strconv.FormatInt(id, 10))
		}
		h.open("input", "type", "hidden", "name", "post", "value", "yes")
		h.open("button", "type", "submit")
		h.text(T(loc, "core.confirm_delete"))
		h.close("button")
		h.raw(" ")
		h.element("a", T(loc, "core.cancel"), "href", view.CancelURL)
		h.close("form")
	}))
}
