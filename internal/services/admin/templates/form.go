package templates

import (
	"slices"

	"github.com/a-h/templ"
)

// FieldKind selects the input widget of a form field.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldTextArea
	FieldNumber
	FieldCheckbox
	FieldSelect
	FieldMultiSelect
	FieldReadOnly
	FieldTree
)

// TreeNode is one node of a read-only tree field.
type TreeNode struct {
	Label    string
	URL      string
	Children []TreeNode
}

// Field is one input on an add or change form.
type Field struct {
	Name     string
	Label    string
	Kind     FieldKind
	Value    string
	Values   []string
	Choices  []Choice
	Tree     []TreeNode
	Required bool
	Help     string
}

// Fieldset groups fields under an optional heading.
type Fieldset struct {
	Title  string
	Fields []Field
}

// InlineRow is one related record shown under a form.
type InlineRow struct {
	URL   string
	Cells []string
}

// Inline is a read-only table of related records.
type Inline struct {
	Title   string
	Columns []string
	Rows    []InlineRow
	Empty   string
}

// FormView holds everything an add or change page renders.
type FormView struct {
	ActionURL string
	Fieldsets []Fieldset
	Inlines   []Inline
	Errors    []string
	DeleteURL string
	Tools     []Link
	// ShowAddAnother renders the "save and add another" button.
	ShowAddAnother bool
}

// FormPage renders an add or change form.
func FormPage(page PageContext, view FormView) templ.Component {
	return Layout(page, component(func(h *htmlWriter) {
		loc := page.Loc

		if len(view.Tools) > 0 {
			h.open("div", "class", "object-tools")
			for _, tool := range view.Tools {
				h.element("a", tool.Label, "href", tool.URL)
			}
			h.close("div")
		}

		if len(view.Errors) > 0 {
			h.open("ul", "class", "errors")
			for _, msg := range view.Errors {
				h.element("li", msg)
			}
			h.close("ul")
		}

		h.open("form", "method", "post", "action", view.ActionURL, "id", "change-form")
		for _, set := range view.Fieldsets {
			h.open("fieldset")
			if set.Title != "" {
				h.element("legend", set.Title)
			}
			for _, field := range set.Fields {
				writeField(h, loc, field)
			}
			h.close("fieldset")
		}

		h.open("div", "class", "submit-row")
		h.open("button", "type", "submit", "name", "_save", "value", "1")
		h.text(T(loc, "core.save"))
		h.close("button")
		if view.ShowAddAnother {
			h.open("button", "type", "submit", "name", "_addanother", "value", "1")
			h.text(T(loc, "core.save_add_another"))
			h.close("button")
		}
		h.open("button", "type", "submit", "name", "_continue", "value", "1")
		h.text(T(loc, "core.save_continue"))
		h.close("button")
		if view.DeleteURL != "" {
			h.element("a", T(loc, "core.delete"), "href", view.DeleteURL, "class", "deletelink")
		}
		h.close("div")
		h.close("form")

		for _, inline := range view.Inlines {
			writeInline(h, inline)
		}
	}))
}

func writeField(h *htmlWriter, loc Localizer, field Field) {
	id := "id_" + field.Name
	h.open("div", "class", "form-row field-"+field.Name)
	if field.Kind == FieldCheckbox {
		attrs := []string{"type", "checkbox", "name", field.Name, "id", id}
		if field.Value != "" {
			attrs = append(attrs, "checked", "checked")
		}
		h.open("input", attrs...)
		h.element("label", field.Label, "for", id)
	} else {
		h.element("label", field.Label, "for", id)
		h.raw(" ")
		writeWidget(h, loc, field, id)
	}
	if field.Help != "" {
		h.element("div", field.Help, "class", "help")
	}
	h.close("div")
}

func writeWidget(h *htmlWriter, loc Localizer, field Field, id string) {
	required := func(attrs []string) []string {
		if field.Required {
			return append(attrs, "required", "required")
		}
		return attrs
	}
	switch field.Kind {
	case FieldTextArea:
		h.open("textarea", required([]string{"name", field.Name, "id", id, "rows", "4"})...)
		h.text(field.Value)
		h.close("textarea")
	case FieldNumber:
		h.open("input", required([]string{"type", "number", "name", field.Name, "id", id, "value", field.Value})...)
	case FieldSelect:
		h.open("select", required([]string{"name", field.Name, "id", id})...)
		if !field.Required {
			h.raw(`<option value="">---------</option>`)
		}
		for _, choice := range field.Choices {
			writeOption(h, choice, choice.Value == field.Value)
		}
		h.close("select")
	case FieldMultiSelect:
		h.open("select", "name", field.Name, "id", id, "multiple", "multiple", "size", "8")
		for _, choice := range field.Choices {
			writeOption(h, choice, slices.Contains(field.Values, choice.Value))
		}
		h.close("select")
	case FieldReadOnly:
		h.element("div", field.Value, "class", "readonly", "id", id)
	case FieldTree:
		h.open("div", "class", "readonly", "id", id)
		if len(field.Tree) == 0 {
			h.text(T(loc, "core.none"))
		} else {
			writeTree(h, field.Tree)
		}
		h.close("div")
	default:
		h.open("input", required([]string{"type", "text", "name", field.Name, "id", id, "value", field.Value})...)
	}
}

func writeOption(h *htmlWriter, choice Choice, selected bool) {
	if selected {
		h.element("option", choice.Label, "value", choice.Value, "selected", "selected")
		return
	}
	h.element("option", choice.Label, "value", choice.Value)
}

func writeTree(h *htmlWriter, nodes []TreeNode) {
	h.open("ul", "class", "tree")
	for _, node := range nodes {
		h.raw("<li>")
		if node.URL != "" {
			h.element("a", node.Label, "href", node.URL)
		} else {
			h.text(node.Label)
		}
		if len(node.Children) > 0 {
			writeTree(h, node.Children)
		}
		h.raw("</li>")
	}
	h.close("ul")
}

func writeInline(h *htmlWriter, inline Inline) {
	h.open("div", "class", "inline-group")
	h.element("h2", inline.Title)
	if len(inline.Rows) == 0 {
		h.element("p", inline.Empty)
		h.close("div")
		return
	}
	h.raw("<table><thead><tr>")
	for _, col := range inline.Columns {
		h.element("th", col, "scope", "col")
	}
	h.raw("</tr></thead><tbody>")
	for _, row := range inline.Rows {
		h.raw("<tr>")
		for i, cell := range row.Cells {
			h.raw("<td>")
			if i == 0 && row.URL != "" {
				h.element("a", cell, "href", row.URL)
			} else {
				h.text(cell)
			}
			h.raw("</td>")
		}
		h.raw("</tr>")
	}
	h.raw("</tbody></table>")
	h.close("div")
}
