package templates

import "github.com/a-h/templ"

// IndexModel is one registered model on the site index.
type IndexModel struct {
	Name   string
	URL    string
	AddURL string
}

// IndexApp groups the models of one app on the site index.
type IndexApp struct {
	Name   string
	Models []IndexModel
}

// IndexPage lists every registered model grouped by app.
func IndexPage(page PageContext, apps []IndexApp) templ.Component {
	return Layout(page, component(func(h *htmlWriter) {
		if len(apps) == 0 {
			h.element("p", T(page.Loc, "core.no_models"))
			return
		}
		for _, app := range apps {
			h.open("table", "class", "app")
			h.open("caption")
			h.text(app.Name)
			h.close("caption")
			for _, model := range app.Models {
				h.raw("<tr>")
				h.open("th", "scope", "row")
				h.element("a", model.Name, "href", model.URL)
				h.close("th")
				h.raw("<td>")
				if model.AddURL != "" {
					h.element("a", T(page.Loc, "core.add"), "href", model.AddURL, "class", "addlink")
				}
				h.raw("</td></tr>")
			}
			h.close("table")
		}
	}))
}
