package templates

import "github.com/a-h/templ"

// ErrorPage renders a localized error message.
func ErrorPage(page PageContext, message string) templ.Component {
	return Layout(page, component(func(h *htmlWriter) {
		h.element("p", message, "class", "error")
		if page.SiteURL != "" {
			h.element("a", T(page.Loc, "core.home"), "href", page.SiteURL)
		}
	}))
}
