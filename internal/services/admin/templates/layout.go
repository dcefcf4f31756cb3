package templates

import "github.com/a-h/templ"

const htmxScript = "https://unpkg.com/htmx.org@1.9.12"

const baseStyles = `
body{font-family:system-ui,sans-serif;margin:0;color:#222;background:#f8f8f8}
header.site{background:#264b5d;color:#fff;padding:.75rem 1.5rem;display:flex;justify-content:space-between;align-items:center}
header.site a{color:#fff;text-decoration:none}
main{padding:1rem 1.5rem}
nav.breadcrumbs{background:#79aec8;padding:.5rem 1.5rem;font-size:.85rem}
nav.breadcrumbs a{color:#fff}
ul.messages{list-style:none;padding:0}
ul.messages li{background:#dfd;border:1px solid #9c9;padding:.5rem;margin-bottom:.25rem}
ul.errors li{color:#ba2121}
table{border-collapse:collapse;width:100%;background:#fff}
th,td{border-bottom:1px solid #eee;padding:.4rem;text-align:left;vertical-align:top}
.changelist{display:flex;gap:1rem}
.changelist .results{flex:1}
aside.filters{min-width:12rem;background:#fff;padding:.5rem}
aside.filters a.selected{font-weight:bold}
.icon-yes{color:#70bf2b}.icon-no{color:#dd4646}
ul.tree{margin:0;padding-left:1.25rem}
.object-tools a{margin-left:.5rem}
`

// Layout renders the admin document chrome around body.
func Layout(page PageContext, body templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		lang := page.Lang
		if lang == "" {
			lang = "en"
		}
		h.raw("<!DOCTYPE html>")
		h.open("html", "lang", lang)
		h.raw("<head><meta charset=\"utf-8\">")
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.element("title", page.DocumentTitle())
		h.open("script", "src", htmxScript)
		h.close("script")
		h.raw("<style>", baseStyles, "</style></head>")
		h.open("body", "hx-boost", "true", "hx-target", "#content")

		h.open("header", "class", "site")
		h.open("a", "href", page.SiteURL, "id", "site-name")
		h.text(page.SiteHeader)
		h.close("a")
		h.open("nav", "class", "languages")
		for _, option := range LanguageOptions(page) {
			if option.Active {
				h.element("strong", option.Label)
			} else {
				h.element("a", option.Label, "href", option.URL, "hx-boost", "false")
			}
			h.raw(" ")
		}
		h.close("nav")
		h.close("header")

		h.open("main", "id", "content")
		if len(page.Breadcrumbs) > 0 {
			h.open("nav", "class", "breadcrumbs")
			for i, crumb := range page.Breadcrumbs {
				if i > 0 {
					h.raw(" &rsaquo; ")
				}
				if crumb.URL != "" {
					h.element("a", crumb.Label, "href", crumb.URL)
				} else {
					h.text(crumb.Label)
				}
			}
			h.close("nav")
		}

		if len(page.Messages) > 0 {
			h.open("ul", "class", "messages")
			for _, msg := range page.Messages {
				h.element("li", msg)
			}
			h.close("ul")
		}
		if page.Title != "" {
			h.element("h1", page.Title)
		}
		h.component(body)
		h.close("main")
		h.raw("</body></html>")
	})
}

// BoolIcon renders an on/off icon for a boolean value.
func BoolIcon(loc Localizer, value bool) templ.Component {
	return component(func(h *htmlWriter) {
		writeBoolIcon(h, loc, value)
	})
}

func writeBoolIcon(h *htmlWriter, loc Localizer, value bool) {
	if value {
		h.open("span", "class", "icon-yes", "title", T(loc, "core.yes"), "aria-label", T(loc, "core.yes"))
		h.raw(`<svg width="13" height="13" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="3"><path d="M20 6 9 17l-5-5"/></svg>`)
	} else {
		h.open("span", "class", "icon-no", "title", T(loc, "core.no"), "aria-label", T(loc, "core.no"))
		h.raw(`<svg width="13" height="13" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="3"><path d="M18 6 6 18M6 6l12 12"/></svg>`)
	}
	h.close("span")
}
