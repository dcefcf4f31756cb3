package templates

// PageContext provides shared layout context for admin pages.
type PageContext struct {
	Lang         string
	Loc          Localizer
	CurrentPath  string
	CurrentQuery string

	// SiteHeader is the text of the header link back to the site index.
	SiteHeader string
	// SiteTitle is appended to every document title.
	SiteTitle string
	// SiteURL is the site mount prefix, e.g. "/admin/".
	SiteURL string

	// Title is the page heading, already translated.
	Title       string
	Breadcrumbs []Breadcrumb
	// Messages are flash messages shown once above the content.
	Messages []string
}

// DocumentTitle composes the <title> text for a page.
func (p PageContext) DocumentTitle() string {
	switch {
	case p.Title == "":
		return p.SiteTitle
	case p.SiteTitle == "" || p.Title == p.SiteTitle:
		return p.Title
	default:
		return p.Title + " | " + p.SiteTitle
	}
}
