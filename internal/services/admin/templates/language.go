package templates

import (
	"net/url"
	"strings"

	admini18n "github.com/louisbranch/umsra/internal/services/admin/i18n"
	"golang.org/x/text/language"
)

// LanguageOption represents a supported language option in the admin UI.
type LanguageOption struct {
	Tag    string
	Label  string
	URL    string
	Active bool
}

// LanguageOptions returns supported language options with active selection.
func LanguageOptions(page PageContext) []LanguageOption {
	active := normalizeTag(page.Lang)
	supported := admini18n.Supported()
	options := make([]LanguageOption, 0, len(supported))
	for _, tag := range supported {
		options = append(options, LanguageOption{
			Tag:    tag.String(),
			Label:  languageLabel(page.Loc, tag),
			URL:    LanguageURL(page, tag.String()),
			Active: tag == active,
		})
	}
	return options
}

// LanguageURL returns the current URL with the language param updated.
func LanguageURL(page PageContext, tag string) string {
	path := strings.TrimSpace(page.CurrentPath)
	if path == "" {
		path = "/"
	}
	query, err := url.ParseQuery(page.CurrentQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Set(admini18n.LangParam, tag)
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}

// languageLabel maps a language tag to a localized display label.
func languageLabel(loc Localizer, tag language.Tag) string {
	if tag == language.English {
		return T(loc, "core.lang_en")
	}
	return T(loc, "core.lang_pt_br")
}

// normalizeTag coerces unknown tags to the default supported language.
func normalizeTag(value string) language.Tag {
	for _, tag := range admini18n.Supported() {
		if strings.EqualFold(tag.String(), strings.TrimSpace(value)) {
			return tag
		}
	}
	return admini18n.Default()
}
