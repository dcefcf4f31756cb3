package i18n

import (
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/umsra/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter that switches language.
	LangParam = "lang"
	// LangCookieName remembers the chosen language across requests.
	LangCookieName = "umsra_lang"

	cookieMaxAge = 365 * 24 * time.Hour
)

var (
	supportedTags = []language.Tag{language.English, language.MustParse("pt-BR")}
	acceptMatcher = language.NewMatcher(supportedTags)
	printerOpt    = message.Catalog(catalog.Default().Catalog())
)

// Supported returns a copy of the admin languages, default first.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supportedTags...)
}

// Default returns the language used when nothing else matches.
func Default() language.Tag {
	return supportedTags[0]
}

// Printer returns a printer over the admin message catalog.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, printerOpt)
}

// ResolveTag picks the request language from, in order, the lang query
// parameter, the language cookie and Accept-Language. persist is true only
// when the query parameter chose the language.
func ResolveTag(r *http.Request) (tag language.Tag, persist bool) {
	if r == nil {
		return Default(), false
	}
	if tag, ok := exactTag(r.URL.Query().Get(LangParam)); ok {
		return tag, true
	}
	if c, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := exactTag(c.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		// Match falls back to the default when nothing is close enough.
		_, i := language.MatchStrings(acceptMatcher, accept)
		return supportedTags[i], false
	}
	return Default(), false
}

// SetLanguageCookie stores tag for a year.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// exactTag accepts only explicitly supported tags; "fr" or "pt" do not
// silently pick a neighbour.
func exactTag(value string) (language.Tag, bool) {
	parsed, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return language.Tag{}, false
	}
	for _, tag := range supportedTags {
		if tag == parsed {
			return tag, true
		}
	}
	return language.Tag{}, false
}
