package templates

import (
	admini18n "github.com/louisbranch/umsra/internal/services/admin/i18n"
	"golang.org/x/text/message"
)

// Localizer provides translated strings for templ components.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// T translates key with loc. A nil loc, as for components rendered outside
// a request, gets a fresh default-language printer since printers are not
// safe for concurrent use. Non-string keys render empty.
func T(loc Localizer, key message.Reference, args ...any) string {
	if _, ok := key.(string); !ok {
		return ""
	}
	if loc == nil {
		loc = admini18n.Printer(admini18n.Default())
	}
	return loc.Sprintf(key, args...)
}
