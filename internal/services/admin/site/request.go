package site

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	apperrors "github.com/louisbranch/umsra/internal/platform/errors"
	"github.com/louisbranch/umsra/internal/services/admin/i18n"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
	"github.com/louisbranch/umsra/internal/services/admin/templates"
	"github.com/louisbranch/umsra/internal/services/shared/htmx"
	"golang.org/x/text/message"
)

type stateContextKey struct{}

// requestState carries per-request site context to handlers and actions.
type requestState struct {
	site     *Site
	model    *modelAdmin
	printer  *message.Printer
	lang     string
	flashKey string
}

func (s *Site) withState(w http.ResponseWriter, r *http.Request) *http.Request {
	tag, persist := i18n.ResolveTag(r)
	if persist {
		i18n.SetLanguageCookie(w, tag)
	}
	state := &requestState{
		site:     s,
		printer:  i18n.Printer(tag),
		lang:     tag.String(),
		flashKey: flashKeyFromRequest(r),
	}
	return r.WithContext(context.WithValue(r.Context(), stateContextKey{}, state))
}

func stateFrom(r *http.Request) *requestState {
	if r == nil {
		return nil
	}
	state, _ := r.Context().Value(stateContextKey{}).(*requestState)
	return state
}

// Localizer returns the message printer resolved for the request.
func Localizer(r *http.Request) templates.Localizer {
	if state := stateFrom(r); state != nil {
		return state.printer
	}
	return i18n.Printer(i18n.Default())
}

// MessageUser queues a translated flash message shown on the next page render.
func MessageUser(w http.ResponseWriter, r *http.Request, key string, args ...any) {
	state := stateFrom(r)
	if state == nil {
		return
	}
	text := state.printer.Sprintf(key, args...)
	if state.flashKey == "" {
		key, err := state.site.flash.newKey()
		if err != nil {
			logError(r, "flash key", err)
			return
		}
		state.flashKey = key
		setFlashCookie(w, key)
	}
	state.site.flash.Add(state.flashKey, text)
}

// ChangeListURL returns the changelist URL of the model serving the request.
func ChangeListURL(r *http.Request) string {
	state := stateFrom(r)
	if state == nil || state.model == nil {
		return "/"
	}
	return state.model.listURL()
}

// Page builds the layout context for a model page titled with an
// already-translated title. Pending flash messages are consumed.
func Page(w http.ResponseWriter, r *http.Request, title string) templates.PageContext {
	state := stateFrom(r)
	if state == nil {
		return templates.PageContext{Loc: Localizer(r), Title: title}
	}
	return state.site.pageContext(w, r, title)
}

func (s *Site) pageContext(w http.ResponseWriter, r *http.Request, title string) templates.PageContext {
	state := stateFrom(r)
	loc := Localizer(r)
	page := templates.PageContext{
		Loc:          loc,
		CurrentPath:  r.URL.Path,
		CurrentQuery: r.URL.RawQuery,
		SiteHeader:   templates.T(loc, s.config.Header),
		SiteTitle:    templates.T(loc, s.config.Title),
		SiteURL:      s.config.Prefix,
		Title:        title,
	}
	if state == nil {
		return page
	}
	page.Lang = state.lang
	if state.flashKey != "" {
		page.Messages = s.flash.Pop(state.flashKey)
	}
	if state.model != nil {
		page.Breadcrumbs = []templates.Breadcrumb{
			{Label: templates.T(loc, "core.home"), URL: s.config.Prefix},
			{Label: templates.T(loc, state.model.options.PluralName), URL: state.model.listURL()},
		}
		if title != "" {
			page.Breadcrumbs = append(page.Breadcrumbs, templates.Breadcrumb{Label: title})
		}
	}
	return page
}

// Render writes a page as a full document or an HTMX fragment.
func Render(w http.ResponseWriter, r *http.Request, status int, page templates.PageContext, body templ.Component) {
	if err := htmx.RenderPage(w, r, body, status, page.DocumentTitle()); err != nil {
		logError(r, "render", err)
	}
}

// RenderError writes a localized error page with the status derived from err.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrAlreadyExists):
		status = http.StatusConflict
	case apperrors.GetCode(err) != apperrors.CodeUnknown:
		status = apperrors.HTTPStatus(err)
	}
	if status >= http.StatusInternalServerError {
		logError(r, "request failed", err)
	}
	state := stateFrom(r)
	if state == nil {
		http.Error(w, http.StatusText(status), status)
		return
	}
	state.site.renderError(w, r, status, ErrorMessage(Localizer(r), err))
}

func (s *Site) renderError(w http.ResponseWriter, r *http.Request, status int, text string) {
	page := s.pageContext(w, r, http.StatusText(status))
	Render(w, r, status, page, templates.ErrorPage(page, text))
}

// errorArgs names the metadata value that fills each message placeholder.
var errorArgs = map[apperrors.Code]string{
	apperrors.CodeInvalidArgument:   "Field",
	apperrors.CodeFactorOutOfRange:  "Field",
	apperrors.CodeSelfRelation:      "Field",
	apperrors.CodeReferenceRequired: "Field",
	apperrors.CodeUnknownAction:     "Field",
	apperrors.CodeInvalidGender:     "Gender",
	apperrors.CodeCSVMissingColumn:  "Column",
	apperrors.CodeCSVMalformedRow:   "Line",
}

// ErrorMessage translates a storage or domain error for display. Codes that
// take an argument fall back to their "_generic" message when the error
// carries no metadata for it.
func ErrorMessage(loc templates.Localizer, err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return templates.T(loc, "error.not_found")
	case errors.Is(err, storage.ErrAlreadyExists):
		return templates.T(loc, "error.already_exists")
	}
	code := apperrors.GetCode(err)
	key := apperrors.MessageKey(code)
	if name, ok := errorArgs[code]; ok {
		if value := apperrors.Metadata(err)[name]; value != "" {
			return templates.T(loc, key, value)
		}
		return templates.T(loc, key+"_generic")
	}
	return templates.T(loc, key)
}

// checkOrigin rejects cross-site form posts. Requests that carry neither an
// Origin nor a Referer header are allowed.
func checkOrigin(r *http.Request) error {
	for _, raw := range []string{r.Header.Get("Origin"), r.Referer()} {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if !sameOrigin(raw, r) {
			return fmt.Errorf("cross-origin post from %q", raw)
		}
		return nil
	}
	return nil
}

func sameOrigin(rawURL string, r *http.Request) bool {
	if rawURL == "null" {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}
	return strings.EqualFold(parsed.Host, r.Host)
}
