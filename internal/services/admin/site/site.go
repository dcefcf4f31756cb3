package site

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	sharedpath "github.com/louisbranch/umsra/internal/services/admin/module/sharedpath"
	"github.com/louisbranch/umsra/internal/services/admin/templates"
	sharedroute "github.com/louisbranch/umsra/internal/services/shared/route"
)

// DefaultPageSize is the changelist page size when none is configured.
const DefaultPageSize = 100

// Config describes one admin site. Header, Title, and IndexTitle are message keys.
type Config struct {
	Name       string
	Prefix     string
	Header     string
	Title      string
	IndexTitle string
	PageSize   int
}

// Site is one admin surface with its own prefix, branding, and models.
type Site struct {
	config Config
	models []*modelAdmin
	flash  *flashStore
}

type modelAdmin struct {
	site     *Site
	resource Resource
	options  Options
}

// New creates a site. The prefix is normalized to start and end with "/".
func New(config Config) *Site {
	config.Prefix = sharedroute.Join(config.Prefix)
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}
	return &Site{config: config, flash: newFlashStore()}
}

// Name returns the site name.
func (s *Site) Name() string {
	return s.config.Name
}

// Prefix returns the mount prefix, e.g. "/admin/".
func (s *Site) Prefix() string {
	return s.config.Prefix
}

// Register adds a model admin. Each app/model pair may be registered once.
func (s *Site) Register(resource Resource) error {
	if resource == nil {
		return fmt.Errorf("resource is required")
	}
	options := resource.Options()
	if strings.TrimSpace(options.App) == "" || strings.TrimSpace(options.Model) == "" {
		return fmt.Errorf("resource app and model are required")
	}
	if s.model(options.App, options.Model) != nil {
		return fmt.Errorf("%s.%s is already registered on %s", options.App, options.Model, s.config.Name)
	}
	for _, action := range options.Actions {
		if action.Name == DeleteSelected {
			return fmt.Errorf("%s.%s: action %s is reserved", options.App, options.Model, DeleteSelected)
		}
	}
	s.models = append(s.models, &modelAdmin{site: s, resource: resource, options: options})
	return nil
}

// MustRegister registers resources and panics on the first failure.
func (s *Site) MustRegister(resources ...Resource) {
	for _, resource := range resources {
		if err := s.Register(resource); err != nil {
			panic(err)
		}
	}
}

// IsRegistered reports whether app/model has a model admin on this site.
func (s *Site) IsRegistered(app string, model string) bool {
	return s.model(app, model) != nil
}

func (s *Site) model(app string, model string) *modelAdmin {
	for _, m := range s.models {
		if m.options.App == app && m.options.Model == model {
			return m
		}
	}
	return nil
}

// ModelURL returns the changelist URL of app/model.
func (s *Site) ModelURL(app string, model string) string {
	return sharedroute.Join(s.config.Prefix, app, model)
}

// ChangeURL returns the change form URL of one record.
func (s *Site) ChangeURL(app string, model string, id int64) string {
	return sharedroute.Join(s.config.Prefix, app, model, strconv.FormatInt(id, 10), "change")
}

// Handler serves every page of the site. It expects to be mounted at Prefix.
func (s *Site) Handler() http.Handler {
	return http.HandlerFunc(s.serveHTTP)
}

func (s *Site) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, s.config.Prefix) && r.URL.Path+"/" != s.config.Prefix {
		http.NotFound(w, r)
		return
	}
	if sharedroute.RedirectTrailingSlash(w, r) {
		return
	}
	r = s.withState(w, r)

	path, index, ok := sharedpath.Parse(strings.TrimPrefix(r.URL.Path, s.config.Prefix))
	if index {
		s.handleIndex(w, r)
		return
	}
	if !ok {
		s.notFound(w, r)
		return
	}
	m := s.model(path.App, path.Model)
	if m == nil {
		s.notFound(w, r)
		return
	}
	stateFrom(r).model = m
	m.route(w, r, path)
}

func (m *modelAdmin) route(w http.ResponseWriter, r *http.Request, path sharedpath.ModelPath) {
	rest := path.Rest
	if len(rest) > 0 {
		sub := path.Sub()
		for _, extra := range m.options.Routes {
			if strings.Trim(extra.Path, "/") == sub {
				extra.Handler(w, r)
				return
			}
		}
	}

	switch {
	case len(rest) == 0:
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			m.handleChangeList(w, r)
		case http.MethodPost:
			m.handleAction(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	case len(rest) == 1 && rest[0] == "add":
		m.handleForm(w, r, 0)
	case len(rest) == 1:
		id, err := parseID(rest[0])
		if err != nil {
			m.site.notFound(w, r)
			return
		}
		http.Redirect(w, r, m.changeURL(id), http.StatusFound)
	case len(rest) == 2 && rest[1] == "change":
		id, err := parseID(rest[0])
		if err != nil {
			m.site.notFound(w, r)
			return
		}
		m.handleForm(w, r, id)
	case len(rest) == 2 && rest[1] == "delete":
		id, err := parseID(rest[0])
		if err != nil {
			m.site.notFound(w, r)
			return
		}
		m.handleDelete(w, r, id)
	default:
		m.site.notFound(w, r)
	}
}

func (m *modelAdmin) listURL() string {
	return m.site.ModelURL(m.options.App, m.options.Model)
}

func (m *modelAdmin) addURL() string {
	return sharedroute.Join(m.listURL(), "add")
}

func (m *modelAdmin) changeURL(id int64) string {
	return m.site.ChangeURL(m.options.App, m.options.Model, id)
}

func (m *modelAdmin) deleteURL(id int64) string {
	return sharedroute.Join(m.listURL(), strconv.FormatInt(id, 10), "delete")
}

func (s *Site) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	loc := Localizer(r)
	var apps []templates.IndexApp
	appIndex := map[string]int{}
	for _, m := range s.models {
		i, ok := appIndex[m.options.App]
		if !ok {
			i = len(apps)
			appIndex[m.options.App] = i
			label := m.options.AppLabel
			if label == "" {
				label = m.options.App
			}
			apps = append(apps, templates.IndexApp{Name: templates.T(loc, label)})
		}
		apps[i].Models = append(apps[i].Models, templates.IndexModel{
			Name:   templates.T(loc, m.options.PluralName),
			URL:    m.listURL(),
			AddURL: m.addURL(),
		})
	}
	page := s.pageContext(w, r, templates.T(loc, s.config.IndexTitle))
	Render(w, r, http.StatusOK, page, templates.IndexPage(page, apps))
}

func (s *Site) notFound(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, http.StatusNotFound, templates.T(Localizer(r), "error.not_found"))
}

func parseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}

func parseIDs(values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	seen := make(map[int64]struct{}, len(values))
	for _, value := range values {
		id, err := parseID(value)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

func logError(r *http.Request, action string, err error) {
	log.Printf("%s %s: %s: %v", r.Method, r.URL.Path, action, err)
}
