package site

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/umsra/internal/platform/errors"
	platformotel "github.com/louisbranch/umsra/internal/platform/otel"
	"github.com/louisbranch/umsra/internal/platform/timeouts"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
	"github.com/louisbranch/umsra/internal/services/admin/templates"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = platformotel.Tracer("services/admin/site")

// Changelist query parameters.
const (
	paramSearch  = "q"
	paramOrder   = "o"
	paramOrderBy = "order_by"
	paramFilter  = "filter"
	paramPage    = "p"
)

// sortKey is one entry of the "o" parameter, e.g. "-hero_count".
type sortKey struct {
	column string
	desc   bool
}

// parseSort reads the comma-separated "o" parameter. A leading "-" sorts
// descending. Every name must be a sortable column.
func parseSort(value string, columns []Column) ([]sortKey, error) {
	var keys []sortKey
	for _, raw := range strings.Split(value, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		key := sortKey{column: raw}
		if strings.HasPrefix(raw, "-") {
			key = sortKey{column: strings.TrimPrefix(raw, "-"), desc: true}
		}
		col, ok := findColumn(columns, key.column)
		if !ok || !col.Sortable {
			return nil, apperrors.New(apperrors.CodeInvalidOrder, "unknown sort column "+key.column)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// sortOrderBy renders sort keys as an AIP-132 order_by string.
func sortOrderBy(keys []sortKey, columns []Column) string {
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		col, _ := findColumn(columns, key.column)
		part := col.orderField()
		if key.desc {
			part += " desc"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

func findColumn(columns []Column, name string) (Column, bool) {
	for _, col := range columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// changeListRequest is the parsed state of one changelist request.
type changeListRequest struct {
	values url.Values
	sort   []sortKey
	page   int
	query  storage.ListQuery
}

func (m *modelAdmin) parseChangeList(r *http.Request) (changeListRequest, error) {
	values := r.URL.Query()
	req := changeListRequest{values: values, page: 1}

	keys, err := parseSort(values.Get(paramOrder), m.options.Columns)
	if err != nil {
		return req, err
	}
	req.sort = keys
	req.query.OrderBy = sortOrderBy(keys, m.options.Columns)
	if orderBy := strings.TrimSpace(values.Get(paramOrderBy)); orderBy != "" {
		req.query.OrderBy = orderBy
	}
	req.query.Filter = strings.TrimSpace(values.Get(paramFilter))
	if m.options.Searchable {
		req.query.Search = strings.TrimSpace(values.Get(paramSearch))
	}
	for _, f := range m.options.Filters {
		if value := values.Get(f.Parameter); value != "" && f.Apply != nil {
			if predicate, ok := f.Apply(value); ok {
				req.query.Predicates = append(req.query.Predicates, predicate)
			}
		}
	}
	if p, err := strconv.Atoi(values.Get(paramPage)); err == nil && p > 1 {
		req.page = p
	}
	pageSize := m.site.config.PageSize
	req.query.Limit = pageSize
	req.query.Offset = (req.page - 1) * pageSize
	return req, nil
}

func (m *modelAdmin) handleChangeList(w http.ResponseWriter, r *http.Request) {
	loc := Localizer(r)
	req, err := m.parseChangeList(r)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.StoreRequest)
	defer cancel()
	ctx, span := tracer.Start(ctx, "changelist")
	defer span.End()
	span.SetAttributes(
		attribute.String("admin.model", m.options.Name),
		attribute.String("admin.search", req.query.Search),
		attribute.Int("admin.page", req.page),
	)

	result, err := m.resource.List(ctx, req.query)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		RenderError(w, r, err)
		return
	}
	span.SetAttributes(attribute.Int("admin.total", result.Total))
	pageSize := m.site.config.PageSize
	pageCount := (result.Total + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}
	if req.page > pageCount {
		m.site.notFound(w, r)
		return
	}

	view := templates.ChangeListView{
		ActionURL:  r.URL.RequestURI(),
		Actions:    m.actionChoices(loc),
		Columns:    m.columnHeaders(loc, req),
		Rows:       m.listRows(result.Rows),
		Searchable: m.options.Searchable,
		Search:     req.query.Search,
		Total:      result.Total,
		Page:       req.page,
		PageCount:  pageCount,
		Tools:      m.tools(loc),
	}
	if req.page > 1 {
		view.PrevURL = queryURL(req.values, paramPage, strconv.Itoa(req.page-1))
	}
	if req.page < pageCount {
		view.NextURL = queryURL(req.values, paramPage, strconv.Itoa(req.page+1))
	}
	filters, err := m.filterViews(ctx, loc, req.values)
	if err != nil {
		RenderError(w, r, err)
		return
	}
	view.Filters = filters

	title := templates.T(loc, "core.select_to_change", templates.T(loc, m.options.Name))
	page := Page(w, r, "")
	page.Title = title
	Render(w, r, http.StatusOK, page, templates.ChangeListPage(page, view))
}

func (m *modelAdmin) actions() []Action {
	var actions []Action
	if !m.options.RemoveDelete {
		actions = append(actions, Action{Name: DeleteSelected, Description: "core.delete_selected"})
	}
	return append(actions, m.options.Actions...)
}

func (m *modelAdmin) actionChoices(loc templates.Localizer) []templates.Choice {
	actions := m.actions()
	choices := make([]templates.Choice, 0, len(actions))
	for _, action := range actions {
		label := templates.T(loc, action.Description)
		if action.Name == DeleteSelected {
			label = templates.T(loc, action.Description, templates.T(loc, m.options.PluralName))
		}
		choices = append(choices, templates.Choice{Value: action.Name, Label: label})
	}
	return choices
}

func (m *modelAdmin) columnHeaders(loc templates.Localizer, req changeListRequest) []templates.ColumnHeader {
	headers := make([]templates.ColumnHeader, 0, len(m.options.Columns))
	for _, col := range m.options.Columns {
		header := templates.ColumnHeader{Label: templates.T(loc, col.Label)}
		if col.Sortable {
			next := col.Name
			if len(req.sort) > 0 && req.sort[0].column == col.Name {
				header.Sorted = true
				header.Desc = req.sort[0].desc
				if !header.Desc {
					next = "-" + col.Name
				}
			}
			values := cloneValues(req.values)
			values.Del(paramPage)
			values.Del(paramOrderBy)
			header.SortURL = queryURL(values, paramOrder, next)
		}
		headers = append(headers, header)
	}
	return headers
}

func (m *modelAdmin) listRows(rows []Row) []templates.ListRow {
	out := make([]templates.ListRow, 0, len(rows))
	for _, row := range rows {
		cells := make([]templates.Cell, 0, len(row.Values))
		for i, value := range row.Values {
			cell := formatCell(value)
			if i == 0 && !cell.IsBool {
				cell.URL = m.changeURL(row.ID)
			}
			cells = append(cells, cell)
		}
		out = append(out, templates.ListRow{ID: row.ID, Cells: cells})
	}
	return out
}

func formatCell(value any) templates.Cell {
	switch v := value.(type) {
	case nil:
		return templates.Cell{}
	case bool:
		return templates.Cell{IsBool: true, Bool: v}
	case time.Time:
		if v.IsZero() {
			return templates.Cell{}
		}
		return templates.Cell{Text: v.Format("2006-01-02 15:04")}
	case string:
		return templates.Cell{Text: v}
	default:
		return templates.Cell{Text: fmt.Sprint(v)}
	}
}

func (m *modelAdmin) tools(loc templates.Localizer) []templates.Link {
	tools := []templates.Link{{
		Label: templates.T(loc, "core.add_model", templates.T(loc, m.options.Name)),
		URL:   m.addURL(),
	}}
	for _, tool := range m.options.Tools {
		tools = append(tools, templates.Link{Label: templates.T(loc, tool.Label), URL: tool.URL})
	}
	return tools
}

func (m *modelAdmin) filterViews(ctx context.Context, loc templates.Localizer, current url.Values) ([]templates.ListFilterView, error) {
	views := make([]templates.ListFilterView, 0, len(m.options.Filters))
	for _, f := range m.options.Filters {
		choices, err := f.Choices(ctx, loc)
		if err != nil {
			return nil, fmt.Errorf("filter %s choices: %w", f.Parameter, err)
		}
		values := cloneValues(current)
		values.Del(paramPage)
		selected := values.Get(f.Parameter)
		values.Del(f.Parameter)

		view := templates.ListFilterView{Title: templates.T(loc, "core.by_filter", templates.T(loc, f.Title))}
		view.Options = append(view.Options, templates.FilterOption{
			Label:    templates.T(loc, "core.all"),
			URL:      "?" + values.Encode(),
			Selected: selected == "",
		})
		for _, choice := range choices {
			view.Options = append(view.Options, templates.FilterOption{
				Label:    choice.Label,
				URL:      queryURL(values, f.Parameter, choice.Value),
				Selected: selected == choice.Value,
			})
		}
		views = append(views, view)
	}
	return views, nil
}

func (m *modelAdmin) handleAction(w http.ResponseWriter, r *http.Request) {
	if err := checkOrigin(r); err != nil {
		logError(r, "action", err)
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	if err := r.ParseForm(); err != nil {
		RenderError(w, r, apperrors.Wrap(apperrors.CodeInvalidArgument, "parse form", err))
		return
	}

	name := r.PostForm.Get("action")
	var action Action
	found := false
	for _, candidate := range m.actions() {
		if candidate.Name == name {
			action, found = candidate, true
			break
		}
	}
	if !found {
		RenderError(w, r, apperrors.WithMetadata(apperrors.CodeUnknownAction, "unknown action "+name, map[string]string{"Field": name}))
		return
	}

	ids, err := parseIDs(r.PostForm["_selected_action"])
	if err != nil {
		RenderError(w, r, apperrors.Wrap(apperrors.CodeInvalidArgument, "selected ids", err))
		return
	}
	back := r.URL.RequestURI()
	if len(ids) == 0 {
		MessageUser(w, r, "core.no_items_selected")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	if action.Name == DeleteSelected {
		m.deleteSelected(w, r, ids, r.PostForm.Get("post") == "yes")
		return
	}

	handled, err := action.Run(w, r, ids)
	if err != nil {
		if handled {
			logError(r, "action "+name, err)
			return
		}
		RenderError(w, r, err)
		return
	}
	if handled {
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (m *modelAdmin) deleteSelected(w http.ResponseWriter, r *http.Request, ids []int64, confirmed bool) {
	loc := Localizer(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.StoreRequest)
	defer cancel()

	plural := templates.T(loc, m.options.PluralName)
	if !confirmed {
		labels, err := m.resource.Labels(ctx, ids)
		if err != nil {
			RenderError(w, r, err)
			return
		}
		page := Page(w, r, templates.T(loc, "core.are_you_sure"))
		Render(w, r, http.StatusOK, page, templates.DeletePage(page, templates.DeleteView{
			Prompt:    templates.T(loc, "core.delete_selected_prompt", plural),
			Objects:   labels,
			ActionURL: r.URL.RequestURI(),
			CancelURL: r.URL.RequestURI(),
			Action:    DeleteSelected,
			IDs:       ids,
		}))
		return
	}

	ctx, span := tracer.Start(ctx, "delete_selected")
	defer span.End()
	span.SetAttributes(attribute.String("admin.model", m.options.Name), attribute.Int("admin.selected", len(ids)))
	deleted, err := m.resource.Delete(ctx, ids)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		RenderError(w, r, err)
		return
	}
	MessageUser(w, r, "core.deleted_count", deleted, plural)
	http.Redirect(w, r, r.URL.RequestURI(), http.StatusSeeOther)
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for key, list := range values {
		out[key] = append([]string(nil), list...)
	}
	return out
}

// queryURL returns a relative "?..." URL with key set to value.
func queryURL(values url.Values, key string, value string) string {
	out := cloneValues(values)
	out.Set(key, value)
	return "?" + out.Encode()
}
