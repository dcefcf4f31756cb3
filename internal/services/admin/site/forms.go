package site

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	apperrors "github.com/louisbranch/umsra/internal/platform/errors"
	"github.com/louisbranch/umsra/internal/platform/timeouts"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
	"github.com/louisbranch/umsra/internal/services/admin/templates"
)

// handleForm serves the add form (id 0) and the change form.
func (m *modelAdmin) handleForm(w http.ResponseWriter, r *http.Request, id int64) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		m.renderForm(w, r, id, nil, nil)
	case http.MethodPost:
		m.submitForm(w, r, id)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (m *modelAdmin) renderForm(w http.ResponseWriter, r *http.Request, id int64, submitted url.Values, formErrors []string) {
	loc := Localizer(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.StoreRequest)
	defer cancel()

	form, err := m.resource.Form(ctx, loc, id)
	if err != nil {
		RenderError(w, r, err)
		return
	}
	if submitted != nil {
		overlay(form.Fieldsets, submitted)
	}

	name := templates.T(loc, m.options.Name)
	view := templates.FormView{
		Fieldsets: form.Fieldsets,
		Inlines:   form.Inlines,
		Errors:    formErrors,
	}
	title := templates.T(loc, "core.add_model", name)
	view.ActionURL = m.addURL()
	view.ShowAddAnother = true
	if id != 0 {
		title = templates.T(loc, "core.change_model", name)
		view.ActionURL = m.changeURL(id)
		view.DeleteURL = m.deleteURL(id)
	}
	page := Page(w, r, title)
	if n := len(page.Breadcrumbs); id != 0 && form.Label != "" && n > 0 {
		page.Breadcrumbs[n-1].Label = form.Label
	}
	Render(w, r, http.StatusOK, page, templates.FormPage(page, view))
}

func (m *modelAdmin) submitForm(w http.ResponseWriter, r *http.Request, id int64) {
	if err := checkOrigin(r); err != nil {
		logError(r, "save", err)
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	if err := r.ParseForm(); err != nil {
		RenderError(w, r, apperrors.Wrap(apperrors.CodeInvalidArgument, "parse form", err))
		return
	}
	loc := Localizer(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.StoreRequest)
	defer cancel()

	saved, err := m.resource.Save(ctx, id, r.PostForm)
	if err != nil {
		if isUserError(err) {
			m.renderForm(w, r, id, r.PostForm, []string{ErrorMessage(loc, err)})
			return
		}
		RenderError(w, r, err)
		return
	}

	name := templates.T(loc, m.options.Name)
	label := m.label(ctx, saved)
	if id == 0 {
		MessageUser(w, r, "core.added", name, label)
	} else {
		MessageUser(w, r, "core.changed", name, label)
	}

	target := m.listURL()
	switch {
	case r.PostForm.Get("_addanother") != "":
		target = m.addURL()
	case r.PostForm.Get("_continue") != "":
		target = m.changeURL(saved)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (m *modelAdmin) handleDelete(w http.ResponseWriter, r *http.Request, id int64) {
	loc := Localizer(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.StoreRequest)
	defer cancel()

	labels, err := m.resource.Labels(ctx, []int64{id})
	if err == nil && len(labels) == 0 {
		err = storage.ErrNotFound
	}
	if err != nil {
		RenderError(w, r, err)
		return
	}
	name := templates.T(loc, m.options.Name)

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		page := Page(w, r, templates.T(loc, "core.are_you_sure"))
		Render(w, r, http.StatusOK, page, templates.DeletePage(page, templates.DeleteView{
			Prompt:    templates.T(loc, "core.delete_prompt", name, labels[0]),
			Objects:   labels,
			ActionURL: m.deleteURL(id),
			CancelURL: m.changeURL(id),
		}))
	case http.MethodPost:
		if err := checkOrigin(r); err != nil {
			logError(r, "delete", err)
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		deleted, err := m.resource.Delete(ctx, []int64{id})
		if err == nil && deleted == 0 {
			err = storage.ErrNotFound
		}
		if err != nil {
			RenderError(w, r, err)
			return
		}
		MessageUser(w, r, "core.deleted_one", name, labels[0])
		http.Redirect(w, r, m.listURL(), http.StatusSeeOther)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (m *modelAdmin) label(ctx context.Context, id int64) string {
	labels, err := m.resource.Labels(ctx, []int64{id})
	if err != nil || len(labels) == 0 {
		return ""
	}
	return labels[0]
}

// isUserError reports whether err should be shown on the form instead of
// failing the request.
func isUserError(err error) bool {
	if errors.Is(err, storage.ErrAlreadyExists) {
		return true
	}
	if apperrors.GetCode(err) == apperrors.CodeUnknown {
		return false
	}
	status := apperrors.HTTPStatus(err)
	return status >= 400 && status < 500 && status != http.StatusNotFound
}

// overlay replaces rendered field values with submitted ones. Unchecked
// checkboxes are absent from a submission.
func overlay(fieldsets []templates.Fieldset, values url.Values) {
	for i := range fieldsets {
		for j := range fieldsets[i].Fields {
			field := &fieldsets[i].Fields[j]
			switch field.Kind {
			case templates.FieldReadOnly, templates.FieldTree:
			case templates.FieldCheckbox:
				field.Value = ""
				if values.Get(field.Name) != "" {
					field.Value = "on"
				}
			case templates.FieldMultiSelect:
				field.Values = values[field.Name]
			default:
				field.Value = values.Get(field.Name)
			}
		}
	}
}
