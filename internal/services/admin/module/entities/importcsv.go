package entities

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/louisbranch/umsra/internal/platform/errors"
	"github.com/louisbranch/umsra/internal/platform/timeouts"
	"github.com/louisbranch/umsra/internal/services/admin/csvexport"
	"github.com/louisbranch/umsra/internal/services/admin/site"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
	"github.com/louisbranch/umsra/internal/services/admin/templates"
)

const (
	importFileField = "csv_file"
	maxImportBytes  = 10 << 20
)

// csvImport parses every row, then hands the whole file to store in one
// transaction, so a bad row imports nothing.
type csvImport[T any] struct {
	plural  string
	columns []string
	parse   func(row csvexport.Row) (T, error)
	store   func(ctx context.Context, records []T) (int, error)
}

func (imp csvImport[T]) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			imp.render(w, r, nil)
		case http.MethodPost:
			imp.submit(w, r)
		default:
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (imp csvImport[T]) render(w http.ResponseWriter, r *http.Request, importErrors []string) {
	loc := site.Localizer(r)
	page := site.Page(w, r, templates.T(loc, "core.import_title", templates.T(loc, imp.plural)))
	listURL := site.ChangeListURL(r)
	site.Render(w, r, http.StatusOK, page, templates.ImportPage(page, templates.ImportView{
		ActionURL: r.URL.Path,
		CancelURL: listURL,
		Columns:   imp.columns,
		Errors:    importErrors,
	}))
}

func (imp csvImport[T]) submit(w http.ResponseWriter, r *http.Request) {
	loc := site.Localizer(r)
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, _, err := r.FormFile(importFileField)
	if err != nil {
		imp.render(w, r, []string{templates.T(loc, "error.csv_empty")})
		return
	}
	defer file.Close()

	rows, err := csvexport.Import(file, imp.columns[:1])
	if err != nil {
		imp.render(w, r, []string{site.ErrorMessage(loc, err)})
		return
	}

	records := make([]T, 0, len(rows))
	var rowErrors []string
	for _, row := range rows {
		record, err := imp.parse(row)
		if err != nil {
			rowErrors = append(rowErrors, templates.T(loc, "core.import_line_error", row.Line, site.ErrorMessage(loc, err)))
			continue
		}
		records = append(records, record)
	}
	if len(rowErrors) > 0 {
		imp.render(w, r, rowErrors)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.StoreRequest)
	defer cancel()
	imported, err := imp.store(ctx, records)
	if err != nil {
		var rowErr *storage.RowError
		if !errors.As(err, &rowErr) || !isUserError(rowErr.Err) || rowErr.Row >= len(rows) {
			site.RenderError(w, r, err)
			return
		}
		imp.render(w, r, []string{templates.T(loc, "core.import_line_error", rows[rowErr.Row].Line, site.ErrorMessage(loc, rowErr.Err))})
		return
	}
	site.MessageUser(w, r, "core.imported", imported, templates.T(loc, imp.plural))
	http.Redirect(w, r, site.ChangeListURL(r), http.StatusSeeOther)
}

// isUserError reports whether a create failure is caused by the file's content.
func isUserError(err error) bool {
	return errors.Is(err, storage.ErrAlreadyExists) || apperrors.GetCode(err) != apperrors.CodeUnknown
}

// invalidCell reports a cell that could not be parsed.
func invalidCell(column string, err error) error {
	return &apperrors.Error{
		Code:     apperrors.CodeInvalidArgument,
		Message:  "invalid " + column,
		Cause:    err,
		Metadata: map[string]string{"Field": column},
	}
}
