// Package csvexport writes changelist selections as CSV and reads uploaded
// CSV files back into column-keyed rows.
package csvexport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/umsra/internal/platform/errors"
)

// TimeLayout is how time values are rendered in exported files.
const TimeLayout = "2006-01-02 15:04:05"

// FormatValue renders one cell. Booleans become True/False and nil becomes
// the empty string.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.UTC().Format(TimeLayout)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Export writes a header of field names followed by one line per row.
func Export(w io.Writer, fieldNames []string, rows [][]any) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(fieldNames); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(fieldNames))
	for i, row := range rows {
		if len(row) != len(fieldNames) {
			return fmt.Errorf("row %d has %d values, want %d", i+1, len(row), len(fieldNames))
		}
		for j, value := range row {
			record[j] = FormatValue(value)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Filename returns the download name for a model, e.g. "entities.hero.csv".
func Filename(app, model string) string {
	return strings.ToLower(app) + "." + strings.ToLower(model) + ".csv"
}

// WriteResponse sends rows as a CSV attachment.
func WriteResponse(w http.ResponseWriter, app, model string, fieldNames []string, rows [][]any) error {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+Filename(app, model))
	return Export(w, fieldNames, rows)
}

// Row is one imported record keyed by lowercase column name.
type Row struct {
	// Line is the 1-based line in the uploaded file.
	Line   int
	Values map[string]string
}

// Get returns the trimmed value of column, or "" when absent.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Values[strings.ToLower(column)])
}

// Import reads a header row and returns the following records. It rejects
// files that lack any required column and reports the line of the first
// malformed row.
func Import(r io.Reader, required []string) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.New(apperrors.CodeCSVEmpty, "csv file is empty")
	}
	if err != nil {
		return nil, malformed(err, 1)
	}

	columns := make([]string, len(header))
	present := make(map[string]bool, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		columns[i] = name
		present[name] = true
	}
	for _, name := range required {
		if !present[strings.ToLower(name)] {
			return nil, apperrors.WithMetadata(
				apperrors.CodeCSVMissingColumn,
				"csv is missing column "+name,
				map[string]string{"Column": name},
			)
		}
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed(err, 0)
		}
		line, _ := reader.FieldPos(0)
		values := make(map[string]string, len(columns))
		for i, name := range columns {
			values[name] = record[i]
		}
		rows = append(rows, Row{Line: line, Values: values})
	}
	return rows, nil
}

func malformed(err error, line int) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		line = parseErr.StartLine
		if line == 0 {
			line = parseErr.Line
		}
	}
	return &apperrors.Error{
		Code:     apperrors.CodeCSVMalformedRow,
		Message:  fmt.Sprintf("malformed csv row at line %d", line),
		Metadata: map[string]string{"Line": strconv.Itoa(line)},
		Cause:    err,
	}
}

// ParseBool reads the boolean spellings an export or spreadsheet produces.
// Empty means false.
func ParseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "false", "0", "no", "n", "off":
		return false, nil
	case "true", "1", "yes", "y", "on":
		return true, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", value)
	}
}

// ParseInt reads an integer cell, using fallback when the cell is empty.
func ParseInt(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", value)
	}
	return n, nil
}
