package csvexport

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	apperrors "github.com/louisbranch/umsra/internal/platform/errors"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: ""},
		{name: "true", value: true, want: "True"},
		{name: "false", value: false, want: "False"},
		{name: "int", value: 42, want: "42"},
		{name: "int64", value: int64(-7), want: "-7"},
		{name: "float", value: 1.5, want: "1.5"},
		{name: "string", value: "Thor", want: "Thor"},
		{name: "time", value: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), want: "2026-01-02 03:04:05"},
		{name: "zero time", value: time.Time{}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.value); got != tt.want {
				t.Fatalf("FormatValue(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestExport(t *testing.T) {
	var buf bytes.Buffer
	err := Export(&buf, []string{"id", "name", "is_immortal", "category"}, [][]any{
		{int64(1), "Thor", true, "Norse"},
		{int64(2), "Hercules, son of Zeus", false, nil},
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	want := "id,name,is_immortal,category\n" +
		"1,Thor,True,Norse\n" +
		"2,\"Hercules, son of Zeus\",False,\n"
	if got := buf.String(); got != want {
		t.Fatalf("export = %q, want %q", got, want)
	}

	if err := Export(&buf, []string{"id"}, [][]any{{1, 2}}); err == nil {
		t.Fatal("expected row width error")
	}
}

func TestWriteResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteResponse(rec, "entities", "Hero", []string{"name"}, [][]any{{"Thor"}}); err != nil {
		t.Fatalf("write response: %v", err)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("content type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != "attachment; filename=entities.hero.csv" {
		t.Fatalf("content disposition = %q", got)
	}
	if got := rec.Body.String(); got != "name\nThor\n" {
		t.Fatalf("body = %q", got)
	}
}

func TestImport(t *testing.T) {
	input := "\ufeffName, Category ,is_immortal\nThor,Norse,True\n\"Hel\nDaughter of Loki\",Norse,False\n"
	rows, err := Import(strings.NewReader(input), []string{"name", "category"})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	want := []Row{
		{Line: 2, Values: map[string]string{"name": "Thor", "category": "Norse", "is_immortal": "True"}},
		{Line: 3, Values: map[string]string{"name": "Hel\nDaughter of Loki", "category": "Norse", "is_immortal": "False"}},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if got := rows[0].Get("Category"); got != "Norse" {
		t.Fatalf("Get(Category) = %q", got)
	}
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode apperrors.Code
		wantMeta map[string]string
	}{
		{name: "empty", input: "", wantCode: apperrors.CodeCSVEmpty},
		{
			name:     "missing column",
			input:    "name\nThor\n",
			wantCode: apperrors.CodeCSVMissingColumn,
			wantMeta: map[string]string{"Column": "category"},
		},
		{
			name:     "short row",
			input:    "name,category\nThor,Norse\nLoki\n",
			wantCode: apperrors.CodeCSVMalformedRow,
			wantMeta: map[string]string{"Line": "3"},
		},
		{
			name:     "bare quote",
			input:    "name,category\nTh\"or,Norse\n",
			wantCode: apperrors.CodeCSVMalformedRow,
			wantMeta: map[string]string{"Line": "2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(strings.NewReader(tt.input), []string{"name", "category"})
			if got := apperrors.GetCode(err); got != tt.wantCode {
				t.Fatalf("code = %s, want %s (err %v)", got, tt.wantCode, err)
			}
			if tt.wantMeta != nil {
				if diff := cmp.Diff(tt.wantMeta, apperrors.Metadata(err)); diff != "" {
					t.Fatalf("metadata mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestParseHelpers(t *testing.T) {
	for _, value := range []string{"True", "1", "yes", " on "} {
		if got, err := ParseBool(value); err != nil || !got {
			t.Fatalf("ParseBool(%q) = %v, %v", value, got, err)
		}
	}
	for _, value := range []string{"False", "", "0", "no"} {
		if got, err := ParseBool(value); err != nil || got {
			t.Fatalf("ParseBool(%q) = %v, %v", value, got, err)
		}
	}
	if _, err := ParseBool("maybe"); err == nil {
		t.Fatal("expected invalid boolean error")
	}

	if got, err := ParseInt("", 50); err != nil || got != 50 {
		t.Fatalf("ParseInt empty = %d, %v", got, err)
	}
	if got, err := ParseInt(" 80 ", 50); err != nil || got != 80 {
		t.Fatalf("ParseInt = %d, %v", got, err)
	}
	if _, err := ParseInt("eighty", 50); err == nil {
		t.Fatal("expected invalid integer error")
	}
}
