package site

import (
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/umsra/internal/platform/errors"
)

func invalidField(field string, value string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidArgument, "invalid "+field+": "+value, map[string]string{"Field": field})
}

// FormString returns the trimmed value of a form field.
func FormString(values url.Values, field string) string {
	return strings.TrimSpace(values.Get(field))
}

// FormBool reports whether a checkbox field was submitted.
func FormBool(values url.Values, field string) bool {
	switch strings.ToLower(FormString(values, field)) {
	case "", "0", "false", "off":
		return false
	default:
		return true
	}
}

// FormInt parses an integer field, returning fallback when it is blank.
func FormInt(values url.Values, field string, fallback int) (int, error) {
	raw := FormString(values, field)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidField(field, raw)
	}
	return value, nil
}

// FormID parses an optional foreign key field; blank means 0.
func FormID(values url.Values, field string) (int64, error) {
	raw := FormString(values, field)
	if raw == "" {
		return 0, nil
	}
	id, err := parseID(raw)
	if err != nil {
		return 0, invalidField(field, raw)
	}
	return id, nil
}

// FormIDs parses a multi-select field.
func FormIDs(values url.Values, field string) ([]int64, error) {
	var raw []string
	for _, value := range values[field] {
		if strings.TrimSpace(value) != "" {
			raw = append(raw, value)
		}
	}
	ids, err := parseIDs(raw)
	if err != nil {
		return nil, invalidField(field, strings.Join(raw, ","))
	}
	return ids, nil
}

// IDString formats an optional foreign key for a form field; 0 is blank.
func IDString(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// IDStrings formats ids for a multi-select field.
func IDStrings(ids []int64) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, strconv.FormatInt(id, 10))
	}
	return out
}

// CheckboxValue formats a bool for a checkbox field.
func CheckboxValue(value bool) string {
	if value {
		return "on"
	}
	return ""
}
