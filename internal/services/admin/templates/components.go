package templates

import (
	"net/url"
	"strings"
)

// Breadcrumb represents a single breadcrumb item.
type Breadcrumb struct {
	// Label is the visible label.
	Label string
	// URL is the optional navigation target.
	URL string
}

// Link is a navigation target rendered as a button or anchor.
type Link struct {
	Label string
	URL   string
}

// Choice is one option of a select, radio group, or action menu.
type Choice struct {
	Value    string
	Label    string
	Selected bool
}

// AppendQueryParam appends a single query parameter to a URL.
func AppendQueryParam(baseURL string, key string, value string) string {
	encodedKey := url.QueryEscape(key)
	encodedValue := url.QueryEscape(value)
	if strings.Contains(baseURL, "?") {
		return baseURL + "&" + encodedKey + "=" + encodedValue
	}
	return baseURL + "?" + encodedKey + "=" + encodedValue
}
