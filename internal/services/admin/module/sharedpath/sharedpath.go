// Package sharedpath splits admin request paths below a site prefix into the
// app, model and sub-route segments the site dispatches on.
package sharedpath

import "strings"

// ModelPath is a request path below a site prefix, e.g. "entities/hero/3/change/".
type ModelPath struct {
	App   string
	Model string
	// Rest holds the segments after the model, e.g. ["3", "change"].
	Rest []string
}

// Sub joins the remaining segments for matching per-model extra routes.
func (p ModelPath) Sub() string {
	return strings.Join(p.Rest, "/")
}

// Parse splits a path suffix. index is true for the site index; ok is false
// when the suffix names an app without a model.
func Parse(suffix string) (path ModelPath, index bool, ok bool) {
	parts := SplitPathParts(suffix)
	switch len(parts) {
	case 0:
		return ModelPath{}, true, true
	case 1:
		return ModelPath{}, false, false
	}
	return ModelPath{App: parts[0], Model: parts[1], Rest: parts[2:]}, false, true
}

// SplitPathParts normalizes a slash-delimited route suffix into non-empty path segments.
func SplitPathParts(path string) []string {
	rawParts := strings.Split(path, "/")
	parts := make([]string, 0, len(rawParts))
	for _, part := range rawParts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}
