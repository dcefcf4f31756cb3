// Package routepath names the URL prefixes the admin process serves.
package routepath

import (
	"net/url"
	"strings"
)

const (
	// Root redirects to the entities site.
	Root = "/"
)

const (
	// EntitiesSite mounts the hero and villain admin.
	EntitiesSite = "/admin/"
	// EventsSite mounts the epic and event admin.
	EventsSite = "/event-admin/"
)

const (
	// Health answers liveness probes without touching storage.
	Health = "/healthz"
)

// Model returns the changelist path of app/model under a site prefix.
func Model(sitePrefix string, app string, model string) string {
	return strings.TrimRight(sitePrefix, "/") + "/" + escapeSegment(app) + "/" + escapeSegment(model) + "/"
}

// ModelRoute returns an extra per-model path such as "immortal/".
func ModelRoute(sitePrefix string, app string, model string, route string) string {
	return Model(sitePrefix, app, model) + escapeSegment(strings.Trim(route, "/")) + "/"
}

func escapeSegment(value string) string {
	return url.PathEscape(strings.TrimSpace(value))
}
