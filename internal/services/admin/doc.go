// Package admin serves the researcher portal: the entities admin site and the
// events admin site, both backed by one SQLite store.
package admin
