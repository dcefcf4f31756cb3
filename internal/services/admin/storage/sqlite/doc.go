// Package sqlite provides SQLite-backed admin persistence.
//
// Every changelist query goes through the filter package so public field names
// never reach SQL unchecked. Heroes and villains carry the shared entity
// columns directly rather than through a base table.
package sqlite
