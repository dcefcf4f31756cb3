// Package storage defines the records and persistence contracts behind the
// admin sites.
//
// Handlers depend on these interfaces so changelists and forms stay testable
// without a concrete SQLite schema.
package storage
