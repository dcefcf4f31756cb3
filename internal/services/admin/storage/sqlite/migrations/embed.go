// Package migrations embeds the admin SQLite schema migrations.
package migrations

import "embed"

// FS holds the forward-only migration files, applied in file-name order.
//
//go:embed *.sql
var FS embed.FS
