// Package migrations embeds the versioned SQL schema applied by golang-migrate.
package migrations

import "embed"

// FS holds the up/down migration files.
//
//go:embed *.sql
var FS embed.FS
