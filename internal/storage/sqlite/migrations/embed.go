// Package migrations embeds the snapshot store's SQL migrations.
package migrations

import "embed"

// FS contains the migration files in lexical order.
//
//go:embed *.sql
var FS embed.FS
