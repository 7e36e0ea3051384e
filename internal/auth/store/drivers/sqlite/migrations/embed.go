// Package migrations embeds the SQL schema so the binary carries it.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
