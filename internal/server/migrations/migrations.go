// Package migrations embeds the schema of the upload journal for goose.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
