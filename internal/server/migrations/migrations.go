// Package migrations embeds the goose schema migrations, one directory
// per supported SQL dialect.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// ForDialect returns the migration tree for dir ("postgres" or "sqlite").
func ForDialect(dir string) (fs.FS, error) {
	return fs.Sub(Migrations, dir)
}
