// Package migrations embeds SQL migration files into the binary.
//
// The masterdata binary applies them on "serve" and "migrate" without
// needing the SQL files on disk.
package migrations

import (
	"embed"

	"github.com/nerrad567/masterdata-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
