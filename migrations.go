package ragzy

import "embed"

// MigrationsFS holds the SQL migrations for the postgres store driver.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
