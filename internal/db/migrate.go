package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrations returns the embedded migration file names in apply order.
func Migrations() ([]string, error) {
	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Migrate applies every embedded migration. The statements are idempotent, so
// running it against an initialised database is safe.
func (db *DB) Migrate(ctx context.Context) ([]string, error) {
	names, err := Migrations()
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	applied := make([]string, 0, len(names))
	for _, name := range names {
		sql, err := migrationFS.ReadFile(name)
		if err != nil {
			return applied, fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := db.pool.Exec(ctx, string(sql)); err != nil {
			return applied, fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
		applied = append(applied, name)
	}
	return applied, nil
}
