// Package migration applies versioned schema changes to a SQLite database.
//
// Migrations are read from an fs.FS (normally an embed.FS compiled into the
// binary) and must be named {version}_{description}.sql, for example
// "001_initial_schema.sql". Versions are applied in ascending order, each in
// its own transaction, and recorded in a schema_migrations table so that
// running the manager again on an initialised database is a no-op.
//
// Example usage:
//
//	scanner := migration.NewScanner(migrationFiles, "migrations")
//	manager := migration.NewManager(scanner, migration.NewSQLiteExecutor(db), logger)
//	if err := manager.Run(ctx); err != nil {
//		return err
//	}
package migration
