package app

import (
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationUp applies the versioned challenge-schema migrations to a
// Postgres database. Already-applied migrations are not an error; any
// other failure aborts startup since the schema cannot be trusted.
// SQLite deployments never reach here (gorm AutoMigrate covers them).
func MigrationUp(databaseDSN string, migrationPath string) {
	migration, err := migrate.New(
		migrationPath,
		databaseDSN)
	if err != nil {
		log.Fatalf("failed to create migrate: %v", err)
	}

	if err := migration.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatalf("failed to run migration up: %v", err)
	}
}

// MigrationDown rolls the challenge schema back, dropping all four
// tables. Only reachable through the migrate utility.
func MigrationDown(databaseDSN string, migrationPath string) {
	migration, err := migrate.New(
		migrationPath,
		databaseDSN)
	if err != nil {
		log.Fatalf("failed to create migrate: %v", err)
	}

	if err := migration.Down(); err != nil && err != migrate.ErrNoChange {
		log.Fatalf("failed to run migration down: %v", err)
	}
}
