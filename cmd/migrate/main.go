package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/huntboard/backend/src/app"
	"github.com/huntboard/backend/src/utils"
	"github.com/joho/godotenv"
)

// Applies or rolls back the SQL migration files against a Postgres
// database. SQLite deployments keep their schema in sync at startup
// and never need this tool.
func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	flag.Parse()

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Overload(".env"); err != nil {
			log.Fatalf("Error loading .env file: %v", err)
		}
	}

	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("DB_URL not set")
	}
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		log.Fatal("migrations only apply to postgres DSNs")
	}

	migrationPath := "file://" + filepath.Join(utils.FindProjectRoot(), "migrations")

	switch *direction {
	case "up":
		app.MigrationUp(dsn, migrationPath)
		log.Println("migrations applied")
	case "down":
		app.MigrationDown(dsn, migrationPath)
		log.Println("migrations rolled back")
	default:
		log.Fatalf("unknown direction %q", *direction)
	}
}
