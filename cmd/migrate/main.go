package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"github.com/pageza/wod-analyzer/backend/internal/database"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	migrationsDir := flag.String("dir", "migrations", "Directory holding the .sql migrations")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if *rollback {
		name, err := database.RollbackLast(db, *migrationsDir)
		if err != nil {
			if errors.Is(err, database.ErrNoMigrations) {
				log.Fatal("No migrations to rollback")
			}
			log.Fatalf("rollback failed: %v", err)
		}
		fmt.Printf("Successfully rolled back migration: %s\n", name)
		return
	}

	applied, err := database.ApplyMigrations(db, *migrationsDir)
	for _, file := range applied {
		fmt.Printf("Successfully applied migration: %s\n", file)
	}
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	fmt.Println("All migrations applied successfully.")
}
