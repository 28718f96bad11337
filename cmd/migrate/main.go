package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fieldserve/appointments/internal/config"
	"github.com/fieldserve/appointments/internal/repository/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	fmt.Printf("Opening appointment store at %s...\n", cfg.Store.Path)

	db, err := sqlite.NewDB(context.Background(), cfg.Store)
	if err != nil {
		panic(fmt.Sprintf("Failed to open store: %v", err))
	}
	defer db.Close()

	// Get migration files
	files, err := filepath.Glob("migrations/*.up.sql")
	if err != nil {
		panic(err)
	}
	sort.Strings(files)

	for _, file := range files {
		fmt.Printf("Applying migration: %s\n", file)
		content, err := os.ReadFile(file)
		if err != nil {
			panic(err)
		}

		if _, err := db.ExecContext(context.Background(), string(content)); err != nil {
			// Migrations use IF NOT EXISTS; anything else is worth seeing but
			// should not abort the remaining files.
			fmt.Printf("Error applying %s: %v\n", file, err)
		} else {
			fmt.Printf("%s applied\n", file)
		}
	}
}
