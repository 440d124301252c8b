// Command migrate applies or rolls back database schema changes.
//
// Usage:
//
//	migrate up            apply pending versioned migrations
//	migrate down <ver>    roll back a specific migration version
//	migrate auto          gorm AutoMigrate of all models (dev only)
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"vendio/internal/config"
	"vendio/internal/database"
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Skip AutoMigrate on connect; this binary decides how schema moves.
	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch cmd := flag.Arg(0); cmd {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations applied")
	case "down":
		if flag.NArg() < 2 {
			log.Fatal("migrate down requires a version number")
		}
		version, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			log.Fatalf("Invalid version %q: %v", flag.Arg(1), err)
		}
		if err := database.RollbackMigration(ctx, db, version); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		log.Printf("Migration %d rolled back", version)
	case "auto":
		if err := db.WithContext(ctx).AutoMigrate(database.AllModels()...); err != nil {
			log.Fatalf("AutoMigrate failed: %v", err)
		}
		log.Println("AutoMigrate complete")
	default:
		log.Fatalf("Unknown command %q", cmd)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [up|down <version>|auto]\n", os.Args[0])
	flag.PrintDefaults()
}
