package main

import (
	"fmt"
	"log"
	"os"

	"github.com/jedsaxon/misinfodetector/internal/config"
	"github.com/jedsaxon/misinfodetector/internal/database"
	"github.com/jedsaxon/misinfodetector/internal/seed"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	command := "dev"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "dev", "clean":
	default:
		fmt.Println("Usage: seed [dev|clean]")
		fmt.Println("  dev   - Seed the database with posts, topic activities and embeddings")
		fmt.Println("  clean - Remove all posts and research data (use with caution)")
		os.Exit(1)
	}

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := database.Initialize(cfg.DBDriver, cfg.DatabaseURL, false); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	seeder := seed.NewSeeder(database.DB)

	if command == "clean" {
		log.Println("Cleaning seed data...")
		if err := seeder.Clean(); err != nil {
			log.Fatalf("Clean failed: %v", err)
		}
		log.Println("Seed data cleaned")
		return
	}

	log.Println("Seeding development database...")
	if err := seeder.SeedDev(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Development database seeded")
}
