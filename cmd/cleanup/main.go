package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/classdesk/organization-service/internal/config"
	"github.com/classdesk/organization-service/internal/db"
	"github.com/classdesk/organization-service/internal/organization"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("Membership Cleanup Job - Starting")

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	database, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	cleanupService := organization.NewCleanupService(database)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	count, err := cleanupService.CountOrphanedMemberships(ctx)
	if err != nil {
		log.Fatalf("Failed to count orphaned memberships: %v", err)
	}
	log.Printf("Found %d orphaned memberships", count)

	if count == 0 {
		log.Println("Nothing to clean up")
		return
	}

	removed, err := cleanupService.CleanupOrphanedMemberships(ctx)
	if err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}
	log.Printf("Cleanup complete: removed %d memberships", removed)
}
