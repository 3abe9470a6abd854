package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"trip_planner_app/internal/services"
	"trip_planner_app/internal/tasks"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize Database
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := services.InitDB(databaseURL, os.Getenv("DB_DEBUG") == "true")
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize Task Registry
	tasks.DefineTasks()
	runner := tasks.NewRunner(db)

	interval := 5 * time.Minute
	if raw := os.Getenv("WORKER_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			interval = parsed
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Worker started, polling every %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	runner.RunDue(ctx)
	for {
		select {
		case <-ticker.C:
			runner.RunDue(ctx)
		case <-ctx.Done():
			log.Println("Shutting down worker...")
			return
		}
	}
}
