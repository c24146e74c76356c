package main

import (
	"context"
	"flag"
	"log"

	"lecture-transcription/internal/config"
	pg "lecture-transcription/internal/infra/db/postgres"
	red "lecture-transcription/internal/infra/redis"
	"lecture-transcription/internal/infra/storage"
)

// This script is for setting up a clean, predictable environment
// for manual end-to-end testing.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	// --- Connect to Postgres ---
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 5)
	if err != nil {
		log.Fatalf("postgres connection failed: %v", err)
	}
	defer pool.Close()

	// --- Connect to Redis ---
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}
	defer redisClient.Close()

	log.Println("--- Starting E2E Environment Setup ---")

	// 1. Wipe Redis so no stale locks or queued jobs survive.
	log.Println("[1/3] Wiping Redis...")
	if err := redisClient.FlushDB(ctx); err != nil {
		log.Fatalf("failed to flush redis: %v", err)
	}

	// 2. Reset the lectures table.
	log.Println("[2/3] Wiping lecture data...")
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE lectures;`); err != nil {
		log.Fatalf("failed to truncate lectures: %v", err)
	}

	// 3. Make sure the audio bucket exists.
	log.Println("[3/3] Ensuring audio bucket...")
	store, err := storage.New(&cfg.Storage)
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		log.Fatalf("failed to ensure bucket: %v", err)
	}

	log.Println("--- E2E Environment Setup Complete ---")
}
