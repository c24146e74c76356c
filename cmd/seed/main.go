package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"lecture-transcription/internal/config"
	"lecture-transcription/internal/domain/model"
	pg "lecture-transcription/internal/infra/db/postgres"
)

// Seeds a few sample lectures for manual API testing. Lectures are written
// straight to the database without enqueueing, so no worker picks them up.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}
	repo := pg.NewLectureRepo(pool)

	// If lectures already exist, do nothing
	total, err := repo.Count(ctx, "")
	if err != nil {
		log.Fatalf("count lectures: %v", err)
	}
	if total > 0 {
		fmt.Printf("%d lectures already present. No changes.\n", total)
		return
	}

	seed := []struct {
		Author    string
		Title     string
		Tags      []string
		ObjectKey string
	}{
		{"demo-author", "Intro to Compilers", []string{"compilers", "parsing"}, "audio/compilers-01.mp3"},
		{"demo-author", "Operating Systems: Scheduling", []string{"os", "scheduling"}, "audio/os-03.mp3"},
		{"another-author", "Linear Algebra Review", []string{"math"}, "audio/linalg-00.wav"},
	}

	for _, s := range seed {
		title, err := model.NewTitle(s.Title)
		if err != nil {
			log.Fatalf("title %q: %v", s.Title, err)
		}
		tags, err := model.NewTags(s.Tags)
		if err != nil {
			log.Fatalf("tags %v: %v", s.Tags, err)
		}
		lec, err := model.NewLecture("", s.Author, title, tags, s.ObjectKey, time.Now())
		if err != nil {
			log.Fatalf("new lecture: %v", err)
		}
		if err := repo.Save(ctx, lec); err != nil {
			log.Fatalf("save lecture: %v", err)
		}
		fmt.Printf("  - %s %q (author=%s, key=%s)\n", lec.ID, s.Title, s.Author, s.ObjectKey)
	}
	fmt.Printf("Seeded %d lectures.\n", len(seed))
}
