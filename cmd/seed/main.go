// Command seed populates the database with demo posts and comment threads.
package main

import (
	"flag"
	"log"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/seed"
)

func main() {
	numPosts := flag.Int("posts", 25, "number of demo posts to create")
	maxComments := flag.Int("comments", 8, "maximum comments per post")
	clean := flag.Bool("clean", false, "delete existing posts and comments first")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		NumPosts:       *numPosts,
		MaxCommentsPer: *maxComments,
		Clean:          *clean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
