// Command main fills the database with demo posts, comments and likes.
package main

import (
	"context"
	"flag"
	"log"

	"brightpath/internal/config"
	"brightpath/internal/database"
	"brightpath/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numPosts := flag.Int("posts", defaults.NumPosts, "Number of posts to create")
	numUsers := flag.Int("users", defaults.NumUsers, "Number of distinct likers")
	comments := flag.Int("comments", defaults.CommentsPerPost, "Comments per post")
	likeRate := flag.Float64("like-rate", defaults.LikeRate, "Chance a user likes a given target")
	approvalRate := flag.Float64("approval-rate", defaults.ApprovalRate, "Share of comments approved")
	randSeed := flag.Int64("seed", 0, "Random seed (0 = random)")
	shouldClean := flag.Bool("clean", true, "Clean engagement tables before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db, seed.Options{
		NumPosts:        *numPosts,
		NumUsers:        *numUsers,
		CommentsPerPost: *comments,
		LikeRate:        *likeRate,
		ApprovalRate:    *approvalRate,
		RandSeed:        *randSeed,
	})

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	sum, err := s.Run(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d posts, %d comments, %d post likes, %d comment likes",
		sum.Posts, sum.Comments, sum.PostLikes, sum.CommentLikes)
}
