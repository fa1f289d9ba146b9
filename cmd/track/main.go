// Command track records a post view from the command line, with the same
// once-per-window dedup a browser visit gets.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	"brightpath/internal/config"
	"brightpath/pkg/client"
	"brightpath/pkg/viewtracker"
)

func main() {
	home, _ := os.UserHomeDir()
	apiURL := flag.String("api", "http://localhost:8080", "API base URL")
	postID := flag.String("post", "", "Post ID")
	slug := flag.String("slug", "", "Post slug")
	marks := flag.String("marks", filepath.Join(home, ".brightpath", "views.json"), "View marker file")
	flag.Parse()

	expiry := viewtracker.DefaultExpiry
	if cfg, err := config.LoadConfig(); err == nil {
		expiry = cfg.ViewMarkTTL()
	}

	tracker := viewtracker.New(client.New(*apiURL), viewtracker.NewFileStore(*marks),
		viewtracker.WithExpiry(expiry))

	fired, err := tracker.Track(context.Background(), *postID, *slug)
	if err != nil {
		log.Fatal(err)
	}
	tracker.Wait()
	if fired {
		log.Printf("view sent for %s", *slug)
	} else {
		log.Printf("already viewed %s recently", *slug)
	}
}
