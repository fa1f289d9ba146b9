// Command migrate applies the schema. Production servers never auto-migrate,
// so deploys run this first.
package main

import (
	"fmt"
	"log"

	"brightpath/internal/config"
	"brightpath/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Connect already migrates outside production.
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if cfg.IsProduction() {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}
	log.Println("schema up to date")
	return nil
}
