package main

import (
	"log"

	"github.com/bako110/backend/internal/config"
	"github.com/bako110/backend/internal/domain"
	"github.com/bako110/backend/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := utils.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := utils.CloseDB(db); err != nil {
			log.Printf("error closing database: %v", err)
		}
	}()

	if err := domain.AutoMigrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	log.Println("migrations applied")
}
