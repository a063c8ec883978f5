package main

import (
	"log"

	"github.com/bingolaperla/perla-backend/config"
)

func main() {
	cfg := config.Load()
	config.SetupDatabase(cfg.DatabaseURL) // connects + migrates
	log.Println("✅ Database migration completed successfully")
}
