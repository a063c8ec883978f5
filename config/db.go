package config

import (
	"log"

	"github.com/bingolaperla/perla-backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// SetupDatabase connects to DB and runs migrations
func SetupDatabase(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect to DB: %v", err)
	}
	DB = db

	if err := Migrate(db); err != nil {
		log.Fatalf("[FATAL] Migration failed: %v", err)
	}

	log.Println("✅ Database connected and migrated")
	return db
}

// Migrate runs AutoMigrate for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.Card{},
		&models.CardCell{},
		&models.GameParticipant{},
		&models.Transaction{},
		&models.Deposit{},
		&models.Withdrawal{},
		&models.PaymentEvent{},
	)
}
