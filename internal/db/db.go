package db

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"medtriage/internal/assessment"
	"medtriage/internal/config"
)

var DB *gorm.DB

// Init opens the database and migrates the schema. Postgres is used
// when a DSN is configured; otherwise a local sqlite file keeps the
// service runnable without external infrastructure.
func Init(cfg *config.Config) error {
	var (
		db  *gorm.DB
		err error
	)
	if cfg.Postgres.DSN != "" {
		db, err = gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{})
	} else {
		db, err = gorm.Open(sqlite.Open(cfg.SQLite.Path), &gorm.Config{})
	}
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(&assessment.Record{}); err != nil {
		return err
	}

	DB = db
	log.Printf("Database connected and migrated")
	return nil
}
