// Package db handles database connection, schema migration and seeding.
package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/dkeita/ecole-portal/internal/logger"
	"github.com/dkeita/ecole-portal/internal/models"
)

// Connect opens a PostgreSQL connection, retrying to let the database
// finish starting (docker-compose startup ordering).
func Connect(dsn string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error
	for i := 0; i < 5; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			return db, nil
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("database connection failed, retrying")
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("connect database: %w", err)
}

// Migrate applies the GORM auto-migrations for all entities. The unique
// composite indexes on (article_id, locale) and (document_id, locale) are
// what the translation upserts rely on.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.City{},
		&models.Student{},
		&models.Article{},
		&models.ArticleTranslation{},
		&models.Document{},
		&models.DocumentTranslation{},
	); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
