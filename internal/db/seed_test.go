package db

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dkeita/ecole-portal/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSeedIsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	if err := Seed(db, "admin@ecole.test", "secret123"); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := Seed(db, "admin@ecole.test", "secret123"); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var cities int64
	db.Model(&models.City{}).Count(&cities)
	if cities != int64(len(defaultCities)) {
		t.Fatalf("expected %d cities, got %d", len(defaultCities), cities)
	}

	var admins int64
	db.Model(&models.User{}).Where("is_admin = ?", true).Count(&admins)
	if admins != 1 {
		t.Fatalf("expected exactly one admin, got %d", admins)
	}
}

func TestBackfillPlaceholderTranslations(t *testing.T) {
	db := setupTestDB(t)

	user := models.User{Email: "author@ecole.test", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	// Legacy article: native copy only, no translation rows.
	article := models.Article{Title: "Ancien article", Content: "Contenu historique", Language: "fr", UserID: user.ID}
	if err := db.Create(&article).Error; err != nil {
		t.Fatalf("article: %v", err)
	}

	if err := BackfillPlaceholderTranslations(db); err != nil {
		t.Fatalf("backfill: %v", err)
	}

	var rows []models.ArticleTranslation
	db.Where("article_id = ?", article.ID).Order("locale").Find(&rows)
	if len(rows) != 2 {
		t.Fatalf("expected 2 placeholder rows, got %d", len(rows))
	}
	for _, row := range rows {
		if !strings.HasPrefix(row.Title, models.TranslationPlaceholderPrefix) {
			t.Fatalf("expected sentinel prefix on %q", row.Title)
		}
	}

	var loaded models.Article
	db.Preload("Translations").First(&loaded, article.ID)
	if loaded.IsFullyTranslated() {
		t.Fatal("placeholder rows must not count as fully translated")
	}

	// Running again must not duplicate rows.
	if err := BackfillPlaceholderTranslations(db); err != nil {
		t.Fatalf("second backfill: %v", err)
	}
	var count int64
	db.Model(&models.ArticleTranslation{}).Where("article_id = ?", article.ID).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 rows after rerun, got %d", count)
	}
}
