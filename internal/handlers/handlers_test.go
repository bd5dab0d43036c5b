package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dkeita/ecole-portal/internal/models"
)

func setupHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.City{}, &models.Student{},
		&models.Article{}, &models.ArticleTranslation{},
		&models.Document{}, &models.DocumentTranslation{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedHandlerUser(t *testing.T, db *gorm.DB, email string, admin bool) models.User {
	t.Helper()
	u := models.User{Email: email, Name: "Test", Password: "x", IsAdmin: admin}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedHandlerArticle(t *testing.T, db *gorm.DB, ownerID uint) models.Article {
	t.Helper()
	a := models.Article{
		Title: "Bonjour", Content: "Contenu initial de test", Language: "fr",
		UserID: ownerID,
		Translations: []models.ArticleTranslation{
			{Locale: "fr", Title: "Bonjour", Content: "Contenu initial de test"},
			{Locale: "en", Title: "Hello", Content: "Initial test content"},
		},
	}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("seed article: %v", err)
	}
	return a
}

func seedHandlerStudent(t *testing.T, db *gorm.DB, ownerID *uint) (models.Student, models.City) {
	t.Helper()
	city := models.City{Name: "Montréal-" + t.Name()}
	if err := db.Create(&city).Error; err != nil {
		t.Fatalf("seed city: %v", err)
	}
	s := models.Student{
		Name: "Alice Tremblay", Address: "1 rue Principale", Phone: "514-555-0100",
		Email: "alice+" + t.Name() + "@test.local",
		Birthdate: time.Date(2000, 1, 15, 0, 0, 0, 0, time.UTC),
		CityID:    city.ID, UserID: ownerID,
	}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return s, city
}

// formRequest builds a POST with an urlencoded body and an {id} path value.
func formRequest(target string, id uint, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if id != 0 {
		req.SetPathValue("id", fmt.Sprint(id))
	}
	return req
}
