package db

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dkeita/ecole-portal/internal/i18n"
	"github.com/dkeita/ecole-portal/internal/logger"
	"github.com/dkeita/ecole-portal/internal/models"
)

// defaultCities are seeded on startup; students must reference one.
var defaultCities = []string{
	"Montréal",
	"Québec",
	"Laval",
	"Gatineau",
	"Sherbrooke",
	"Trois-Rivières",
}

// Seed inserts reference data and the optional admin account. Idempotent:
// everything is find-or-create keyed on unique columns.
func Seed(db *gorm.DB, adminEmail, adminPassword string) error {
	for _, name := range defaultCities {
		city := models.City{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&city).Error; err != nil {
			return fmt.Errorf("seed city %s: %w", name, err)
		}
	}

	if adminEmail != "" && adminPassword != "" {
		var count int64
		db.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count)
		if count == 0 {
			hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash admin password: %w", err)
			}
			admin := models.User{Email: adminEmail, Name: "Administrateur", Password: string(hashed), IsAdmin: true}
			if err := db.Create(&admin).Error; err != nil {
				return fmt.Errorf("seed admin: %w", err)
			}
			logger.Info().Str("email", adminEmail).Msg("admin account created")
		}
	}

	return BackfillPlaceholderTranslations(db)
}

// BackfillPlaceholderTranslations inserts a placeholder translation row for
// every (article, locale) pair that has none, so legacy articles written
// before the translation tables existed still render in every locale. The
// placeholder title carries the sentinel prefix surfaced by
// Article.IsFullyTranslated.
func BackfillPlaceholderTranslations(db *gorm.DB) error {
	var articles []models.Article
	if err := db.Preload("Translations").Find(&articles).Error; err != nil {
		return fmt.Errorf("load articles for backfill: %w", err)
	}

	var created int
	for i := range articles {
		a := &articles[i]
		for _, locale := range i18n.SupportedLocales {
			if a.HasTranslation(locale) {
				continue
			}
			row := models.ArticleTranslation{
				ArticleID: a.ID,
				Locale:    locale,
				Title:     models.TranslationPlaceholderPrefix + " " + a.Title,
				Content:   models.TranslationPlaceholderPrefix + " " + a.Content,
			}
			if err := db.Create(&row).Error; err != nil {
				return fmt.Errorf("backfill article %d locale %s: %w", a.ID, locale, err)
			}
			created++
		}
	}
	if created > 0 {
		logger.Info().Int("rows", created).Msg("placeholder translations backfilled")
	}
	return nil
}
