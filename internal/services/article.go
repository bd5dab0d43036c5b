// Package services holds the business logic behind the HTTP handlers.
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dkeita/ecole-portal/internal/i18n"
	"github.com/dkeita/ecole-portal/internal/models"
)

// ErrNotFound is returned when a referenced entity id does not exist.
var ErrNotFound = errors.New("not found")

// ArticleInput carries the per-locale fields of an article form.
// Language names the primary copy the base fields are taken from.
type ArticleInput struct {
	TitleFR   string
	ContentFR string
	TitleEN   string
	ContentEN string
	Language  string
}

// Title returns the submitted title for locale.
func (in ArticleInput) Title(locale string) string {
	if locale == "en" {
		return in.TitleEN
	}
	return in.TitleFR
}

// Content returns the submitted content for locale.
func (in ArticleInput) Content(locale string) string {
	if locale == "en" {
		return in.ContentEN
	}
	return in.ContentFR
}

type ArticleService struct {
	db *gorm.DB
}

func NewArticleService(db *gorm.DB) *ArticleService {
	return &ArticleService{db: db}
}

// List returns one page of articles, newest first, with author and
// translations loaded.
func (s *ArticleService) List(page, perPage int) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	if err := s.db.Model(&models.Article{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := s.db.Preload("User").Preload("Translations").
		Order("created_at DESC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&articles).Error
	return articles, total, err
}

// Get loads one article with author and translations.
func (s *ArticleService) Get(id uint) (*models.Article, error) {
	var article models.Article
	err := s.db.Preload("User").Preload("Translations").First(&article, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// Create writes the article and its translation rows in one transaction.
// The base fields come from the primary-language pair of the payload.
func (s *ArticleService) Create(in ArticleInput, userID uint) (*models.Article, error) {
	article := models.Article{
		Title:    in.Title(in.Language),
		Content:  in.Content(in.Language),
		Language: in.Language,
		UserID:   userID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&article).Error; err != nil {
			return fmt.Errorf("create article: %w", err)
		}
		return syncArticleTranslations(tx, article.ID, in)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(article.ID)
}

// Update overwrites the base fields and re-syncs the translation rows.
// All-or-nothing: base row and both locale rows commit together.
func (s *ArticleService) Update(article *models.Article, in ArticleInput) (*models.Article, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"title":    in.Title(in.Language),
			"content":  in.Content(in.Language),
			"language": in.Language,
		}
		if err := tx.Model(article).Updates(updates).Error; err != nil {
			return fmt.Errorf("update article: %w", err)
		}
		return syncArticleTranslations(tx, article.ID, in)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(article.ID)
}

// Delete removes the article and its translation rows.
func (s *ArticleService) Delete(article *models.Article) error {
	return s.db.Select(clause.Associations).Delete(article).Error
}

// syncArticleTranslations upserts one row per supported locale. The unique
// (article_id, locale) index makes the write idempotent and safe under
// concurrent submissions: last writer wins, no duplicate rows.
func syncArticleTranslations(tx *gorm.DB, articleID uint, in ArticleInput) error {
	for _, locale := range i18n.SupportedLocales {
		row := models.ArticleTranslation{
			ArticleID: articleID,
			Locale:    locale,
			Title:     in.Title(locale),
			Content:   in.Content(locale),
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "article_id"}, {Name: "locale"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "content"}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("sync %s translation: %w", locale, err)
		}
	}
	return nil
}
