package models

import (
	"strings"
	"time"

	"github.com/dkeita/ecole-portal/internal/i18n"
)

// TranslationPlaceholderPrefix marks auto-generated translation rows that a
// human has not written yet. Rows whose title starts with this prefix count
// as missing for IsFullyTranslated.
const TranslationPlaceholderPrefix = "[Translation needed]"

// Article is a forum article. Title/Content/Language hold the native copy;
// per-locale text lives in the translation rows.
type Article struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Language  string    `gorm:"size:2;not null" json:"language"`

	UserID uint  `gorm:"index;not null" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Translations []ArticleTranslation `gorm:"constraint:OnDelete:CASCADE" json:"translations,omitempty"`
}

// ArticleTranslation holds the localized text of one article in one locale.
// At most one row exists per (article, locale).
type ArticleTranslation struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ArticleID uint   `gorm:"uniqueIndex:idx_article_locale;not null" json:"article_id"`
	Locale    string `gorm:"uniqueIndex:idx_article_locale;size:2;not null" json:"locale"`
	Title     string `gorm:"size:255;not null" json:"title"`
	Content   string `gorm:"type:text;not null" json:"content"`
}

// GetUserID implements policy.Ownable.
func (a Article) GetUserID() uint { return a.UserID }

// Translation returns the loaded translation row for locale, or nil.
// Relies on Translations being preloaded; it never queries.
func (a Article) Translation(locale string) *ArticleTranslation {
	for i := range a.Translations {
		if a.Translations[i].Locale == locale {
			return &a.Translations[i]
		}
	}
	return nil
}

// TitleIn returns the title in the requested locale, falling back to the
// native title. Total: always returns a value.
func (a Article) TitleIn(locale string) string {
	if tr := a.Translation(locale); tr != nil {
		return tr.Title
	}
	return a.Title
}

// ContentIn returns the content in the requested locale, falling back to
// the native content.
func (a Article) ContentIn(locale string) string {
	if tr := a.Translation(locale); tr != nil {
		return tr.Content
	}
	return a.Content
}

// HasTranslation reports whether a translation row exists for locale.
func (a Article) HasTranslation(locale string) bool {
	return a.Translation(locale) != nil
}

// IsFullyTranslated is true only when every supported locale has a
// translation row and none of them is an auto-generated placeholder.
// Data-quality signal for the UI, not an enforced invariant.
func (a Article) IsFullyTranslated() bool {
	for _, locale := range i18n.SupportedLocales {
		tr := a.Translation(locale)
		if tr == nil || strings.HasPrefix(tr.Title, TranslationPlaceholderPrefix) {
			return false
		}
	}
	return true
}
