package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dkeita/ecole-portal/internal/i18n"
	"github.com/dkeita/ecole-portal/internal/models"
	"github.com/dkeita/ecole-portal/internal/storage"
)

// documentsSubDir is where document files live under the storage root.
const documentsSubDir = "documents"

// DocumentInput carries the per-locale title fields of a document form.
type DocumentInput struct {
	TitleFR string
	TitleEN string
}

// Title returns the submitted title for locale.
func (in DocumentInput) Title(locale string) string {
	if locale == "en" {
		return in.TitleEN
	}
	return in.TitleFR
}

type DocumentService struct {
	db    *gorm.DB
	store *storage.LocalStorage
}

func NewDocumentService(db *gorm.DB, store *storage.LocalStorage) *DocumentService {
	return &DocumentService{db: db, store: store}
}

// List returns one page of documents, newest first.
func (s *DocumentService) List(page, perPage int) ([]models.Document, int64, error) {
	var docs []models.Document
	var total int64

	if err := s.db.Model(&models.Document{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := s.db.Preload("User").Preload("Translations").
		Order("created_at DESC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&docs).Error
	return docs, total, err
}

// Get loads one document with owner and translations.
func (s *DocumentService) Get(id uint) (*models.Document, error) {
	var doc models.Document
	err := s.db.Preload("User").Preload("Translations").First(&doc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Create stores the uploaded file and writes the document plus its title
// translations in one transaction. The stored file is removed again if the
// database write fails, so no orphan files accumulate.
func (s *DocumentService) Create(in DocumentInput, fileHeader *multipart.FileHeader, userID uint) (*models.Document, error) {
	stored, err := s.store.Save(fileHeader, documentsSubDir)
	if err != nil {
		return nil, err
	}

	doc := models.Document{
		UserID:           userID,
		Filename:         stored.Filename,
		OriginalFilename: fileHeader.Filename,
		FilePath:         stored.Path,
		FileType:         fileExt(fileHeader.Filename),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&doc).Error; err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		return syncDocumentTranslations(tx, doc.ID, in)
	})
	if err != nil {
		_ = s.store.Delete(stored.Path)
		return nil, err
	}
	return s.Get(doc.ID)
}

// Update re-syncs the title translations and, when a replacement file is
// provided, swaps the stored file (the old one is deleted first).
func (s *DocumentService) Update(doc *models.Document, in DocumentInput, fileHeader *multipart.FileHeader) (*models.Document, error) {
	if fileHeader != nil {
		if err := s.store.Delete(doc.FilePath); err != nil {
			return nil, err
		}
		stored, err := s.store.Save(fileHeader, documentsSubDir)
		if err != nil {
			return nil, err
		}
		doc.Filename = stored.Filename
		doc.OriginalFilename = fileHeader.Filename
		doc.FilePath = stored.Path
		doc.FileType = fileExt(fileHeader.Filename)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(doc).Updates(map[string]any{
			"filename":          doc.Filename,
			"original_filename": doc.OriginalFilename,
			"file_path":         doc.FilePath,
			"file_type":         doc.FileType,
		}).Error; err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		return syncDocumentTranslations(tx, doc.ID, in)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(doc.ID)
}

// Delete removes the stored file, then the document and its translations.
func (s *DocumentService) Delete(doc *models.Document) error {
	if err := s.store.Delete(doc.FilePath); err != nil {
		return err
	}
	return s.db.Select(clause.Associations).Delete(doc).Error
}

// FullPath resolves the document's stored file for serving.
func (s *DocumentService) FullPath(doc *models.Document) string {
	return s.store.FullPath(doc.FilePath)
}

// syncDocumentTranslations upserts one title row per supported locale,
// keyed by the unique (document_id, locale) index.
func syncDocumentTranslations(tx *gorm.DB, documentID uint, in DocumentInput) error {
	for _, locale := range i18n.SupportedLocales {
		row := models.DocumentTranslation{
			DocumentID: documentID,
			Locale:     locale,
			Title:      in.Title(locale),
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "document_id"}, {Name: "locale"}},
			DoUpdates: clause.AssignmentColumns([]string{"title"}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("sync %s translation: %w", locale, err)
		}
	}
	return nil
}

// fileExt returns the lower-case extension without the dot.
func fileExt(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}
