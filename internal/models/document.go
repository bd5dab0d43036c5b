package models

import "time"

// AllowedFileTypes are the document extensions accepted at upload.
var AllowedFileTypes = []string{"pdf", "zip", "doc", "docx"}

// MaxFileSize is the upload size limit in bytes (10 MB).
const MaxFileSize = 10 << 20

// Document is an uploaded file with per-locale title translations.
// The file lives on disk under a generated name; OriginalFilename is
// metadata only and serves as the title fallback.
type Document struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Filename         string    `gorm:"size:255;not null" json:"filename"`
	OriginalFilename string    `gorm:"size:255;not null" json:"original_filename"`
	FilePath         string    `gorm:"size:512;not null" json:"file_path"`
	FileType         string    `gorm:"size:10;not null" json:"file_type"`

	UserID uint  `gorm:"index;not null" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Translations []DocumentTranslation `gorm:"constraint:OnDelete:CASCADE" json:"translations,omitempty"`
}

// DocumentTranslation holds the localized title of one document in one
// locale. At most one row exists per (document, locale).
type DocumentTranslation struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	DocumentID uint   `gorm:"uniqueIndex:idx_document_locale;not null" json:"document_id"`
	Locale     string `gorm:"uniqueIndex:idx_document_locale;size:2;not null" json:"locale"`
	Title      string `gorm:"size:255;not null" json:"title"`
}

// GetUserID implements policy.Ownable.
func (d Document) GetUserID() uint { return d.UserID }

// Translation returns the loaded translation row for locale, or nil.
func (d Document) Translation(locale string) *DocumentTranslation {
	for i := range d.Translations {
		if d.Translations[i].Locale == locale {
			return &d.Translations[i]
		}
	}
	return nil
}

// TitleIn returns the title in the requested locale. Documents have no
// base title field, so the fallback is the original uploaded filename.
func (d Document) TitleIn(locale string) string {
	if tr := d.Translation(locale); tr != nil {
		return tr.Title
	}
	return d.OriginalFilename
}

// FileIcon maps the stored file type to a display icon name.
func (d Document) FileIcon() string {
	switch d.FileType {
	case "pdf":
		return "file-pdf"
	case "zip":
		return "file-archive"
	case "doc", "docx":
		return "file-word"
	}
	return "file"
}

// IsAllowedFileType reports whether ext (without dot, lower case) is an
// accepted upload extension.
func IsAllowedFileType(ext string) bool {
	for _, t := range AllowedFileTypes {
		if t == ext {
			return true
		}
	}
	return false
}
