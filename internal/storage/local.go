// Package storage saves uploaded files on the local filesystem.
// Files are stored under generated UUID names; the original filename is
// kept by the caller as metadata only.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dkeita/ecole-portal/internal/logger"
)

// LocalStorage handles saving files below a base directory.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates the base directory if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory %s: %w", basePath, err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// StoredFile describes a saved upload.
type StoredFile struct {
	// Filename is the generated name on disk (uuid + extension).
	Filename string
	// Path is the path relative to the storage root, as persisted in the DB.
	Path string
}

// Save writes the uploaded file into subDir under a generated name.
func (ls *LocalStorage) Save(fileHeader *multipart.FileHeader, subDir string) (*StoredFile, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	dir := ls.basePath
	if subDir != "" {
		dir = filepath.Join(ls.basePath, subDir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create subdirectory: %w", err)
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	name := uuid.New().String() + ext
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, fmt.Errorf("create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("save file content: %w", err)
	}

	rel := name
	if subDir != "" {
		rel = filepath.Join(subDir, name)
	}
	logger.Info().Str("original", fileHeader.Filename).Str("stored_as", rel).Msg("file saved")
	return &StoredFile{Filename: name, Path: rel}, nil
}

// Delete removes a stored file. Missing files are not an error.
func (ls *LocalStorage) Delete(relPath string) error {
	if relPath == "" {
		return nil
	}
	err := os.Remove(ls.FullPath(relPath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete stored file %s: %w", relPath, err)
	}
	return nil
}

// FullPath resolves a stored relative path to an absolute filesystem path.
func (ls *LocalStorage) FullPath(relPath string) string {
	return filepath.Join(ls.basePath, filepath.Clean("/"+relPath))
}
