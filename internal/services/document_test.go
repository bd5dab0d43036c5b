package services

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeita/ecole-portal/internal/models"
	"github.com/dkeita/ecole-portal/internal/storage"
)

func makeFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["file"][0]
}

func newDocumentService(t *testing.T) (*DocumentService, *storage.LocalStorage, uint) {
	t.Helper()
	db := setupTestDB(t)
	user := seedUser(t, db, "owner@ecole.test")
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewDocumentService(db, store), store, user.ID
}

func TestCreateDocumentStoresFileAndTranslations(t *testing.T) {
	svc, store, userID := newDocumentService(t)

	in := DocumentInput{TitleFR: "Notes de cours", TitleEN: "Lecture notes"}
	doc, err := svc.Create(in, makeFileHeader(t, "notes.pdf", "pdf bytes"), userID)
	require.NoError(t, err)

	assert.Equal(t, "notes.pdf", doc.OriginalFilename)
	assert.Equal(t, "pdf", doc.FileType)
	assert.NotEqual(t, "notes.pdf", doc.Filename, "stored name is generated")

	assert.Equal(t, "Notes de cours", doc.TitleIn("fr"))
	assert.Equal(t, "Lecture notes", doc.TitleIn("en"))

	b, err := os.ReadFile(store.FullPath(doc.FilePath))
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(b))
}

func TestUpdateDocumentReplacesFile(t *testing.T) {
	svc, store, userID := newDocumentService(t)

	in := DocumentInput{TitleFR: "Notes", TitleEN: "Notes"}
	doc, err := svc.Create(in, makeFileHeader(t, "v1.pdf", "v1"), userID)
	require.NoError(t, err)
	oldPath := doc.FilePath

	in.TitleEN = "Notes v2"
	updated, err := svc.Update(doc, in, makeFileHeader(t, "v2.zip", "v2"))
	require.NoError(t, err)

	assert.Equal(t, "v2.zip", updated.OriginalFilename)
	assert.Equal(t, "zip", updated.FileType)
	assert.Equal(t, "Notes v2", updated.TitleIn("en"))

	_, err = os.Stat(store.FullPath(oldPath))
	assert.True(t, os.IsNotExist(err), "old file must be deleted on replacement")

	b, err := os.ReadFile(store.FullPath(updated.FilePath))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(b))
}

func TestUpdateDocumentWithoutFileKeepsStored(t *testing.T) {
	svc, store, userID := newDocumentService(t)

	doc, err := svc.Create(DocumentInput{TitleFR: "A", TitleEN: "B"}, makeFileHeader(t, "a.doc", "doc"), userID)
	require.NoError(t, err)

	updated, err := svc.Update(doc, DocumentInput{TitleFR: "A2", TitleEN: "B2"}, nil)
	require.NoError(t, err)

	assert.Equal(t, doc.FilePath, updated.FilePath)
	assert.Equal(t, "A2", updated.TitleIn("fr"))
	_, err = os.Stat(store.FullPath(updated.FilePath))
	assert.NoError(t, err)
}

func TestDeleteDocumentRemovesFileAndRows(t *testing.T) {
	svc, store, userID := newDocumentService(t)

	doc, err := svc.Create(DocumentInput{TitleFR: "A", TitleEN: "B"}, makeFileHeader(t, "a.zip", "zip"), userID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(doc))

	_, err = os.Stat(store.FullPath(doc.FilePath))
	assert.True(t, os.IsNotExist(err))

	_, err = svc.Get(doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var db = svc.db
	var count int64
	db.Model(&models.DocumentTranslation{}).Where("document_id = ?", doc.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestDocumentSyncUpsertsSingleRowPerLocale(t *testing.T) {
	svc, _, userID := newDocumentService(t)

	doc, err := svc.Create(DocumentInput{TitleFR: "A", TitleEN: "B"}, makeFileHeader(t, "a.pdf", "x"), userID)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = svc.Update(doc, DocumentInput{TitleFR: "A", TitleEN: "B"}, nil)
		require.NoError(t, err)
	}

	var count int64
	svc.db.Model(&models.DocumentTranslation{}).Where("document_id = ?", doc.ID).Count(&count)
	assert.EqualValues(t, 2, count)
}
