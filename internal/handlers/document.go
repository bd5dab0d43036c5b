package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/dkeita/ecole-portal/internal/auth"
	"github.com/dkeita/ecole-portal/internal/httpx"
	"github.com/dkeita/ecole-portal/internal/i18n"
	"github.com/dkeita/ecole-portal/internal/models"
	"github.com/dkeita/ecole-portal/internal/policy"
	"github.com/dkeita/ecole-portal/internal/services"
	"github.com/dkeita/ecole-portal/internal/storage"
	"github.com/dkeita/ecole-portal/internal/validation"
	"github.com/dkeita/ecole-portal/internal/view"
)

const documentsPerPage = 10

type DocumentHandler struct {
	svc   *services.DocumentService
	guard policy.Policy
}

func NewDocumentHandler(db *gorm.DB, store *storage.LocalStorage) *DocumentHandler {
	return &DocumentHandler{
		svc: services.NewDocumentService(db, store),
		// anyone logged in may read and download, only the owner mutates
		guard: policy.NewOpenReadPolicy(policy.NewOwnershipPolicy()),
	}
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	p := page(r)
	docs, total, err := h.svc.List(p, documentsPerPage)
	if err != nil {
		http.Error(w, "failed to load documents", http.StatusInternalServerError)
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	view.Render(w, r, "documents/index.html", map[string]any{
		"Documents": docs,
		"Page":      p,
		"Total":     total,
		"PerPage":   documentsPerPage,
		"UserID":    userID,
	})
}

func (h *DocumentHandler) Show(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.authorize(w, r, policy.ActionView)
	if !ok {
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	view.Render(w, r, "documents/show.html", map[string]any{
		"Document": doc,
		"UserID":   userID,
	})
}

// Download streams the stored file under its original filename.
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.authorize(w, r, policy.ActionDownload)
	if !ok {
		return
	}
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", doc.OriginalFilename))
	http.ServeFile(w, r, h.svc.FullPath(doc))
}

func (h *DocumentHandler) New(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, "documents/new.html", map[string]any{
		"Form": services.DocumentInput{},
	})
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	in, fileHeader, v := documentForm(r, true)
	if !v.Empty() {
		view.Render(w, r, "documents/new.html", map[string]any{"Form": in, "Errors": v})
		return
	}

	if _, err := h.svc.Create(in, fileHeader, userID); err != nil {
		http.Error(w, "failed to create document", http.StatusInternalServerError)
		return
	}

	httpx.SetFlash(w, "success", i18n.T(i18n.Lang(r.Context()), "document_created"))
	http.Redirect(w, r, "/documents", http.StatusSeeOther)
}

func (h *DocumentHandler) Edit(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.authorize(w, r, policy.ActionUpdate)
	if !ok {
		return
	}
	view.Render(w, r, "documents/edit.html", map[string]any{
		"Document": doc,
		"Form": services.DocumentInput{
			TitleFR: doc.TitleIn("fr"),
			TitleEN: doc.TitleIn("en"),
		},
	})
}

func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.authorize(w, r, policy.ActionUpdate)
	if !ok {
		return
	}

	in, fileHeader, v := documentForm(r, false)
	if !v.Empty() {
		view.Render(w, r, "documents/edit.html", map[string]any{"Document": doc, "Form": in, "Errors": v})
		return
	}

	if _, err := h.svc.Update(doc, in, fileHeader); err != nil {
		http.Error(w, "failed to update document", http.StatusInternalServerError)
		return
	}

	httpx.SetFlash(w, "success", i18n.T(i18n.Lang(r.Context()), "document_updated"))
	http.Redirect(w, r, "/documents", http.StatusSeeOther)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.authorize(w, r, policy.ActionDelete)
	if !ok {
		return
	}
	if err := h.svc.Delete(doc); err != nil {
		http.Error(w, "failed to delete document", http.StatusInternalServerError)
		return
	}

	httpx.SetFlash(w, "success", i18n.T(i18n.Lang(r.Context()), "document_deleted"))
	http.Redirect(w, r, "/documents", http.StatusSeeOther)
}

func (h *DocumentHandler) load(w http.ResponseWriter, r *http.Request) (*models.Document, bool) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r)
		return nil, false
	}
	doc, err := h.svc.Get(id)
	if errors.Is(err, services.ErrNotFound) {
		notFound(w, r)
		return nil, false
	}
	if err != nil {
		http.Error(w, "failed to load document", http.StatusInternalServerError)
		return nil, false
	}
	return doc, true
}

func (h *DocumentHandler) authorize(w http.ResponseWriter, r *http.Request, action policy.Action) (*models.Document, bool) {
	doc, ok := h.load(w, r)
	if !ok {
		return nil, false
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	if !h.guard.Can(r.Context(), userID, action, doc) {
		forbidden(w, r)
		return nil, false
	}
	return doc, true
}

// documentForm parses the multipart form and validates titles and file.
// fileRequired distinguishes create (upload mandatory) from update.
func documentForm(r *http.Request, fileRequired bool) (services.DocumentInput, *multipart.FileHeader, validation.Violations) {
	v := make(validation.Violations)
	// one extra MB so oversized uploads still parse and fail validation
	_ = r.ParseMultipartForm(models.MaxFileSize + 1<<20)

	in := services.DocumentInput{
		TitleFR: r.FormValue("title_fr"),
		TitleEN: r.FormValue("title_en"),
	}
	validation.Required("title_fr", in.TitleFR, v)
	validation.Required("title_en", in.TitleEN, v)
	validation.MaxLen("title_fr", in.TitleFR, 255, v)
	validation.MaxLen("title_en", in.TitleEN, 255, v)

	var fileHeader *multipart.FileHeader
	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["file"]; len(files) > 0 {
			fileHeader = files[0]
		}
	}
	if fileHeader == nil {
		if fileRequired {
			v["file"] = "file_required"
		}
		return in, nil, v
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
	if !models.IsAllowedFileType(ext) {
		v["file"] = "invalid_file_type"
	}
	if fileHeader.Size > models.MaxFileSize {
		v["file"] = "file_too_large"
	}
	return in, fileHeader, v
}
