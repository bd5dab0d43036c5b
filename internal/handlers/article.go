package handlers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/dkeita/ecole-portal/internal/auth"
	"github.com/dkeita/ecole-portal/internal/httpx"
	"github.com/dkeita/ecole-portal/internal/i18n"
	"github.com/dkeita/ecole-portal/internal/models"
	"github.com/dkeita/ecole-portal/internal/policy"
	"github.com/dkeita/ecole-portal/internal/services"
	"github.com/dkeita/ecole-portal/internal/validation"
	"github.com/dkeita/ecole-portal/internal/view"
)

const articlesPerPage = 10

// ViewLocaleCookie stores the per-session article display language,
// independent of the UI locale.
const ViewLocaleCookie = "article_view_locale"

type ArticleHandler struct {
	svc   *services.ArticleService
	guard policy.Policy
}

func NewArticleHandler(db *gorm.DB) *ArticleHandler {
	return &ArticleHandler{
		svc:   services.NewArticleService(db),
		guard: policy.NewOwnershipPolicy(),
	}
}

// List is public: guests may browse articles.
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	p := page(r)
	articles, total, err := h.svc.List(p, articlesPerPage)
	if err != nil {
		http.Error(w, "failed to load articles", http.StatusInternalServerError)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	view.Render(w, r, "articles/index.html", map[string]any{
		"Articles": articles,
		"Page":     p,
		"Total":    total,
		"PerPage":  articlesPerPage,
		"UserID":   userID,
	})
}

// Show is public.
func (h *ArticleHandler) Show(w http.ResponseWriter, r *http.Request) {
	article, ok := h.load(w, r)
	if !ok {
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	view.Render(w, r, "articles/show.html", map[string]any{
		"Article": article,
		"UserID":  userID,
	})
}

func (h *ArticleHandler) New(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, "articles/new.html", map[string]any{
		"Form": services.ArticleInput{Language: i18n.DefaultLocale},
	})
}

func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	in := articleForm(r)

	if v := validateArticle(in); !v.Empty() {
		view.Render(w, r, "articles/new.html", map[string]any{"Form": in, "Errors": v})
		return
	}

	if _, err := h.svc.Create(in, userID); err != nil {
		http.Error(w, "failed to create article", http.StatusInternalServerError)
		return
	}

	httpx.SetFlash(w, "success", i18n.T(i18n.Lang(r.Context()), "article_created"))
	http.Redirect(w, r, "/articles", http.StatusSeeOther)
}

func (h *ArticleHandler) Edit(w http.ResponseWriter, r *http.Request) {
	article, ok := h.authorize(w, r, policy.ActionUpdate)
	if !ok {
		return
	}
	view.Render(w, r, "articles/edit.html", map[string]any{
		"Article": article,
		"Form":    formFromArticle(article),
	})
}

func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	article, ok := h.authorize(w, r, policy.ActionUpdate)
	if !ok {
		return
	}
	in := articleForm(r)

	if v := validateArticle(in); !v.Empty() {
		view.Render(w, r, "articles/edit.html", map[string]any{"Article": article, "Form": in, "Errors": v})
		return
	}

	if _, err := h.svc.Update(article, in); err != nil {
		http.Error(w, "failed to update article", http.StatusInternalServerError)
		return
	}

	httpx.SetFlash(w, "success", i18n.T(i18n.Lang(r.Context()), "article_updated"))
	http.Redirect(w, r, "/articles", http.StatusSeeOther)
}

func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	article, ok := h.authorize(w, r, policy.ActionDelete)
	if !ok {
		return
	}
	if err := h.svc.Delete(article); err != nil {
		http.Error(w, "failed to delete article", http.StatusInternalServerError)
		return
	}

	httpx.SetFlash(w, "success", i18n.T(i18n.Lang(r.Context()), "article_deleted"))
	http.Redirect(w, r, "/articles", http.StatusSeeOther)
}

// ChangeViewLocale overwrites the article display language for the session.
// Unsupported codes are rejected before any cookie is written; the UI
// locale is never touched.
func (h *ArticleHandler) ChangeViewLocale(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if !i18n.IsSupported(code) {
		http.Error(w, "locale not supported", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     ViewLocaleCookie,
		Value:    code,
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.Back(w, r, "/articles")
}

// load fetches the article from the path id or writes a 404.
func (h *ArticleHandler) load(w http.ResponseWriter, r *http.Request) (*models.Article, bool) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r)
		return nil, false
	}
	article, err := h.svc.Get(id)
	if errors.Is(err, services.ErrNotFound) {
		notFound(w, r)
		return nil, false
	}
	if err != nil {
		http.Error(w, "failed to load article", http.StatusInternalServerError)
		return nil, false
	}
	return article, true
}

// authorize loads the article first, then checks ownership, so a non-owner
// sees 403 rather than 404.
func (h *ArticleHandler) authorize(w http.ResponseWriter, r *http.Request, action policy.Action) (*models.Article, bool) {
	article, ok := h.load(w, r)
	if !ok {
		return nil, false
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	if !h.guard.Can(r.Context(), userID, action, article) {
		forbidden(w, r)
		return nil, false
	}
	return article, true
}

func articleForm(r *http.Request) services.ArticleInput {
	return services.ArticleInput{
		TitleFR:   r.FormValue("title_fr"),
		ContentFR: r.FormValue("content_fr"),
		TitleEN:   r.FormValue("title_en"),
		ContentEN: r.FormValue("content_en"),
		Language:  r.FormValue("language"),
	}
}

func formFromArticle(a *models.Article) services.ArticleInput {
	in := services.ArticleInput{Language: a.Language}
	if tr := a.Translation("fr"); tr != nil {
		in.TitleFR, in.ContentFR = tr.Title, tr.Content
	} else {
		in.TitleFR, in.ContentFR = a.Title, a.Content
	}
	if tr := a.Translation("en"); tr != nil {
		in.TitleEN, in.ContentEN = tr.Title, tr.Content
	}
	return in
}

func validateArticle(in services.ArticleInput) validation.Violations {
	v := make(validation.Violations)
	validation.Required("title_fr", in.TitleFR, v)
	validation.Required("content_fr", in.ContentFR, v)
	validation.Required("title_en", in.TitleEN, v)
	validation.Required("content_en", in.ContentEN, v)
	validation.MaxLen("title_fr", in.TitleFR, 255, v)
	validation.MaxLen("title_en", in.TitleEN, 255, v)
	validation.MinLen("content_fr", in.ContentFR, 10, v)
	validation.MinLen("content_en", in.ContentEN, 10, v)
	validation.In("language", in.Language, i18n.SupportedLocales, "invalid_language", v)
	return v
}
