package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/dkeita/ecole-portal/internal/auth"
)

func validArticleValues() url.Values {
	return url.Values{
		"title_fr":   {"Bonjour modifié"},
		"content_fr": {"Contenu en français assez long"},
		"title_en":   {"Hello updated"},
		"content_en": {"English content long enough"},
		"language":   {"fr"},
	}
}

func TestArticleUpdateOwnerRedirects(t *testing.T) {
	db := setupHandlerDB(t)
	owner := seedHandlerUser(t, db, "owner@test.local", false)
	article := seedHandlerArticle(t, db, owner.ID)
	h := NewArticleHandler(db)

	req := formRequest("/articles/1", article.ID, validArticleValues())
	req = req.WithContext(auth.WithUserID(req.Context(), owner.ID))
	w := httptest.NewRecorder()
	h.Update(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d body=%s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/articles" {
		t.Fatalf("expected redirect to /articles got %q", loc)
	}

	updated, err := h.svc.Get(article.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if updated.TitleIn("en") != "Hello updated" {
		t.Fatalf("english title not updated: %q", updated.TitleIn("en"))
	}
}

func TestArticleUpdateNonOwnerForbidden(t *testing.T) {
	db := setupHandlerDB(t)
	owner := seedHandlerUser(t, db, "owner@test.local", false)
	other := seedHandlerUser(t, db, "other@test.local", false)
	article := seedHandlerArticle(t, db, owner.ID)
	h := NewArticleHandler(db)

	req := formRequest("/articles/1", article.ID, validArticleValues())
	req = req.WithContext(auth.WithUserID(req.Context(), other.ID))
	w := httptest.NewRecorder()
	h.Update(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", w.Code)
	}

	kept, err := h.svc.Get(article.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if kept.TitleIn("fr") != "Bonjour" {
		t.Fatalf("article modified despite 403: %q", kept.TitleIn("fr"))
	}
}

func TestArticleDeleteMissingIsNotFound(t *testing.T) {
	db := setupHandlerDB(t)
	owner := seedHandlerUser(t, db, "owner@test.local", false)
	h := NewArticleHandler(db)

	req := formRequest("/articles/999", 999, nil)
	req = req.WithContext(auth.WithUserID(req.Context(), owner.ID))
	w := httptest.NewRecorder()
	h.Delete(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestChangeViewLocaleRejectsUnsupported(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewArticleHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/articles/view-locale/de", nil)
	req.SetPathValue("code", "de")
	w := httptest.NewRecorder()
	h.ChangeViewLocale(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == ViewLocaleCookie {
			t.Fatalf("cookie written despite unsupported locale")
		}
	}
}

func TestChangeViewLocaleSetsCookieAndRedirects(t *testing.T) {
	db := setupHandlerDB(t)
	h := NewArticleHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/articles/view-locale/en", nil)
	req.SetPathValue("code", "en")
	w := httptest.NewRecorder()
	h.ChangeViewLocale(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", w.Code)
	}
	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == ViewLocaleCookie && c.Value == "en" {
			found = true
		}
	}
	if !found {
		t.Fatalf("view locale cookie not set")
	}
}
