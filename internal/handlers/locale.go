package handlers

import (
	"net/http"

	"github.com/dkeita/ecole-portal/internal/httpx"
	"github.com/dkeita/ecole-portal/internal/i18n"
)

// LangCookie stores the UI language preference.
const LangCookie = "lang"

// ChangeLocale switches the UI language. Unsupported codes are rejected
// with 400 before any cookie is written.
func ChangeLocale(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if !i18n.IsSupported(code) {
		http.Error(w, "locale not supported", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookie,
		Value:    code,
		Path:     "/",
		MaxAge:   86400 * 365,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.Back(w, r, "/")
}
