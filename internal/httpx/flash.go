package httpx

import (
	"net/http"
	"net/url"
	"strings"
)

const flashCookie = "flash"

// Flash is a one-shot message displayed on the next rendered page.
type Flash struct {
	Kind    string // success, error, warning, info
	Message string
}

// SetFlash stores a one-shot message in the flash cookie.
// The message must already be translated for the current UI language.
func SetFlash(w http.ResponseWriter, kind, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:  flashCookie,
		Value: url.QueryEscape(kind + "|" + message),
		Path:  "/",
	})
}

// PopFlash reads and clears the flash cookie. Returns nil when absent.
func PopFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})

	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}
	kind, msg, ok := strings.Cut(raw, "|")
	if !ok {
		return &Flash{Kind: "info", Message: raw}
	}
	return &Flash{Kind: kind, Message: msg}
}
