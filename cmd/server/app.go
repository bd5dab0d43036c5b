package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/dkeita/ecole-portal/internal/auth"
	"github.com/dkeita/ecole-portal/internal/handlers"
	"github.com/dkeita/ecole-portal/internal/httpx"
	"github.com/dkeita/ecole-portal/internal/i18n"
	"github.com/dkeita/ecole-portal/internal/storage"
	"github.com/dkeita/ecole-portal/internal/view"
)

func init() {
	view.SetFlashResolver(flashFrom)
}

type flashCtxKey struct{}

func flashFrom(r *http.Request) *httpx.Flash {
	f, _ := r.Context().Value(flashCtxKey{}).(*httpx.Flash)
	return f
}

// prefs resolves the UI language and the article view-locale for the
// request and pops the pending flash message into the context.
//
// Language resolution order: lang cookie, ?lang= query, Accept-Language,
// default. Only supported codes are accepted at each step.
func prefs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if c, err := r.Cookie(handlers.LangCookie); err == nil && i18n.IsSupported(c.Value) {
			lang = c.Value
		}
		if lang == "" {
			if q := r.URL.Query().Get("lang"); i18n.IsSupported(q) {
				lang = q
			}
		}
		if lang == "" {
			lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		}
		ctx := i18n.WithLang(r.Context(), lang)

		if c, err := r.Cookie(handlers.ViewLocaleCookie); err == nil && i18n.IsSupported(c.Value) {
			ctx = i18n.WithViewLocale(ctx, c.Value)
		}

		if f := httpx.PopFlash(w, r); f != nil {
			ctx = context.WithValue(ctx, flashCtxKey{}, f)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// NewApp wires every route of the application.
func NewApp(db *gorm.DB, store *storage.LocalStorage) http.Handler {
	articleH := handlers.NewArticleHandler(db)
	documentH := handlers.NewDocumentHandler(db, store)
	studentH := handlers.NewStudentHandler(db)
	userH := handlers.NewUserHandler(db)
	authH := handlers.NewAuthHandler(db)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/etudiants", http.StatusSeeOther)
	})

	// auth
	mux.HandleFunc("GET /login", authH.LoginForm)
	mux.HandleFunc("POST /login", authH.Login)
	mux.HandleFunc("GET /signup", authH.SignupForm)
	mux.HandleFunc("POST /signup", authH.Signup)
	mux.HandleFunc("POST /logout", authH.Logout)
	mux.HandleFunc("GET /logout", authH.Logout)

	// locale switch
	mux.HandleFunc("GET /locale/{code}", handlers.ChangeLocale)

	// public reads
	mux.HandleFunc("GET /articles", articleH.List)
	mux.HandleFunc("GET /articles/{id}", articleH.Show)
	mux.HandleFunc("GET /etudiants", studentH.List)
	mux.HandleFunc("GET /etudiants/{id}", studentH.Show)

	// authenticated routes
	requireAuth := func(h http.HandlerFunc) http.Handler {
		return auth.RequireAuth(h)
	}

	mux.Handle("GET /articles/new", requireAuth(articleH.New))
	mux.Handle("POST /articles", requireAuth(articleH.Create))
	mux.Handle("GET /articles/{id}/edit", requireAuth(articleH.Edit))
	mux.Handle("POST /articles/{id}", requireAuth(articleH.Update))
	mux.Handle("POST /articles/{id}/delete", requireAuth(articleH.Delete))

	mux.Handle("GET /documents", requireAuth(documentH.List))
	mux.Handle("GET /documents/new", requireAuth(documentH.New))
	mux.Handle("POST /documents", requireAuth(documentH.Create))
	mux.Handle("GET /documents/{id}", requireAuth(documentH.Show))
	mux.Handle("GET /documents/{id}/download", requireAuth(documentH.Download))
	mux.Handle("GET /documents/{id}/edit", requireAuth(documentH.Edit))
	mux.Handle("POST /documents/{id}", requireAuth(documentH.Update))
	mux.Handle("POST /documents/{id}/delete", requireAuth(documentH.Delete))

	mux.Handle("GET /etudiants/new", requireAuth(studentH.New))
	mux.Handle("POST /etudiants", requireAuth(studentH.Create))
	mux.Handle("GET /etudiants/{id}/edit", requireAuth(studentH.Edit))
	mux.Handle("POST /etudiants/{id}", requireAuth(studentH.Update))
	mux.Handle("POST /etudiants/{id}/delete", requireAuth(studentH.Delete))

	mux.Handle("GET /users", requireAuth(userH.List))
	mux.Handle("GET /users/{id}", requireAuth(userH.Show))
	mux.Handle("GET /users/{id}/edit", requireAuth(userH.Edit))
	mux.Handle("POST /users/{id}", requireAuth(userH.Update))
	mux.Handle("POST /users/{id}/delete", requireAuth(userH.Delete))

	mux.Handle("GET /static/", staticHandler())

	// The view-locale switch lives under /articles/ where the pattern mux
	// cannot disambiguate it from /articles/{id}/edit, so it is matched
	// before dispatch.
	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const viewLocalePrefix = "/articles/view-locale/"
		if r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, viewLocalePrefix) {
			r.SetPathValue("code", strings.TrimPrefix(r.URL.Path, viewLocalePrefix))
			articleH.ChangeViewLocale(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	})

	return prefs(auth.Middleware(root))
}

func staticHandler() http.Handler {
	fs := http.FileServer(http.Dir("static"))
	return http.StripPrefix("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if os.Getenv("DEV") == "1" {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		} else {
			// versioned assets carry a content hash in the query string
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		}
		fs.ServeHTTP(w, r)
	}))
}
