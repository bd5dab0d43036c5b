package handlers

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dkeita/ecole-portal/internal/auth"
	"github.com/dkeita/ecole-portal/internal/httpx"
	"github.com/dkeita/ecole-portal/internal/i18n"
	"github.com/dkeita/ecole-portal/internal/models"
	"github.com/dkeita/ecole-portal/internal/validation"
	"github.com/dkeita/ecole-portal/internal/view"
)

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, "/etudiants", http.StatusSeeOther)
		return
	}
	view.Render(w, r, "login.html", map[string]any{"Email": "", "Error": ""})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	var user models.User
	err := h.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		(err == nil && bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil) {
		view.Render(w, r, "login.html", map[string]any{
			"Email": email,
			"Error": i18n.T(i18n.Lang(r.Context()), "invalid_credentials"),
		})
		return
	}
	if err != nil {
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	auth.CreateSession(w, user.ID)
	http.Redirect(w, r, "/etudiants", http.StatusSeeOther)
}

func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, "/etudiants", http.StatusSeeOther)
		return
	}
	view.Render(w, r, "signup.html", map[string]any{"Name": "", "Email": ""})
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	email := r.FormValue("email")
	password := r.FormValue("password")

	v := make(validation.Violations)
	validation.Required("name", name, v)
	validation.Required("email", email, v)
	validation.MaxLen("name", name, 255, v)
	validation.Email("email", email, v)
	validation.Required("password", password, v)
	validation.MinLen("password", password, 8, v)

	if v.Empty() {
		var count int64
		h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
		if count > 0 {
			v["email"] = "email_taken"
		}
	}
	if !v.Empty() {
		view.Render(w, r, "signup.html", map[string]any{
			"Name": name, "Email": email, "Errors": v,
		})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "signup failed", http.StatusInternalServerError)
		return
	}
	user := models.User{Name: name, Email: email, Password: string(hashed)}
	if err := h.db.Create(&user).Error; err != nil {
		http.Error(w, "signup failed", http.StatusInternalServerError)
		return
	}

	auth.CreateSession(w, user.ID)
	httpx.SetFlash(w, "success", i18n.T(i18n.Lang(r.Context()), "signup_done"))
	http.Redirect(w, r, "/etudiants", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
