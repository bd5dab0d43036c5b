package handlers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/dkeita/ecole-portal/internal/auth"
	"github.com/dkeita/ecole-portal/internal/httpx"
	"github.com/dkeita/ecole-portal/internal/i18n"
	"github.com/dkeita/ecole-portal/internal/models"
	"github.com/dkeita/ecole-portal/internal/validation"
	"github.com/dkeita/ecole-portal/internal/view"
)

const usersPerPage = 20

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	p := page(r)

	var total int64
	if err := h.db.Model(&models.User{}).Count(&total).Error; err != nil {
		http.Error(w, "failed to load users", http.StatusInternalServerError)
		return
	}

	var users []models.User
	err := h.db.Order("name").
		Limit(usersPerPage).Offset((p - 1) * usersPerPage).
		Find(&users).Error
	if err != nil {
		http.Error(w, "failed to load users", http.StatusInternalServerError)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	view.Render(w, r, "users/index.html", map[string]any{
		"Users":   users,
		"Page":    p,
		"Total":   total,
		"PerPage": usersPerPage,
		"UserID":  userID,
	})
}

func (h *UserHandler) Show(w http.ResponseWriter, r *http.Request) {
	user, ok := h.load(w, r)
	if !ok {
		return
	}
	view.Render(w, r, "users/show.html", map[string]any{"User": user})
}

func (h *UserHandler) Edit(w http.ResponseWriter, r *http.Request) {
	user, ok := h.load(w, r)
	if !ok {
		return
	}
	view.Render(w, r, "users/edit.html", map[string]any{"User": user})
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.load(w, r)
	if !ok {
		return
	}

	name := r.FormValue("name")
	email := r.FormValue("email")

	v := make(validation.Violations)
	validation.Required("name", name, v)
	validation.Required("email", email, v)
	validation.MaxLen("name", name, 255, v)
	validation.Email("email", email, v)
	if v["email"] == "" && email != "" {
		var count int64
		h.db.Model(&models.User{}).Where("email = ? AND id <> ?", email, user.ID).Count(&count)
		if count > 0 {
			v["email"] = "email_taken"
		}
	}
	if !v.Empty() {
		user.Name, user.Email = name, email
		view.Render(w, r, "users/edit.html", map[string]any{"User": user, "Errors": v})
		return
	}

	err := h.db.Model(user).Updates(map[string]any{"name": name, "email": email}).Error
	if err != nil {
		http.Error(w, "failed to update user", http.StatusInternalServerError)
		return
	}

	httpx.SetFlash(w, "success", i18n.T(i18n.Lang(r.Context()), "user_updated"))
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// Delete removes the account. Student records owned by the user are kept
// but detached, so the roster survives account churn.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.load(w, r)
	if !ok {
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Student{}).
			Where("user_id = ?", user.ID).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		http.Error(w, "failed to delete user", http.StatusInternalServerError)
		return
	}

	// deleting yourself ends the session
	if current, _ := auth.UserIDFromContext(r.Context()); current == user.ID {
		auth.ClearSession(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	httpx.SetFlash(w, "success", i18n.T(i18n.Lang(r.Context()), "user_deleted"))
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

func (h *UserHandler) load(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r)
		return nil, false
	}
	var user models.User
	err := h.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		notFound(w, r)
		return nil, false
	}
	if err != nil {
		http.Error(w, "failed to load user", http.StatusInternalServerError)
		return nil, false
	}
	return &user, true
}
