package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

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

type StudentHandler struct {
	db    *gorm.DB
	svc   *services.StudentService
	guard policy.Policy
}

func NewStudentHandler(db *gorm.DB) *StudentHandler {
	isAdmin := func(ctx context.Context, userID uint) bool {
		var count int64
		db.Model(&models.User{}).Where("id = ? AND is_admin = ?", userID, true).Count(&count)
		return count > 0
	}
	return &StudentHandler{
		db:  db,
		svc: services.NewStudentService(db),
		// admins manage student records on behalf of their owners
		guard: policy.NewAdminBypassPolicy(policy.NewOwnershipPolicy(), isAdmin),
	}
}

// List is public, with search and sorting.
func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	f := services.StudentFilters{
		Search:    r.URL.Query().Get("search"),
		NameOrder: r.URL.Query().Get("name_order"),
		CityOrder: r.URL.Query().Get("city_order"),
		Page:      page(r),
		PerPage:   queryInt(r, "per_page", 10),
	}
	f.Normalize()

	students, total, err := h.svc.List(f)
	if err != nil {
		http.Error(w, "failed to load students", http.StatusInternalServerError)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	view.Render(w, r, "etudiants/index.html", map[string]any{
		"Students": students,
		"Filters":  f,
		"Page":     f.Page,
		"Total":    total,
		"PerPage":  f.PerPage,
		"UserID":   userID,
	})
}

// Show is public.
func (h *StudentHandler) Show(w http.ResponseWriter, r *http.Request) {
	student, ok := h.load(w, r)
	if !ok {
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	view.Render(w, r, "etudiants/show.html", map[string]any{
		"Student": student,
		"UserID":  userID,
	})
}

func (h *StudentHandler) New(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, "etudiants/new.html", map[string]any{
		"Form":   studentFormValues{},
		"Cities": h.cities(),
	})
}

func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	form := parseStudentForm(r)
	in, v := h.validateStudent(form, 0)
	if !v.Empty() {
		view.Render(w, r, "etudiants/new.html", map[string]any{"Form": form, "Errors": v, "Cities": h.cities()})
		return
	}

	if _, err := h.svc.Create(in); err != nil {
		http.Error(w, "failed to create student", http.StatusInternalServerError)
		return
	}

	httpx.SetFlash(w, "success", i18n.T(i18n.Lang(r.Context()), "student_created"))
	http.Redirect(w, r, "/etudiants", http.StatusSeeOther)
}

func (h *StudentHandler) Edit(w http.ResponseWriter, r *http.Request) {
	student, ok := h.authorize(w, r, policy.ActionUpdate)
	if !ok {
		return
	}
	view.Render(w, r, "etudiants/edit.html", map[string]any{
		"Student": student,
		"Form":    formFromStudent(student),
		"Cities":  h.cities(),
	})
}

func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	student, ok := h.authorize(w, r, policy.ActionUpdate)
	if !ok {
		return
	}

	form := parseStudentForm(r)
	in, v := h.validateStudent(form, student.ID)
	if !v.Empty() {
		view.Render(w, r, "etudiants/edit.html", map[string]any{"Student": student, "Form": form, "Errors": v, "Cities": h.cities()})
		return
	}

	if _, err := h.svc.Update(student, in); err != nil {
		http.Error(w, "failed to update student", http.StatusInternalServerError)
		return
	}

	httpx.SetFlash(w, "success", i18n.T(i18n.Lang(r.Context()), "student_updated"))
	http.Redirect(w, r, "/etudiants", http.StatusSeeOther)
}

func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	student, ok := h.authorize(w, r, policy.ActionDelete)
	if !ok {
		return
	}
	if err := h.svc.Delete(student); err != nil {
		http.Error(w, "failed to delete student", http.StatusInternalServerError)
		return
	}

	httpx.SetFlash(w, "success", i18n.T(i18n.Lang(r.Context()), "student_deleted"))
	http.Redirect(w, r, "/etudiants", http.StatusSeeOther)
}

func (h *StudentHandler) load(w http.ResponseWriter, r *http.Request) (*models.Student, bool) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r)
		return nil, false
	}
	student, err := h.svc.Get(id)
	if errors.Is(err, services.ErrNotFound) {
		notFound(w, r)
		return nil, false
	}
	if err != nil {
		http.Error(w, "failed to load student", http.StatusInternalServerError)
		return nil, false
	}
	return student, true
}

func (h *StudentHandler) authorize(w http.ResponseWriter, r *http.Request, action policy.Action) (*models.Student, bool) {
	student, ok := h.load(w, r)
	if !ok {
		return nil, false
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	if !h.guard.Can(r.Context(), userID, action, student) {
		forbidden(w, r)
		return nil, false
	}
	return student, true
}

func (h *StudentHandler) cities() []models.City {
	var cities []models.City
	h.db.Order("name").Find(&cities)
	return cities
}

// studentFormValues keeps raw strings so invalid submissions re-render
// with the user's input preserved.
type studentFormValues struct {
	Name      string
	Address   string
	Phone     string
	Email     string
	Birthdate string
	CityID    string
}

func parseStudentForm(r *http.Request) studentFormValues {
	return studentFormValues{
		Name:      r.FormValue("name"),
		Address:   r.FormValue("address"),
		Phone:     r.FormValue("phone"),
		Email:     r.FormValue("email"),
		Birthdate: r.FormValue("birthdate"),
		CityID:    r.FormValue("city_id"),
	}
}

func formFromStudent(s *models.Student) studentFormValues {
	return studentFormValues{
		Name:      s.Name,
		Address:   s.Address,
		Phone:     s.Phone,
		Email:     s.Email,
		Birthdate: s.Birthdate.Format("2006-01-02"),
		CityID:    strconv.FormatUint(uint64(s.CityID), 10),
	}
}

// validateStudent converts the raw form into a StudentInput, collecting
// violations. excludeID skips the email-uniqueness check for the student
// being updated.
func (h *StudentHandler) validateStudent(form studentFormValues, excludeID uint) (services.StudentInput, validation.Violations) {
	v := make(validation.Violations)
	validation.Required("name", form.Name, v)
	validation.Required("address", form.Address, v)
	validation.Required("phone", form.Phone, v)
	validation.Required("email", form.Email, v)
	validation.MaxLen("name", form.Name, 255, v)
	validation.MaxLen("address", form.Address, 255, v)
	validation.MaxLen("phone", form.Phone, 50, v)
	validation.Email("email", form.Email, v)
	validation.Required("birthdate", form.Birthdate, v)

	var birthdate time.Time
	if form.Birthdate != "" {
		birthdate = validation.DateBefore("birthdate", form.Birthdate, time.Now(), v)
	}

	var cityID uint
	if form.CityID == "" {
		v["city_id"] = "required"
	} else {
		id := queryUint(form.CityID)
		if id == 0 {
			v["city_id"] = "unknown_city"
		} else {
			var count int64
			h.db.Model(&models.City{}).Where("id = ?", id).Count(&count)
			if count == 0 {
				v["city_id"] = "unknown_city"
			} else {
				cityID = id
			}
		}
	}

	if form.Email != "" && v["email"] == "" {
		q := h.db.Model(&models.Student{}).Where("email = ?", form.Email)
		if excludeID != 0 {
			q = q.Where("id <> ?", excludeID)
		}
		var count int64
		q.Count(&count)
		if count > 0 {
			v["email"] = "email_taken"
		}
	}

	return services.StudentInput{
		Name:      form.Name,
		Address:   form.Address,
		Phone:     form.Phone,
		Email:     form.Email,
		Birthdate: birthdate,
		CityID:    cityID,
	}, v
}
