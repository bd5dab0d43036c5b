package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/dkeita/ecole-portal/internal/auth"
	"github.com/dkeita/ecole-portal/internal/models"
)

func studentValues(email string, cityID uint) url.Values {
	return url.Values{
		"name":      {"Alice Tremblay"},
		"address":   {"2 rue Nouvelle"},
		"phone":     {"514-555-0199"},
		"email":     {email},
		"birthdate": {"2000-01-15"},
		"city_id":   {strconv.FormatUint(uint64(cityID), 10)},
	}
}

func TestStudentUpdateNonOwnerForbidden(t *testing.T) {
	db := setupHandlerDB(t)
	owner := seedHandlerUser(t, db, "owner@test.local", false)
	other := seedHandlerUser(t, db, "other@test.local", false)
	student, city := seedHandlerStudent(t, db, &owner.ID)
	h := NewStudentHandler(db)

	req := formRequest("/etudiants/1", student.ID, studentValues(student.Email, city.ID))
	req = req.WithContext(auth.WithUserID(req.Context(), other.ID))
	w := httptest.NewRecorder()
	h.Update(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", w.Code)
	}
}

func TestStudentUpdateAdminBypassesOwnership(t *testing.T) {
	db := setupHandlerDB(t)
	owner := seedHandlerUser(t, db, "owner@test.local", false)
	admin := seedHandlerUser(t, db, "admin@test.local", true)
	student, city := seedHandlerStudent(t, db, &owner.ID)
	h := NewStudentHandler(db)

	req := formRequest("/etudiants/1", student.ID, studentValues(student.Email, city.ID))
	req = req.WithContext(auth.WithUserID(req.Context(), admin.ID))
	w := httptest.NewRecorder()
	h.Update(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d body=%s", w.Code, w.Body.String())
	}

	var reloaded models.Student
	if err := db.First(&reloaded, student.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Address != "2 rue Nouvelle" {
		t.Fatalf("address not updated: %q", reloaded.Address)
	}
}

func TestStudentCreateProvisionsOwner(t *testing.T) {
	db := setupHandlerDB(t)
	actor := seedHandlerUser(t, db, "actor@test.local", false)
	_, city := seedHandlerStudent(t, db, nil)
	h := NewStudentHandler(db)

	req := formRequest("/etudiants", 0, studentValues("newkid@test.local", city.ID))
	req = req.WithContext(auth.WithUserID(req.Context(), actor.ID))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d body=%s", w.Code, w.Body.String())
	}

	var user models.User
	if err := db.Where("email = ?", "newkid@test.local").First(&user).Error; err != nil {
		t.Fatalf("provisioned user missing: %v", err)
	}
	var student models.Student
	if err := db.Where("email = ?", "newkid@test.local").First(&student).Error; err != nil {
		t.Fatalf("student missing: %v", err)
	}
	if student.UserID == nil || *student.UserID != user.ID {
		t.Fatalf("student not linked to provisioned user")
	}
}
