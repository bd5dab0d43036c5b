package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeita/ecole-portal/internal/models"
)

func studentInput(email string, cityID uint) StudentInput {
	return StudentInput{
		Name:      "Awa Diop",
		Address:   "12 rue des Érables",
		Phone:     "514-555-0001",
		Email:     email,
		Birthdate: time.Date(2001, 3, 14, 0, 0, 0, 0, time.UTC),
		CityID:    cityID,
	}
}

func TestFindOrCreateUserTagsResult(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStudentService(db)

	user, created, err := svc.FindOrCreateUser("a@b.com", "Awa Diop")
	require.NoError(t, err)
	assert.True(t, created, "first call must provision a new account")
	assert.Equal(t, "a@b.com", user.Email)
	assert.NotEmpty(t, user.Password, "provisioned users get a random hashed password")

	again, created, err := svc.FindOrCreateUser("a@b.com", "Someone Else")
	require.NoError(t, err)
	assert.False(t, created, "second call must reuse the account")
	assert.Equal(t, user.ID, again.ID)

	var count int64
	db.Model(&models.User{}).Where("email = ?", "a@b.com").Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCreateStudentProvisionsUser(t *testing.T) {
	db := setupTestDB(t)
	city := seedCity(t, db, "Montréal")
	svc := NewStudentService(db)

	student, err := svc.Create(studentInput("a@b.com", city.ID))
	require.NoError(t, err)
	require.NotNil(t, student.UserID)

	var user models.User
	require.NoError(t, db.First(&user, *student.UserID).Error)
	assert.Equal(t, "a@b.com", user.Email)
	assert.False(t, user.IsAdmin)
}

func TestUpdateStudentRelinksUserByEmail(t *testing.T) {
	db := setupTestDB(t)
	city := seedCity(t, db, "Laval")
	existing := seedUser(t, db, "deja@ecole.test")
	svc := NewStudentService(db)

	student, err := svc.Create(studentInput("a@b.com", city.ID))
	require.NoError(t, err)

	in := studentInput("deja@ecole.test", city.ID)
	updated, err := svc.Update(student, in)
	require.NoError(t, err)

	require.NotNil(t, updated.UserID)
	assert.Equal(t, existing.ID, *updated.UserID, "must reuse the existing account for the new email")
}

func TestListStudentsFilters(t *testing.T) {
	db := setupTestDB(t)
	montreal := seedCity(t, db, "Montréal")
	quebec := seedCity(t, db, "Québec")
	svc := NewStudentService(db)

	for _, s := range []struct {
		name  string
		email string
		city  uint
	}{
		{"Alice Tremblay", "alice@ecole.test", montreal.ID},
		{"Bruno Gagnon", "bruno@ecole.test", quebec.ID},
		{"Alicia Roy", "alicia@ecole.test", quebec.ID},
	} {
		in := studentInput(s.email, s.city)
		in.Name = s.name
		_, err := svc.Create(in)
		require.NoError(t, err)
	}

	// Substring search on name.
	students, total, err := svc.List(StudentFilters{Search: "Alic"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, students, 2)

	// Name ordering.
	students, _, err = svc.List(StudentFilters{NameOrder: "desc"})
	require.NoError(t, err)
	require.Len(t, students, 3)
	assert.Equal(t, "Bruno Gagnon", students[0].Name)

	// Unknown order directions are dropped, per_page is clamped.
	f := StudentFilters{NameOrder: "drop table", PerPage: 5000}
	f.Normalize()
	assert.Empty(t, f.NameOrder)
	assert.Equal(t, 100, f.PerPage)
}
