package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dkeita/ecole-portal/internal/models"
)

// StudentFilters narrows and orders the student list.
type StudentFilters struct {
	Search    string // name substring
	NameOrder string // asc / desc / empty
	CityOrder string // asc / desc / empty
	Page      int
	PerPage   int
}

const (
	perPageDefault = 10
	perPageMin     = 10
	perPageMax     = 100
)

// Normalize clamps pagination and drops unknown sort directions.
func (f *StudentFilters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage == 0 {
		f.PerPage = perPageDefault
	}
	if f.PerPage < perPageMin {
		f.PerPage = perPageMin
	}
	if f.PerPage > perPageMax {
		f.PerPage = perPageMax
	}
	if f.NameOrder != "asc" && f.NameOrder != "desc" {
		f.NameOrder = ""
	}
	if f.CityOrder != "asc" && f.CityOrder != "desc" {
		f.CityOrder = ""
	}
}

// StudentInput carries a validated student form.
type StudentInput struct {
	Name      string
	Address   string
	Phone     string
	Email     string
	Birthdate time.Time
	CityID    uint
}

type StudentService struct {
	db *gorm.DB
}

func NewStudentService(db *gorm.DB) *StudentService {
	return &StudentService{db: db}
}

// List returns one page of students with their city loaded.
func (s *StudentService) List(f StudentFilters) ([]models.Student, int64, error) {
	f.Normalize()

	q := s.db.Model(&models.Student{})
	if f.Search != "" {
		q = q.Where("students.name LIKE ?", "%"+f.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.CityOrder != "" {
		q = q.Joins("LEFT JOIN cities ON cities.id = students.city_id").
			Order("cities.name " + f.CityOrder)
	}
	if f.NameOrder != "" {
		q = q.Order("students.name " + f.NameOrder)
	}

	var students []models.Student
	err := q.Preload("City").
		Limit(f.PerPage).Offset((f.Page - 1) * f.PerPage).
		Find(&students).Error
	return students, total, err
}

// Get loads one student with city and owning user.
func (s *StudentService) Get(id uint) (*models.Student, error) {
	var student models.Student
	err := s.db.Preload("City").Preload("User").First(&student, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Create writes the student and links it to the user account matching its
// email, provisioning one when none exists.
func (s *StudentService) Create(in StudentInput) (*models.Student, error) {
	user, _, err := s.FindOrCreateUser(in.Email, in.Name)
	if err != nil {
		return nil, err
	}

	student := models.Student{
		Name:      in.Name,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
		Birthdate: in.Birthdate,
		CityID:    in.CityID,
		UserID:    &user.ID,
	}
	if err := s.db.Create(&student).Error; err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	return s.Get(student.ID)
}

// Update overwrites the student and re-resolves its owning user from the
// (possibly changed) email.
func (s *StudentService) Update(student *models.Student, in StudentInput) (*models.Student, error) {
	user, _, err := s.FindOrCreateUser(in.Email, in.Name)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"name":      in.Name,
		"address":   in.Address,
		"phone":     in.Phone,
		"email":     in.Email,
		"birthdate": in.Birthdate,
		"city_id":   in.CityID,
		"user_id":   user.ID,
	}
	if err := s.db.Model(student).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update student: %w", err)
	}
	return s.Get(student.ID)
}

// Delete removes the student record. The linked user account survives.
func (s *StudentService) Delete(student *models.Student) error {
	return s.db.Delete(student).Error
}

// FindOrCreateUser looks up a user by email and provisions one with a
// random password when absent. The bool reports whether the user was
// newly created, so callers can tell provisioning from reuse.
func (s *StudentService) FindOrCreateUser(email, name string) (*models.User, bool, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash generated password: %w", err)
	}
	user = models.User{Email: email, Name: name, Password: string(hashed)}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, false, fmt.Errorf("provision user for %s: %w", email, err)
	}
	return &user, true, nil
}
