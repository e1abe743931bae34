package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is both a directory entry and a login principal.
// PasswordHash is write-only: it is never serialized and never exposed through the API.
type Employee struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Name         string    `gorm:"not null;index" json:"name" validate:"required"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	PasswordHash string    `gorm:"column:password;not null" json:"-" validate:"required"`
	Age          int       `gorm:"not null" json:"age" validate:"min=18,max=100"`
	Class        string    `gorm:"not null;index" json:"class" validate:"required"`
	Subjects     []string  `gorm:"serializer:json;type:text" json:"subjects"`
	Attendance   float64   `gorm:"not null" json:"attendance" validate:"min=0,max=100"`
	Role         Role      `gorm:"size:16;not null;index" json:"role" validate:"oneof=admin employee"`
	Flagged      bool      `gorm:"not null" json:"flagged"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Employee) TableName() string {
	return "employees"
}

// BeforeCreate assigns a UUID when the caller did not provide an identifier
func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// IsAdmin reports whether the employee holds the admin role
func (e *Employee) IsAdmin() bool {
	return e != nil && e.Role == RoleAdmin
}

// Sanitized returns a copy without the password hash
func (e Employee) Sanitized() Employee {
	e.PasswordHash = ""
	if e.Subjects != nil {
		e.Subjects = append(make([]string, 0, len(e.Subjects)), e.Subjects...)
	}
	return e
}

// NormalizeEmail trims and lower-cases an email so that lookups and the unique index agree
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
