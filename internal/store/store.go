// Package store persists employee records. Two backends implement EmployeeStore:
// MongoDB for document deployments and GORM (PostgreSQL / SQLite) for relational ones.
package store

import (
	"context"
	"errors"

	"github.com/franciscosanchezn/gin-employee-api/internal/models"
)

var (
	// ErrNotFound is returned by Update when no record matches the id
	ErrNotFound = errors.New("employee not found")
	// ErrDuplicateEmail is returned when a write collides with the unique email index
	ErrDuplicateEmail = errors.New("email already exists")
)

// EmployeeStore is the persistence contract for employee records.
// Lookups that find nothing return (nil, nil). Listing and batch lookups never load password hashes.
type EmployeeStore interface {
	// Migrate creates the schema and the name, email (unique), role and class indexes
	Migrate(ctx context.Context) error
	// Ping checks the backend is reachable
	Ping(ctx context.Context) error

	List(ctx context.Context, q models.ListQuery) ([]models.Employee, int64, error)
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Employee, error)
	FindByEmail(ctx context.Context, email string) (*models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) error
	// Update writes the mutable fields (name, age, class, subjects, attendance, role, flagged)
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id string) (bool, error)
	// DeleteAll wipes the collection; used by the seed command
	DeleteAll(ctx context.Context) error
}

var (
	_ EmployeeStore = (*GormEmployeeStore)(nil)
	_ EmployeeStore = (*MongoEmployeeStore)(nil)
)
