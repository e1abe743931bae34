package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-employee-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// mutableColumns are the only columns Update ever writes
var mutableColumns = []string{"name", "age", "class", "subjects", "attendance", "role", "flagged", "updated_at"}

// GormEmployeeStore keeps employees in a relational database through GORM
type GormEmployeeStore struct {
	db *gorm.DB
}

// NewGormEmployeeStore creates a store backed by db
func NewGormEmployeeStore(db *gorm.DB) *GormEmployeeStore {
	return &GormEmployeeStore{db: db}
}

func (s *GormEmployeeStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&models.Employee{})
}

func (s *GormEmployeeStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormEmployeeStore) List(ctx context.Context, q models.ListQuery) ([]models.Employee, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Employee{}).Scopes(filterScope(q.Filter, s.db.Dialector.Name())).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}

	column, ok := q.Sort.Field.Column()
	if !ok {
		column, _ = models.DefaultSort.Field.Column()
	}

	var employees []models.Employee
	err := s.db.WithContext(ctx).
		Omit("password").
		Scopes(filterScope(q.Filter, s.db.Dialector.Name())).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: q.Sort.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: q.Sort.Desc}).
		Offset(q.Skip).
		Limit(q.Limit).
		Find(&employees).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}
	return employees, total, nil
}

// subjectMatchSQL matches when any element of the subjects JSON array contains the pattern
func subjectMatchSQL(dialect string) string {
	if dialect == "postgres" {
		return "EXISTS (SELECT 1 FROM jsonb_array_elements_text(employees.subjects::jsonb) AS s(value) WHERE LOWER(s.value) LIKE ? ESCAPE '!')"
	}
	return "EXISTS (SELECT 1 FROM json_each(employees.subjects) AS s WHERE LOWER(s.value) LIKE ? ESCAPE '!')"
}

// filterScope translates an EmployeeFilter into WHERE conditions
func filterScope(f models.EmployeeFilter, dialect string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Role != nil {
			db = db.Where("role = ?", string(*f.Role))
		}
		if f.Class != nil {
			db = db.Where("class = ?", *f.Class)
		}
		if f.Flagged != nil {
			db = db.Where("flagged = ?", *f.Flagged)
		}
		if f.Search != "" {
			like := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
			db = db.Where("(LOWER(name) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!' OR LOWER(class) LIKE ? ESCAPE '!' OR "+subjectMatchSQL(dialect)+")",
				like, like, like, like)
		}
		return db
	}
}

// escapeLike makes user input match literally inside a LIKE pattern
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

func (s *GormEmployeeStore) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	var employee models.Employee
	err := s.db.WithContext(ctx).Omit("password").Where("id = ?", id).First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find employee %s: %w", id, err)
	}
	return &employee, nil
}

func (s *GormEmployeeStore) FindByIDs(ctx context.Context, ids []string) ([]models.Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var employees []models.Employee
	if err := s.db.WithContext(ctx).Omit("password").Where("id IN ?", ids).Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("find employees by id: %w", err)
	}
	return employees, nil
}

// FindByEmail is the only lookup that loads the password hash
func (s *GormEmployeeStore) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var employee models.Employee
	err := s.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find employee by email: %w", err)
	}
	return &employee, nil
}

func (s *GormEmployeeStore) Create(ctx context.Context, employee *models.Employee) error {
	err := s.db.WithContext(ctx).Create(employee).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

func (s *GormEmployeeStore) Update(ctx context.Context, employee *models.Employee) error {
	employee.UpdatedAt = time.Now()
	result := s.db.WithContext(ctx).
		Model(&models.Employee{ID: employee.ID}).
		Select(mutableColumns).
		Updates(*employee)
	if result.Error != nil {
		return fmt.Errorf("update employee %s: %w", employee.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormEmployeeStore) Delete(ctx context.Context, id string) (bool, error) {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Employee{})
	if result.Error != nil {
		return false, fmt.Errorf("delete employee %s: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *GormEmployeeStore) DeleteAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("1 = 1").Delete(&models.Employee{}).Error
}
