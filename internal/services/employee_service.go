package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/franciscosanchezn/gin-employee-api/internal/auth"
	"github.com/franciscosanchezn/gin-employee-api/internal/metrics"
	"github.com/franciscosanchezn/gin-employee-api/internal/models"
	"github.com/franciscosanchezn/gin-employee-api/internal/store"
	"github.com/sirupsen/logrus"
)

// SortOrder is the direction of a listing sort
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// SortInput is the caller-supplied ordering of a listing
type SortInput struct {
	Field string
	Order SortOrder
}

// ListEmployeesInput holds the listing arguments as received from the API. Nil means absent.
type ListEmployeesInput struct {
	Page    *int
	Limit   *int
	Sort    *SortInput
	Role    *string
	Class   *string
	Flagged *bool
	Search  *string
}

// CreateEmployeeInput is the payload of an admin-created account
type CreateEmployeeInput struct {
	Name       string   `json:"name" validate:"required"`
	Email      string   `json:"email" validate:"required,email"`
	Password   string   `json:"password" validate:"required"`
	Age        int      `json:"age" validate:"min=18,max=100"`
	Class      string   `json:"class" validate:"required"`
	Subjects   []string `json:"subjects"`
	Attendance *float64 `json:"attendance" validate:"omitempty,min=0,max=100"`
	Role       *string  `json:"role"`
}

// UpdateEmployeeInput is a partial update. Email and password are not updatable.
type UpdateEmployeeInput struct {
	Name       *string
	Age        *int
	Class      *string
	Subjects   *[]string
	Attendance *float64
	Role       *string
	Flagged    *bool
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Token    string
	Employee *models.Employee
}

// TokenIssuer mints session tokens for an employee id
type TokenIssuer interface {
	Issue(employeeID string) (string, error)
}

// EmployeeService implements the directory operations. Every method receives the calling
// account (nil for anonymous) and applies the role guard before touching the store.
type EmployeeService interface {
	// ListEmployees returns one filtered, sorted page of employees
	ListEmployees(ctx context.Context, caller *models.Employee, in ListEmployeesInput) (*models.EmployeePage, error)
	// Login exchanges credentials for a session token
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// CreateEmployee adds an account. Admin only.
	CreateEmployee(ctx context.Context, caller *models.Employee, in CreateEmployeeInput) (*models.Employee, error)
	// UpdateEmployee applies a partial update. Admins may update anyone, employees only themselves.
	UpdateEmployee(ctx context.Context, caller *models.Employee, id string, in UpdateEmployeeInput) (*models.Employee, error)
	// DeleteEmployee removes an account and reports whether one existed. Admin only.
	DeleteEmployee(ctx context.Context, caller *models.Employee, id string) (bool, error)
	// ToggleFlag inverts an account's flagged state. Admin only.
	ToggleFlag(ctx context.Context, caller *models.Employee, id string) (*models.Employee, error)
	// FindByIDs is the batch fetch behind the request loader
	FindByIDs(ctx context.Context, ids []string) ([]models.Employee, error)
}

type employeeService struct {
	store  store.EmployeeStore
	tokens TokenIssuer
	log    *logrus.Logger
}

// NewEmployeeService creates a new instance of EmployeeService
func NewEmployeeService(s store.EmployeeStore, tokens TokenIssuer, log *logrus.Logger) EmployeeService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &employeeService{store: s, tokens: tokens, log: log}
}

func (s *employeeService) ListEmployees(ctx context.Context, caller *models.Employee, in ListEmployeesInput) (*models.EmployeePage, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return nil, err
	}

	var filter models.EmployeeFilter
	if in.Role != nil && *in.Role != "" {
		role, err := models.ParseRole(*in.Role)
		if err != nil {
			return nil, err
		}
		filter.Role = &role
	}
	if in.Class != nil && *in.Class != "" {
		class := *in.Class
		filter.Class = &class
	}
	if in.Flagged != nil {
		flagged := *in.Flagged
		filter.Flagged = &flagged
	}
	if in.Search != nil {
		filter.Search = strings.TrimSpace(*in.Search)
	}

	sort, err := parseSort(in.Sort)
	if err != nil {
		return nil, err
	}

	page, limit := normalizePagination(in.Page, in.Limit)
	employees, total, err := s.store.List(ctx, models.ListQuery{
		Filter: filter,
		Sort:   sort,
		Skip:   (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.Employee, 0, len(employees))
	for i := range employees {
		items = append(items, employees[i].Sanitized())
	}
	return &models.EmployeePage{
		Items: items,
		Total: total,
		Page:  page,
		Pages: pageCount(total, limit),
	}, nil
}

func parseSort(in *SortInput) (models.Sort, error) {
	if in == nil {
		return models.DefaultSort, nil
	}
	field := models.SortField(in.Field)
	if _, ok := field.Column(); !ok {
		return models.Sort{}, models.NewValidationError(fmt.Sprintf("Cannot sort by %q", in.Field), map[string]interface{}{"field": in.Field})
	}
	return models.Sort{Field: field, Desc: in.Order != SortAsc}, nil
}

func (s *employeeService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	employee, err := s.store.FindByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		metrics.LoginAttempts.WithLabelValues(metrics.LoginError).Inc()
		return nil, err
	}
	if employee == nil {
		metrics.LoginAttempts.WithLabelValues(metrics.LoginInvalidCredentials).Inc()
		return nil, models.ErrInvalidCredentials
	}
	// A flagged account is refused before the password is checked
	if employee.Flagged {
		metrics.LoginAttempts.WithLabelValues(metrics.LoginFlagged).Inc()
		s.log.WithField("employee_id", employee.ID).Info("Login refused for flagged account")
		return nil, models.ErrAccountFlagged
	}
	if !auth.CheckPassword(employee.PasswordHash, password) {
		metrics.LoginAttempts.WithLabelValues(metrics.LoginInvalidCredentials).Inc()
		return nil, models.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(employee.ID)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues(metrics.LoginError).Inc()
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.LoginAttempts.WithLabelValues(metrics.LoginSuccess).Inc()
	sanitized := employee.Sanitized()
	return &LoginResult{Token: token, Employee: &sanitized}, nil
}

func (s *employeeService) CreateEmployee(ctx context.Context, caller *models.Employee, in CreateEmployeeInput) (*models.Employee, error) {
	if err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = models.NormalizeEmail(in.Email)
	in.Class = strings.TrimSpace(in.Class)
	if err := models.ValidateStruct(in); err != nil {
		return nil, err
	}

	role := models.RoleEmployee
	if in.Role != nil && *in.Role != "" {
		parsed, err := models.ParseRole(*in.Role)
		if err != nil {
			return nil, err
		}
		role = parsed
	}

	existing, err := s.store.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.ErrDuplicateEmail
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	employee := &models.Employee{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Age:          in.Age,
		Class:        in.Class,
		Subjects:     in.Subjects,
		Role:         role,
	}
	if employee.Subjects == nil {
		employee.Subjects = []string{}
	}
	if in.Attendance != nil {
		employee.Attendance = *in.Attendance
	}
	if err := employee.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, employee); err != nil {
		// the unique index catches a concurrent create that slipped past the lookup
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, models.ErrDuplicateEmail
		}
		return nil, err
	}

	metrics.Mutations.WithLabelValues("create").Inc()
	s.log.WithFields(logrus.Fields{
		"employee_id": employee.ID,
		"role":        employee.Role,
		"by":          caller.ID,
	}).Info("Employee created")

	created := employee.Sanitized()
	return &created, nil
}

func (s *employeeService) UpdateEmployee(ctx context.Context, caller *models.Employee, id string, in UpdateEmployeeInput) (*models.Employee, error) {
	if err := auth.RequireSelfOrAdmin(caller, id); err != nil {
		return nil, err
	}
	// an empty role is treated as not given, matching the listing filter
	if in.Role != nil && *in.Role == "" {
		in.Role = nil
	}
	if in.Role != nil && !caller.IsAdmin() {
		return nil, models.NewForbiddenError("Only admins can change roles")
	}
	if in.Flagged != nil && !caller.IsAdmin() {
		return nil, models.NewForbiddenError("Only admins can flag employees")
	}

	employee, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, models.ErrNotFound
	}

	if in.Name != nil {
		employee.Name = strings.TrimSpace(*in.Name)
	}
	if in.Age != nil {
		employee.Age = *in.Age
	}
	if in.Class != nil {
		employee.Class = strings.TrimSpace(*in.Class)
	}
	if in.Subjects != nil {
		employee.Subjects = *in.Subjects
		if employee.Subjects == nil {
			employee.Subjects = []string{}
		}
	}
	if in.Attendance != nil {
		employee.Attendance = *in.Attendance
	}
	if in.Role != nil {
		role, err := models.ParseRole(*in.Role)
		if err != nil {
			return nil, err
		}
		employee.Role = role
	}
	if in.Flagged != nil {
		employee.Flagged = *in.Flagged
	}

	if err := employee.ValidateProfile(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, employee); err != nil {
		return nil, err
	}

	metrics.Mutations.WithLabelValues("update").Inc()
	s.log.WithFields(logrus.Fields{"employee_id": id, "by": caller.ID}).Info("Employee updated")

	updated := employee.Sanitized()
	return &updated, nil
}

func (s *employeeService) DeleteEmployee(ctx context.Context, caller *models.Employee, id string) (bool, error) {
	if err := auth.RequireAdmin(caller); err != nil {
		return false, err
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		metrics.Mutations.WithLabelValues("delete").Inc()
		s.log.WithFields(logrus.Fields{"employee_id": id, "by": caller.ID}).Info("Employee deleted")
	}
	return deleted, nil
}

func (s *employeeService) ToggleFlag(ctx context.Context, caller *models.Employee, id string) (*models.Employee, error) {
	if err := auth.RequireAdmin(caller); err != nil {
		return nil, err
	}

	employee, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, models.ErrNotFound
	}

	employee.Flagged = !employee.Flagged
	if err := s.save(ctx, employee); err != nil {
		return nil, err
	}

	metrics.Mutations.WithLabelValues("toggle_flag").Inc()
	s.log.WithFields(logrus.Fields{
		"employee_id": id,
		"flagged":     employee.Flagged,
		"by":          caller.ID,
	}).Info("Employee flag toggled")

	toggled := employee.Sanitized()
	return &toggled, nil
}

func (s *employeeService) FindByIDs(ctx context.Context, ids []string) ([]models.Employee, error) {
	return s.store.FindByIDs(ctx, ids)
}

// save writes the mutable fields, mapping a row that vanished since it was read to NOT_FOUND
func (s *employeeService) save(ctx context.Context, employee *models.Employee) error {
	err := s.store.Update(ctx, employee)
	if errors.Is(err, store.ErrNotFound) {
		return models.ErrNotFound
	}
	return err
}
