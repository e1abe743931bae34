package graph

import (
	"context"

	"github.com/franciscosanchezn/gin-employee-api/internal/auth"
	"github.com/franciscosanchezn/gin-employee-api/internal/loader"
	"github.com/franciscosanchezn/gin-employee-api/internal/models"
	"github.com/franciscosanchezn/gin-employee-api/internal/services"
	"github.com/franciscosanchezn/gin-employee-api/internal/session"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/sirupsen/logrus"
)

// Resolver is the root of both the Query and Mutation types
type Resolver struct {
	svc services.EmployeeService
	log *logrus.Logger
}

// NewResolver creates the root resolver
func NewResolver(svc services.EmployeeService, log *logrus.Logger) *Resolver {
	return &Resolver{svc: svc, log: log}
}

type sortInput struct {
	Field string
	Order string
}

type listEmployeesArgs struct {
	Page    *int32
	Limit   *int32
	SortBy  *sortInput
	Role    *string
	Class   *string
	Flagged *bool
	Search  *string
}

type employeeInput struct {
	Name       string
	Email      string
	Password   string
	Age        int32
	Class      string
	Subjects   []string
	Attendance *float64
	Role       *string
}

type updateEmployeeInput struct {
	Name       *string
	Age        *int32
	Class      *string
	Subjects   *[]string
	Attendance *float64
	Role       *string
	Flagged    *bool
}

func (r *Resolver) ListEmployees(ctx context.Context, args listEmployeesArgs) (*employeeListResolver, error) {
	in := services.ListEmployeesInput{
		Page:    intValue(args.Page),
		Limit:   intValue(args.Limit),
		Role:    args.Role,
		Class:   args.Class,
		Flagged: args.Flagged,
		Search:  args.Search,
	}
	if args.SortBy != nil {
		in.Sort = &services.SortInput{Field: args.SortBy.Field, Order: services.SortOrder(args.SortBy.Order)}
	}

	page, err := r.svc.ListEmployees(ctx, caller(ctx), in)
	if err != nil {
		return nil, r.fail(ctx, "listEmployees", err)
	}
	return &employeeListResolver{page: page}, nil
}

func (r *Resolver) Employee(ctx context.Context, args struct{ ID graphql.ID }) (*employeeResolver, error) {
	sess := session.FromContext(ctx)
	if err := auth.RequireAuthenticated(sess.Account()); err != nil {
		return nil, err
	}

	l := sess.Loader()
	if l == nil {
		l = loader.NewEmployeeLoader(r.svc, 0)
	}
	employee, err := l.Load(ctx, string(args.ID))
	if err != nil {
		return nil, r.fail(ctx, "employee", err)
	}
	return newEmployeeResolver(employee), nil
}

func (r *Resolver) Me(ctx context.Context) (*employeeResolver, error) {
	account := caller(ctx)
	if err := auth.RequireAuthenticated(account); err != nil {
		return nil, err
	}
	return newEmployeeResolver(account), nil
}

func (r *Resolver) Login(ctx context.Context, args struct {
	Email    string
	Password string
}) (*authPayloadResolver, error) {
	result, err := r.svc.Login(ctx, args.Email, args.Password)
	if err != nil {
		return nil, r.fail(ctx, "login", err)
	}
	return &authPayloadResolver{token: result.Token, employee: newEmployeeResolver(result.Employee)}, nil
}

func (r *Resolver) AddEmployee(ctx context.Context, args struct{ Input employeeInput }) (*employeeResolver, error) {
	in := args.Input
	employee, err := r.svc.CreateEmployee(ctx, caller(ctx), services.CreateEmployeeInput{
		Name:       in.Name,
		Email:      in.Email,
		Password:   in.Password,
		Age:        int(in.Age),
		Class:      in.Class,
		Subjects:   in.Subjects,
		Attendance: in.Attendance,
		Role:       in.Role,
	})
	if err != nil {
		return nil, r.fail(ctx, "addEmployee", err)
	}
	return newEmployeeResolver(employee), nil
}

func (r *Resolver) UpdateEmployee(ctx context.Context, args struct {
	ID    graphql.ID
	Input updateEmployeeInput
}) (*employeeResolver, error) {
	in := args.Input
	employee, err := r.svc.UpdateEmployee(ctx, caller(ctx), string(args.ID), services.UpdateEmployeeInput{
		Name:       in.Name,
		Age:        intValue(in.Age),
		Class:      in.Class,
		Subjects:   in.Subjects,
		Attendance: in.Attendance,
		Role:       in.Role,
		Flagged:    in.Flagged,
	})
	if err != nil {
		return nil, r.fail(ctx, "updateEmployee", err)
	}
	return newEmployeeResolver(employee), nil
}

func (r *Resolver) DeleteEmployee(ctx context.Context, args struct{ ID graphql.ID }) (bool, error) {
	deleted, err := r.svc.DeleteEmployee(ctx, caller(ctx), string(args.ID))
	if err != nil {
		return false, r.fail(ctx, "deleteEmployee", err)
	}
	return deleted, nil
}

func (r *Resolver) ToggleFlag(ctx context.Context, args struct{ ID graphql.ID }) (*employeeResolver, error) {
	employee, err := r.svc.ToggleFlag(ctx, caller(ctx), string(args.ID))
	if err != nil {
		return nil, r.fail(ctx, "toggleFlag", err)
	}
	return newEmployeeResolver(employee), nil
}

// fail passes API errors through and masks everything else as an internal error
func (r *Resolver) fail(ctx context.Context, operation string, err error) error {
	if apiErr, ok := models.AsAPIError(err); ok {
		return apiErr
	}
	entry := r.log.WithError(err).WithField("operation", operation)
	if account := session.FromContext(ctx).Account(); account != nil {
		entry = entry.WithField("employee_id", account.ID)
	}
	entry.Error("GraphQL operation failed")
	return models.ErrInternal
}

func caller(ctx context.Context) *models.Employee {
	return session.FromContext(ctx).Account()
}

func intValue(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
