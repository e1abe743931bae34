package graph

import (
	"time"

	"github.com/franciscosanchezn/gin-employee-api/internal/models"
	graphql "github.com/graph-gophers/graphql-go"
)

// employeeResolver exposes an employee without its password hash
type employeeResolver struct {
	e models.Employee
}

func newEmployeeResolver(e *models.Employee) *employeeResolver {
	if e == nil {
		return nil
	}
	return &employeeResolver{e: e.Sanitized()}
}

func (r *employeeResolver) ID() graphql.ID {
	return graphql.ID(r.e.ID)
}

func (r *employeeResolver) Name() string {
	return r.e.Name
}

func (r *employeeResolver) Email() string {
	return r.e.Email
}

func (r *employeeResolver) Age() int32 {
	return int32(r.e.Age)
}

func (r *employeeResolver) Class() string {
	return r.e.Class
}

func (r *employeeResolver) Subjects() []string {
	if r.e.Subjects == nil {
		return []string{}
	}
	return r.e.Subjects
}

func (r *employeeResolver) Attendance() float64 {
	return r.e.Attendance
}

func (r *employeeResolver) Role() string {
	return r.e.Role.String()
}

func (r *employeeResolver) Flagged() bool {
	return r.e.Flagged
}

func (r *employeeResolver) CreatedAt() string {
	return formatTime(r.e.CreatedAt)
}

func (r *employeeResolver) UpdatedAt() string {
	return formatTime(r.e.UpdatedAt)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

type employeeListResolver struct {
	page *models.EmployeePage
}

func (r *employeeListResolver) Employees() []*employeeResolver {
	out := make([]*employeeResolver, 0, len(r.page.Items))
	for i := range r.page.Items {
		out = append(out, newEmployeeResolver(&r.page.Items[i]))
	}
	return out
}

func (r *employeeListResolver) Total() int32 {
	return int32(r.page.Total)
}

func (r *employeeListResolver) Page() int32 {
	return int32(r.page.Page)
}

func (r *employeeListResolver) Pages() int32 {
	return int32(r.page.Pages)
}

type authPayloadResolver struct {
	token    string
	employee *employeeResolver
}

func (r *authPayloadResolver) Token() string {
	return r.token
}

func (r *authPayloadResolver) Employee() *employeeResolver {
	return r.employee
}
