package graph

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-employee-api/internal/auth"
	"github.com/franciscosanchezn/gin-employee-api/internal/loader"
	"github.com/franciscosanchezn/gin-employee-api/internal/models"
	"github.com/franciscosanchezn/gin-employee-api/internal/services"
	"github.com/franciscosanchezn/gin-employee-api/internal/session"
	"github.com/franciscosanchezn/gin-employee-api/internal/store"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type graphEnv struct {
	schema *graphql.Schema
	svc    services.EmployeeService
	store  *store.GormEmployeeStore
	admin  *models.Employee
	bob    *models.Employee
}

func setupGraphEnv(t *testing.T) *graphEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	s := store.NewGormEmployeeStore(db)
	require.NoError(t, s.Migrate(context.Background()))

	tokens, err := auth.NewTokenManager("graph-secret", time.Hour)
	require.NoError(t, err)
	logger, _ := test.NewNullLogger()

	svc := services.NewEmployeeService(s, tokens, logger)
	schema, err := NewSchema(svc, logger, Options{})
	require.NoError(t, err)

	env := &graphEnv{schema: schema, svc: svc, store: s}
	env.admin = env.seed(t, "Admin User", "admin@example.com", "admin123", models.RoleAdmin)
	env.bob = env.seed(t, "Bob", "bob@example.com", "secret1", models.RoleEmployee)
	return env
}

func (env *graphEnv) seed(t *testing.T, name, email, password string, role models.Role) *models.Employee {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	e := &models.Employee{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Age:          30,
		Class:        "Software Engineering",
		Subjects:     []string{"Go"},
		Attendance:   90,
		Role:         role,
	}
	require.NoError(t, env.store.Create(context.Background(), e))
	sanitized := e.Sanitized()
	return &sanitized
}

// as returns a request context for account with a fresh loader
func (env *graphEnv) as(account *models.Employee) context.Context {
	return session.WithContext(context.Background(), session.NewContext(account, loader.NewEmployeeLoader(env.svc, 0)))
}

func exec(t *testing.T, schema *graphql.Schema, ctx context.Context, query string, vars map[string]interface{}, out interface{}) *graphql.Response {
	t.Helper()
	resp := schema.Exec(ctx, query, "", vars)
	if out != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, out))
	}
	return resp
}

func errorCode(resp *graphql.Response) string {
	if len(resp.Errors) == 0 {
		return ""
	}
	code, _ := resp.Errors[0].Extensions["code"].(string)
	return code
}

const loginMutation = `mutation Login($email: String!, $password: String!) {
	login(email: $email, password: $password) {
		token
		employee { id email role }
	}
}`

func TestLoginMutation(t *testing.T) {
	env := setupGraphEnv(t)

	var data struct {
		Login struct {
			Token    string `json:"token"`
			Employee struct {
				ID    string `json:"id"`
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"employee"`
		} `json:"login"`
	}
	resp := exec(t, env.schema, context.Background(), loginMutation,
		map[string]interface{}{"email": "bob@example.com", "password": "secret1"}, &data)
	require.Empty(t, resp.Errors)
	assert.NotEmpty(t, data.Login.Token)
	assert.Equal(t, env.bob.ID, data.Login.Employee.ID)
	assert.Equal(t, "employee", data.Login.Employee.Role)

	resp = exec(t, env.schema, context.Background(), loginMutation,
		map[string]interface{}{"email": "bob@example.com", "password": "wrong"}, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, models.ErrCodeInvalidCredentials, errorCode(resp))
	assert.Equal(t, "Invalid credentials", resp.Errors[0].Message)
}

func TestPasswordIsNotQueryable(t *testing.T) {
	env := setupGraphEnv(t)
	resp := exec(t, env.schema, env.as(env.admin), `{ me { id password } }`, nil, nil)
	assert.NotEmpty(t, resp.Errors)
}

func TestMe(t *testing.T) {
	env := setupGraphEnv(t)

	var data struct {
		Me *struct {
			ID        string   `json:"id"`
			Name      string   `json:"name"`
			Subjects  []string `json:"subjects"`
			CreatedAt string   `json:"createdAt"`
		} `json:"me"`
	}
	resp := exec(t, env.schema, env.as(env.bob), `{ me { id name subjects createdAt } }`, nil, &data)
	require.Empty(t, resp.Errors)
	require.NotNil(t, data.Me)
	assert.Equal(t, env.bob.ID, data.Me.ID)
	assert.Equal(t, []string{"Go"}, data.Me.Subjects)
	_, err := time.Parse(time.RFC3339, data.Me.CreatedAt)
	assert.NoError(t, err)

	resp = exec(t, env.schema, env.as(nil), `{ me { id } }`, nil, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, models.ErrCodeUnauthenticated, errorCode(resp))
}

func TestEmployeeQuery(t *testing.T) {
	env := setupGraphEnv(t)
	query := `query Get($id: ID!) { employee(id: $id) { id name } }`

	var data struct {
		Employee *struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"employee"`
	}
	resp := exec(t, env.schema, env.as(env.bob), query, map[string]interface{}{"id": env.admin.ID}, &data)
	require.Empty(t, resp.Errors)
	require.NotNil(t, data.Employee)
	assert.Equal(t, "Admin User", data.Employee.Name)

	data.Employee = nil
	resp = exec(t, env.schema, env.as(env.bob), query, map[string]interface{}{"id": "missing"}, &data)
	require.Empty(t, resp.Errors)
	assert.Nil(t, data.Employee)

	resp = exec(t, env.schema, env.as(nil), query, map[string]interface{}{"id": env.admin.ID}, nil)
	assert.Equal(t, models.ErrCodeUnauthenticated, errorCode(resp))
}

func TestListEmployeesQuery(t *testing.T) {
	env := setupGraphEnv(t)
	query := `query List($flagged: Boolean, $sortBy: SortInput) {
		listEmployees(flagged: $flagged, sortBy: $sortBy, limit: 1) {
			employees { name }
			total
			page
			pages
		}
	}`

	var data struct {
		ListEmployees struct {
			Employees []struct {
				Name string `json:"name"`
			} `json:"employees"`
			Total int `json:"total"`
			Page  int `json:"page"`
			Pages int `json:"pages"`
		} `json:"listEmployees"`
	}
	resp := exec(t, env.schema, env.as(env.bob), query, map[string]interface{}{
		"sortBy": map[string]interface{}{"field": "name", "order": "ASC"},
	}, &data)
	require.Empty(t, resp.Errors)
	assert.Equal(t, 2, data.ListEmployees.Total)
	assert.Equal(t, 1, data.ListEmployees.Page)
	assert.Equal(t, 2, data.ListEmployees.Pages)
	require.Len(t, data.ListEmployees.Employees, 1)
	assert.Equal(t, "Admin User", data.ListEmployees.Employees[0].Name)

	t.Run("non-boolean flagged is rejected", func(t *testing.T) {
		resp := exec(t, env.schema, env.as(env.bob), query, map[string]interface{}{"flagged": "true"}, nil)
		assert.NotEmpty(t, resp.Errors)
	})

	t.Run("anonymous", func(t *testing.T) {
		resp := exec(t, env.schema, env.as(nil), query, nil, nil)
		assert.Equal(t, models.ErrCodeUnauthenticated, errorCode(resp))
	})
}

func TestMutationsEnforceRoles(t *testing.T) {
	env := setupGraphEnv(t)

	t.Run("employee cannot promote self", func(t *testing.T) {
		resp := exec(t, env.schema, env.as(env.bob),
			`mutation($id: ID!) { updateEmployee(id: $id, input: {role: "admin"}) { role } }`,
			map[string]interface{}{"id": env.bob.ID}, nil)
		assert.Equal(t, models.ErrCodeForbidden, errorCode(resp))
	})

	t.Run("employee updates own name", func(t *testing.T) {
		var data struct {
			UpdateEmployee struct {
				Name string `json:"name"`
			} `json:"updateEmployee"`
		}
		resp := exec(t, env.schema, env.as(env.bob),
			`mutation($id: ID!) { updateEmployee(id: $id, input: {name: "Robert"}) { name } }`,
			map[string]interface{}{"id": env.bob.ID}, &data)
		require.Empty(t, resp.Errors)
		assert.Equal(t, "Robert", data.UpdateEmployee.Name)
	})

	t.Run("employee cannot add", func(t *testing.T) {
		resp := exec(t, env.schema, env.as(env.bob),
			`mutation { addEmployee(input: {name: "X", email: "x@x.com", password: "pw", age: 30, class: "C", subjects: []}) { id } }`,
			nil, nil)
		assert.Equal(t, models.ErrCodeForbidden, errorCode(resp))
	})

	t.Run("admin add with duplicate email", func(t *testing.T) {
		resp := exec(t, env.schema, env.as(env.admin),
			`mutation { addEmployee(input: {name: "X", email: "BOB@example.com", password: "pw", age: 30, class: "C", subjects: []}) { id } }`,
			nil, nil)
		assert.Equal(t, models.ErrCodeDuplicateEmail, errorCode(resp))
	})

	t.Run("admin toggles and deletes", func(t *testing.T) {
		var toggled struct {
			ToggleFlag struct {
				Flagged bool `json:"flagged"`
			} `json:"toggleFlag"`
		}
		resp := exec(t, env.schema, env.as(env.admin),
			`mutation($id: ID!) { toggleFlag(id: $id) { flagged } }`,
			map[string]interface{}{"id": env.bob.ID}, &toggled)
		require.Empty(t, resp.Errors)
		assert.True(t, toggled.ToggleFlag.Flagged)

		deleteMutation := `mutation($id: ID!) { deleteEmployee(id: $id) }`
		var deleted struct {
			DeleteEmployee bool `json:"deleteEmployee"`
		}
		resp = exec(t, env.schema, env.as(env.admin), deleteMutation, map[string]interface{}{"id": env.bob.ID}, &deleted)
		require.Empty(t, resp.Errors)
		assert.True(t, deleted.DeleteEmployee)

		resp = exec(t, env.schema, env.as(env.admin), deleteMutation, map[string]interface{}{"id": env.bob.ID}, &deleted)
		require.Empty(t, resp.Errors)
		assert.False(t, deleted.DeleteEmployee)
	})
}

// failingService fails every listing with a store-level error
type failingService struct {
	services.EmployeeService
}

func (failingService) ListEmployees(context.Context, *models.Employee, services.ListEmployeesInput) (*models.EmployeePage, error) {
	return nil, errors.New("connection reset by peer")
}

func TestStoreErrorsAreMasked(t *testing.T) {
	logger, hook := test.NewNullLogger()
	schema, err := NewSchema(failingService{}, logger, Options{})
	require.NoError(t, err)

	ctx := session.WithContext(context.Background(), session.NewContext(&models.Employee{ID: "1", Role: models.RoleAdmin}, nil))
	resp := schema.Exec(ctx, `{ listEmployees { total } }`, "", nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, models.ErrCodeInternalServer, errorCode(resp))
	assert.NotContains(t, resp.Errors[0].Message, "connection reset")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "listEmployees", entry.Data["operation"])
}

func TestMaxDepth(t *testing.T) {
	schema, err := NewSchema(failingService{}, nil, Options{MaxDepth: 1})
	require.NoError(t, err)
	resp := schema.Exec(context.Background(), `{ me { id } }`, "", nil)
	assert.NotEmpty(t, resp.Errors)
}
