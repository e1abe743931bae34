package auth

import (
	"testing"

	"github.com/franciscosanchezn/gin-employee-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRequireAuthenticated(t *testing.T) {
	assert.ErrorIs(t, RequireAuthenticated(nil), models.ErrUnauthenticated)
	assert.NoError(t, RequireAuthenticated(&models.Employee{ID: "e1", Role: models.RoleEmployee}))
}

func TestRequireAdmin(t *testing.T) {
	testCases := []struct {
		name    string
		account *models.Employee
		want    error
	}{
		{"anonymous", nil, models.ErrUnauthenticated},
		{"employee", &models.Employee{ID: "e1", Role: models.RoleEmployee}, models.ErrForbidden},
		{"unknown role", &models.Employee{ID: "e2", Role: models.Role("root")}, models.ErrForbidden},
		{"admin", &models.Employee{ID: "a1", Role: models.RoleAdmin}, nil},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireAdmin(tt.account)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRequireSelfOrAdmin(t *testing.T) {
	employee := &models.Employee{ID: "e1", Role: models.RoleEmployee}
	admin := &models.Employee{ID: "a1", Role: models.RoleAdmin}

	assert.ErrorIs(t, RequireSelfOrAdmin(nil, "e1"), models.ErrUnauthenticated)
	assert.NoError(t, RequireSelfOrAdmin(employee, "e1"))
	assert.ErrorIs(t, RequireSelfOrAdmin(employee, "e2"), models.ErrForbidden)
	assert.NoError(t, RequireSelfOrAdmin(admin, "e1"))
}
