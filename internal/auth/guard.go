package auth

import (
	"github.com/franciscosanchezn/gin-employee-api/internal/models"
)

// RequireAuthenticated fails with ErrUnauthenticated when there is no session account
func RequireAuthenticated(account *models.Employee) error {
	if account == nil {
		return models.ErrUnauthenticated
	}
	return nil
}

// RequireAdmin fails with ErrUnauthenticated without a session and ErrForbidden for any non-admin role
func RequireAdmin(account *models.Employee) error {
	if err := RequireAuthenticated(account); err != nil {
		return err
	}
	switch account.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleEmployee:
		return models.ErrForbidden
	default:
		return models.ErrForbidden
	}
}

// RequireSelfOrAdmin allows admins to act on any record and everyone else only on their own
func RequireSelfOrAdmin(account *models.Employee, targetID string) error {
	if err := RequireAuthenticated(account); err != nil {
		return err
	}
	switch account.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleEmployee:
		if account.ID == targetID {
			return nil
		}
		return models.NewForbiddenError("Not authorized to update this employee")
	default:
		return models.NewForbiddenError("Not authorized to update this employee")
	}
}
