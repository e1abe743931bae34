package main

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/gin-employee-api/internal/auth"
	"github.com/franciscosanchezn/gin-employee-api/internal/database"
	"github.com/franciscosanchezn/gin-employee-api/internal/models"
	"github.com/franciscosanchezn/gin-employee-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func cheapHash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(b), err
}

func TestSeedEmployees(t *testing.T) {
	ctx := context.Background()
	s, closeStore, err := store.Open(ctx, database.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	defer closeStore(ctx)
	require.NoError(t, s.Migrate(ctx))

	created, err := seedEmployees(ctx, s, true, cheapHash)
	require.NoError(t, err)
	require.Len(t, created, 2)

	admin, err := s.FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.False(t, admin.Flagged)
	assert.True(t, auth.CheckPassword(admin.PasswordHash, "admin123"))

	flagged, err := s.FindByEmail(ctx, "firstemployee@example.com")
	require.NoError(t, err)
	require.NotNil(t, flagged)
	assert.True(t, flagged.Flagged)
	assert.Equal(t, []string{"Testing", "Automation", "Selenium"}, flagged.Subjects)

	t.Run("without reset existing accounts are skipped", func(t *testing.T) {
		created, err := seedEmployees(ctx, s, false, cheapHash)
		require.NoError(t, err)
		assert.Empty(t, created)
	})

	t.Run("reset recreates", func(t *testing.T) {
		created, err := seedEmployees(ctx, s, true, cheapHash)
		require.NoError(t, err)
		assert.Len(t, created, 2)

		again, err := s.FindByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		assert.NotEqual(t, admin.ID, again.ID)
	})
}
