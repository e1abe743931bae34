package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret-key-32-characters"

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	m, err := NewTokenManager("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
	assert.Nil(t, m)

	m, err = NewTokenManager(testSecret, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, m.TTL())
}

func TestTokenRoundTrip(t *testing.T) {
	m, err := NewTokenManager(testSecret, time.Hour)
	require.NoError(t, err)

	token, err := m.Issue("employee-1")
	require.NoError(t, err)

	id, ok := m.Verify(token)
	assert.True(t, ok)
	assert.Equal(t, "employee-1", id)
}

func TestIssueRejectsEmptyID(t *testing.T) {
	m, err := NewTokenManager(testSecret, time.Hour)
	require.NoError(t, err)

	_, err = m.Issue("")
	assert.Error(t, err)
}

func TestVerifyRejectsInvalidTokens(t *testing.T) {
	m, err := NewTokenManager(testSecret, time.Hour)
	require.NoError(t, err)

	valid, err := m.Issue("employee-1")
	require.NoError(t, err)

	other, err := NewTokenManager("a-completely-different-secret", time.Hour)
	require.NoError(t, err)
	foreign, err := other.Issue("employee-1")
	require.NoError(t, err)

	expiredManager, err := NewTokenManager(testSecret, time.Hour)
	require.NoError(t, err)
	expiredManager.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredManager.Issue("employee-1")
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		EmployeeID:       "employee-1",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "employee-1"},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		EmployeeID: "employee-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "employee-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	testCases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"malformed", "not.a.jwt"},
		{"tampered", valid + "x"},
		{"wrong secret", foreign},
		{"expired", expired},
		{"missing expiry", noExp},
		{"none algorithm", noneAlg},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := m.Verify(tt.token)
			assert.False(t, ok)
			assert.Empty(t, id)
		})
	}
}
