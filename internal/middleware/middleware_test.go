package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/franciscosanchezn/gin-employee-api/internal/models"
	"github.com/franciscosanchezn/gin-employee-api/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier map[string]string

func (v stubVerifier) Verify(token string) (string, bool) {
	id, ok := v[token]
	return id, ok
}

type stubAccounts map[string]*models.Employee

func (a stubAccounts) FindByID(_ context.Context, id string) (*models.Employee, error) {
	return a[id], nil
}

func (a stubAccounts) FindByIDs(_ context.Context, ids []string) ([]models.Employee, error) {
	var out []models.Employee
	for _, id := range ids {
		if e, ok := a[id]; ok {
			out = append(out, *e)
		}
	}
	return out, nil
}

func setupRouter(t *testing.T) (*gin.Engine, *test.Hook) {
	gin.SetMode(gin.TestMode)
	logger, hook := test.NewNullLogger()

	accounts := stubAccounts{"emp-1": {ID: "emp-1", Name: "Ada", Role: models.RoleAdmin}}
	resolver := session.NewResolver(stubVerifier{"good-token": "emp-1"}, accounts, logger)

	r := gin.New()
	r.Use(RequestLogger(logger))
	r.Use(Session(resolver, accounts, 0))
	r.GET("/whoami", func(c *gin.Context) {
		sess := session.FromContext(c.Request.Context())
		require.NotNil(t, sess.Loader())
		account := sess.Account()
		if account == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		loaded, err := sess.Loader().Load(c.Request.Context(), account.ID)
		require.NoError(t, err)
		c.String(http.StatusOK, loaded.Name)
	})
	return r, hook
}

func TestSessionMiddleware(t *testing.T) {
	testCases := []struct {
		name     string
		header   string
		expected string
	}{
		{"valid bearer token", "Bearer good-token", "Ada"},
		{"no header", "", "anonymous"},
		{"unknown token", "Bearer bad-token", "anonymous"},
		{"wrong scheme", "Basic good-token", "anonymous"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := setupRouter(t)
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expected, w.Body.String())
		})
	}
}

func TestRequestLogger(t *testing.T) {
	r, hook := setupRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "/whoami", entry.Data["path"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])
	assert.Equal(t, "emp-1", entry.Data["employee_id"])

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	entry = hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	_, hasID := entry.Data["employee_id"]
	assert.False(t, hasID)
}
