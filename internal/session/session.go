// Package session resolves the caller of an API request and carries it, with the request's
// batch loader, through the handler chain as an immutable value.
package session

import (
	"context"
	"strings"

	"github.com/franciscosanchezn/gin-employee-api/internal/loader"
	"github.com/franciscosanchezn/gin-employee-api/internal/models"
	"github.com/sirupsen/logrus"
)

const bearerPrefix = "Bearer "

// TokenVerifier checks a session token and returns the bound employee id
type TokenVerifier interface {
	Verify(token string) (string, bool)
}

// AccountFinder looks an account up by id, returning (nil, nil) when it does not exist
type AccountFinder interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
}

// Resolver turns an Authorization header into the calling account
type Resolver struct {
	tokens   TokenVerifier
	accounts AccountFinder
	log      *logrus.Logger
}

// NewResolver creates a session resolver
func NewResolver(tokens TokenVerifier, accounts AccountFinder, log *logrus.Logger) *Resolver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Resolver{tokens: tokens, accounts: accounts, log: log}
}

// Resolve returns the account behind a bearer token, or nil for an anonymous caller.
// A missing or malformed header, an invalid or expired token, a deleted account and a store
// failure all resolve to nil; none of them is an error at this layer.
func (r *Resolver) Resolve(ctx context.Context, authHeader string) *models.Employee {
	token, ok := BearerToken(authHeader)
	if !ok {
		return nil
	}

	employeeID, ok := r.tokens.Verify(token)
	if !ok {
		return nil
	}

	account, err := r.accounts.FindByID(ctx, employeeID)
	if err != nil {
		r.log.WithError(err).WithField("employee_id", employeeID).Warn("Session lookup failed, treating request as anonymous")
		return nil
	}
	return account
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(authHeader string) (string, bool) {
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

// Context is the per-request state shared by every operation handler.
// Its fields are unexported so handlers can read but never swap them.
type Context struct {
	account *models.Employee
	loader  *loader.EmployeeLoader
}

// NewContext builds the request context for a resolved account and a fresh loader
func NewContext(account *models.Employee, l *loader.EmployeeLoader) Context {
	return Context{account: account, loader: l}
}

// Account returns the authenticated caller, or nil when anonymous
func (c Context) Account() *models.Employee {
	if c.account == nil {
		return nil
	}
	// Hand out a copy so handlers cannot mutate the shared session account
	account := *c.account
	return &account
}

// Loader returns the request-scoped employee loader
func (c Context) Loader() *loader.EmployeeLoader {
	return c.loader
}

type contextKey struct{}

// WithContext stores the request context on ctx
func WithContext(ctx context.Context, c Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the request context stored on ctx. A request that never went
// through the session middleware gets an anonymous context without a loader.
func FromContext(ctx context.Context) Context {
	c, _ := ctx.Value(contextKey{}).(Context)
	return c
}
