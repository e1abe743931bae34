// Package graph exposes the employee directory as a GraphQL schema.
package graph

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/franciscosanchezn/gin-employee-api/internal/services"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/sirupsen/logrus"
)

//go:embed schema.graphql
var schemaSDL string

// DefaultMaxDepth bounds query nesting when no limit is configured
const DefaultMaxDepth = 10

// Options tunes schema execution
type Options struct {
	MaxDepth int
}

// NewSchema parses the SDL and binds it to resolvers over svc
func NewSchema(svc services.EmployeeService, log *logrus.Logger, opts Options) (*graphql.Schema, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	schema, err := graphql.ParseSchema(schemaSDL, NewResolver(svc, log),
		graphql.MaxDepth(opts.MaxDepth),
		graphql.Logger(panicLogger{log: log}),
	)
	if err != nil {
		return nil, fmt.Errorf("parse graphql schema: %w", err)
	}
	return schema, nil
}

// panicLogger routes resolver panics to logrus instead of the standard logger
type panicLogger struct {
	log *logrus.Logger
}

func (l panicLogger) LogPanic(ctx context.Context, value interface{}) {
	l.log.WithField("panic", fmt.Sprintf("%v", value)).Error("GraphQL resolver panicked")
}
