package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/franciscosanchezn/gin-employee-api/internal/database"
)

// Open connects to the backend named by cfg.Driver and returns its store along with
// a function that releases the connection
func Open(ctx context.Context, cfg database.DatabaseConfig) (EmployeeStore, func(context.Context) error, error) {
	switch strings.ToLower(cfg.Driver) {
	case "mongo", "mongodb":
		db, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return NewMongoEmployeeStore(db), db.Client().Disconnect, nil
	case "postgres", "postgresql", "sqlite":
		db, err := database.InitDatabase(cfg)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		return NewGormEmployeeStore(db), func(context.Context) error { return sqlDB.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}
