// Package loader collapses the point lookups made while serving one request into batched store queries.
package loader

import (
	"context"
	"time"

	"github.com/franciscosanchezn/gin-employee-api/internal/models"
	"github.com/graph-gophers/dataloader/v7"
)

// DefaultWait is how long the loader collects keys before flushing a batch
const DefaultWait = 2 * time.Millisecond

// BatchFetcher loads many employees at once. Missing ids are simply absent from the result.
type BatchFetcher interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Employee, error)
}

// EmployeeLoader deduplicates and batches employee lookups. Build one per request and drop it afterwards.
type EmployeeLoader struct {
	loader *dataloader.Loader[string, *models.Employee]
}

// NewEmployeeLoader creates a loader backed by fetcher. A non-positive wait uses DefaultWait.
func NewEmployeeLoader(fetcher BatchFetcher, wait time.Duration) *EmployeeLoader {
	if wait <= 0 {
		wait = DefaultWait
	}
	return &EmployeeLoader{
		loader: dataloader.NewBatchedLoader(batchFunc(fetcher), dataloader.WithWait[string, *models.Employee](wait)),
	}
}

// Load returns the employee with the given id, or nil when it does not exist
func (l *EmployeeLoader) Load(ctx context.Context, id string) (*models.Employee, error) {
	return l.loader.Load(ctx, id)()
}

// LoadMany returns employees in key order; missing ids yield nil entries
func (l *EmployeeLoader) LoadMany(ctx context.Context, ids []string) ([]*models.Employee, error) {
	employees, errs := l.loader.LoadMany(ctx, ids)()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return employees, nil
}

// batchFunc issues a single FindByIDs per batch and fans the rows back out by id
func batchFunc(fetcher BatchFetcher) dataloader.BatchFunc[string, *models.Employee] {
	return func(ctx context.Context, ids []string) []*dataloader.Result[*models.Employee] {
		results := make([]*dataloader.Result[*models.Employee], len(ids))

		employees, err := fetcher.FindByIDs(ctx, ids)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result[*models.Employee]{Error: err}
			}
			return results
		}

		byID := make(map[string]*models.Employee, len(employees))
		for i := range employees {
			byID[employees[i].ID] = &employees[i]
		}
		for i, id := range ids {
			results[i] = &dataloader.Result[*models.Employee]{Data: byID[id]}
		}
		return results
	}
}
