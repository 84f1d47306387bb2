package attendance

import (
	"context"
	"time"
)

type StoreAPI interface {
	FindByDate(ctx context.Context, employeeID string, date time.Time) (Record, error)
	Insert(ctx context.Context, rec Record) (Record, error)
	Update(ctx context.Context, rec Record) (Record, error)
	List(ctx context.Context, filter ListFilter) ([]Record, error)
}
