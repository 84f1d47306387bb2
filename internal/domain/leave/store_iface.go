package leave

import "context"

type StoreAPI interface {
	Create(ctx context.Context, req Request) (TimeOff, error)
	Get(ctx context.Context, id string) (TimeOff, error)
	List(ctx context.Context, filter ListFilter) ([]TimeOff, int, error)
	// Decide moves a PENDING request to status. It reports false when the
	// request exists but is not pending.
	Decide(ctx context.Context, id string, status Status, approverID string) (bool, error)
}
