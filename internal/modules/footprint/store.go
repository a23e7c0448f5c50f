package footprint

import (
	"context"

	types "github.com/zerodesign/zerodesign-backend/internal/domain"
)

// ReferenceReader is bound to a single store connection. Find* methods return
// only the rows that exist; FindFabricByID returns (nil, nil) for a miss.
type ReferenceReader interface {
	FindFabricByID(ctx context.Context, id string) (*types.Fabric, error)
	FindAccessoriesByIDs(ctx context.Context, ids []string) ([]*types.Accessory, error)
	FindProcessesByIDs(ctx context.Context, ids []string) ([]*types.ProcessRow, error)
	FindLifecycleProcessesByIDs(ctx context.Context, ids []string) ([]*types.ProcessRow, error)

	ListFabricsWithFactor(ctx context.Context) ([]*types.Fabric, error)
	ListAccessoriesWithFactor(ctx context.Context) ([]*types.Accessory, error)
	ListProcessesWithFactor(ctx context.Context) ([]*types.ProcessRow, error)
}

// ReferenceStore hands out a reader scoped to one connection. The connection
// is released when fn returns, whatever the outcome. An error from
// WithConnection that did not come from fn means the store could not be
// reached.
type ReferenceStore interface {
	WithConnection(ctx context.Context, fn func(ReferenceReader) error) error
}
