package ports

import (
	"context"

	menudomain "github.com/Apurer/dineflow/internal/domains/menu/domain"
)

// Catalog is the slice of the menu the order store depends on.
type Catalog interface {
	FindByName(ctx context.Context, name string) (*menudomain.Item, error)
	RecordOrdered(ctx context.Context, id string) (*menudomain.Item, error)
	Resolve(id string) (*menudomain.Item, bool)
}
