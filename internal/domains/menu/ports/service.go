package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/dineflow/internal/domains/menu/domain"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	Load(ctx context.Context) error
	Add(ctx context.Context, item *domain.Item) (*domain.Item, error)
	FindByName(ctx context.Context, name string) (*domain.Item, error)
	UpdatePrice(ctx context.Context, name string, price decimal.Decimal) (*domain.Item, error)
	ToggleAvailability(ctx context.Context, name string) (*domain.Item, error)
	Remove(ctx context.Context, name string) error
	List(ctx context.Context) ([]*domain.Item, error)
	ListByCategory(ctx context.Context, category domain.Category) ([]*domain.Item, error)
	MostPopular(ctx context.Context, n int) ([]*domain.Item, error)
	RecordOrdered(ctx context.Context, id string) (*domain.Item, error)
	Resolve(id string) (*domain.Item, bool)
}
