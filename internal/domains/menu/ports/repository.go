package ports

import (
	"context"
	"errors"

	"github.com/Apurer/dineflow/internal/domains/menu/domain"
)

var ErrNotFound = errors.New("menu item not found")

// Repository stores whole-catalog snapshots in insertion order.
type Repository interface {
	Load(ctx context.Context) ([]*domain.Item, error)
	Save(ctx context.Context, items []*domain.Item) error
}
