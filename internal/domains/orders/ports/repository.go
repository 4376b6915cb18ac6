package ports

import (
	"context"
	"errors"

	"github.com/Apurer/dineflow/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository stores the whole order history as one snapshot.
type Repository interface {
	Load(ctx context.Context) ([]*domain.Ticket, error)
	Save(ctx context.Context, tickets []*domain.Ticket) error
}
