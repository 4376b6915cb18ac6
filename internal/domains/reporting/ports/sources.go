package ports

import (
	"context"

	menudomain "github.com/Apurer/dineflow/internal/domains/menu/domain"
	ordersdomain "github.com/Apurer/dineflow/internal/domains/orders/domain"
)

// OrderSource is the read side of the order store.
type OrderSource interface {
	List(ctx context.Context) ([]*ordersdomain.Ticket, error)
	Bill(ctx context.Context, ticket *ordersdomain.Ticket) ordersdomain.Bill
}

// PopularitySource is the read side of the catalog.
type PopularitySource interface {
	MostPopular(ctx context.Context, n int) ([]*menudomain.Item, error)
}
