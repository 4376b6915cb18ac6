package ports

import (
	"context"

	"github.com/shopspring/decimal"

	menudomain "github.com/Apurer/dineflow/internal/domains/menu/domain"
	"github.com/Apurer/dineflow/internal/domains/orders/domain"
)

// Service exposes order lifecycle use cases to adapters.
type Service interface {
	Load(ctx context.Context) error
	NewTicket(ctx context.Context, tableNumber int, customerName string) (*domain.Ticket, error)
	AddEntry(ctx context.Context, ticket *domain.Ticket, itemName string) (*menudomain.Item, error)
	RemoveEntry(ctx context.Context, ticket *domain.Ticket, itemName string) error
	ApplyDiscount(ctx context.Context, ticket *domain.Ticket, percent decimal.Decimal) error
	Place(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	FindByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context) ([]*domain.Ticket, error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Ticket, error)
	Bill(ctx context.Context, ticket *domain.Ticket) domain.Bill
	Receipt(ctx context.Context, id int64) (string, error)
	ExportReceipt(ctx context.Context, id int64) (string, error)
}
