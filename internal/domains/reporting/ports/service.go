package ports

import (
	"context"

	"github.com/shopspring/decimal"

	menudomain "github.com/Apurer/dineflow/internal/domains/menu/domain"
)

// TopTables caps the table utilization ranking.
const TopTables = 5

// TableCount is the number of orders taken at one table.
type TableCount struct {
	TableNumber int
	Orders      int
}

// Summary aggregates the whole order history.
type Summary struct {
	OrderCount int
	Revenue    decimal.Decimal
	// Average is nil when there are no orders.
	Average *decimal.Decimal
	Billed  int
	Open    int
	Tables  []TableCount
}

// Service exposes read-only reports.
type Service interface {
	Summary(ctx context.Context) (Summary, error)
	Popularity(ctx context.Context, n int) ([]*menudomain.Item, error)
}
