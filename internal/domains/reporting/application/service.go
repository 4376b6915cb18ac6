package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	menudomain "github.com/Apurer/dineflow/internal/domains/menu/domain"
	ordersdomain "github.com/Apurer/dineflow/internal/domains/orders/domain"
	"github.com/Apurer/dineflow/internal/domains/reporting/ports"
)

// Service computes reports on demand from the order store and the catalog.
type Service struct {
	orders ports.OrderSource
	menu   ports.PopularitySource
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(orders ports.OrderSource, menu ports.PopularitySource, opts ...Option) *Service {
	s := &Service{
		orders: orders,
		menu:   menu,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Summary totals revenue with tax over every stored order.
func (s *Service) Summary(ctx context.Context) (ports.Summary, error) {
	tickets, err := s.orders.List(ctx)
	if err != nil {
		return ports.Summary{}, fmt.Errorf("list orders: %w", err)
	}

	summary := ports.Summary{Revenue: decimal.Zero, Tables: []ports.TableCount{}}
	counts := make(map[int]int)
	var seen []int
	for _, t := range tickets {
		if t == nil {
			continue
		}
		summary.OrderCount++
		summary.Revenue = summary.Revenue.Add(s.orders.Bill(ctx, t).Total)
		if t.Status == ordersdomain.StatusBilled {
			summary.Billed++
		} else {
			summary.Open++
		}
		if _, ok := counts[t.TableNumber]; !ok {
			seen = append(seen, t.TableNumber)
		}
		counts[t.TableNumber]++
	}

	if summary.OrderCount > 0 {
		avg := summary.Revenue.Div(decimal.NewFromInt(int64(summary.OrderCount)))
		summary.Average = &avg
	}

	for _, table := range seen {
		summary.Tables = append(summary.Tables, ports.TableCount{TableNumber: table, Orders: counts[table]})
	}
	sort.SliceStable(summary.Tables, func(i, j int) bool {
		return summary.Tables[i].Orders > summary.Tables[j].Orders
	})
	if len(summary.Tables) > ports.TopTables {
		summary.Tables = summary.Tables[:ports.TopTables]
	}

	s.logger.LogAttrs(ctx, slog.LevelDebug, "summary computed",
		slog.Int("orders", summary.OrderCount), slog.String("revenue", summary.Revenue.StringFixed(2)))
	return summary, nil
}

// Popularity returns up to n of the most ordered items. Items never ordered
// are left out even when they fall inside the top n.
func (s *Service) Popularity(ctx context.Context, n int) ([]*menudomain.Item, error) {
	items, err := s.menu.MostPopular(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("most popular: %w", err)
	}
	out := make([]*menudomain.Item, 0, len(items))
	for _, item := range items {
		if item != nil && item.Popularity > 0 {
			out = append(out, item)
		}
	}
	return out, nil
}

var _ ports.Service = (*Service)(nil)
