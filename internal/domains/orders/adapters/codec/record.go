// Package codec maps tickets to the persisted form shared by the order stores.
package codec

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	menucodec "github.com/Apurer/dineflow/internal/domains/menu/adapters/codec"
	"github.com/Apurer/dineflow/internal/domains/orders/domain"
)

// LineRecord keeps the item reference and a denormalized item snapshot.
type LineRecord struct {
	ItemID string           `json:"item_id"`
	Item   menucodec.Record `json:"item"`
}

// TicketRecord is the persisted ticket.
type TicketRecord struct {
	ID              int64           `json:"id"`
	TableNumber     int             `json:"table_number"`
	CustomerName    string          `json:"customer_name"`
	Lines           []LineRecord    `json:"lines"`
	CreatedAt       time.Time       `json:"created_at"`
	Status          string          `json:"status"`
	Instructions    string          `json:"instructions,omitempty"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// FromDomain flattens a ticket.
func FromDomain(t *domain.Ticket) TicketRecord {
	return TicketRecord{
		ID:              t.ID,
		TableNumber:     t.TableNumber,
		CustomerName:    t.CustomerName,
		Lines:           LinesFromDomain(t.Lines),
		CreatedAt:       t.CreatedAt,
		Status:          string(t.Status),
		Instructions:    t.Instructions,
		DiscountPercent: t.DiscountPercent,
	}
}

// ToDomain rebuilds a ticket and checks its invariants.
func (r TicketRecord) ToDomain() (*domain.Ticket, error) {
	lines, err := LinesToDomain(r.Lines)
	if err != nil {
		return nil, fmt.Errorf("order #%d: %w", r.ID, err)
	}
	t := &domain.Ticket{
		ID:              r.ID,
		TableNumber:     r.TableNumber,
		CustomerName:    r.CustomerName,
		Lines:           lines,
		CreatedAt:       r.CreatedAt,
		Status:          domain.Status(r.Status),
		Instructions:    r.Instructions,
		DiscountPercent: r.DiscountPercent,
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("order #%d: %w", r.ID, err)
	}
	return t, nil
}

// LinesFromDomain flattens ticket lines.
func LinesFromDomain(lines []domain.Line) []LineRecord {
	out := make([]LineRecord, 0, len(lines))
	for i := range lines {
		out = append(out, LineRecord{ItemID: lines[i].ItemID, Item: menucodec.FromDomain(&lines[i].Snapshot)})
	}
	return out
}

// LinesToDomain rebuilds ticket lines.
func LinesToDomain(records []LineRecord) ([]domain.Line, error) {
	if len(records) == 0 {
		return nil, nil
	}
	out := make([]domain.Line, 0, len(records))
	for _, rec := range records {
		item, err := rec.Item.ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Line{ItemID: rec.ItemID, Snapshot: *item})
	}
	return out, nil
}

// FromDomainList flattens tickets.
func FromDomainList(tickets []*domain.Ticket) []TicketRecord {
	out := make([]TicketRecord, 0, len(tickets))
	for _, t := range tickets {
		if t != nil {
			out = append(out, FromDomain(t))
		}
	}
	return out
}

// ToDomainList rebuilds tickets in record order.
func ToDomainList(records []TicketRecord) ([]*domain.Ticket, error) {
	out := make([]*domain.Ticket, 0, len(records))
	for _, rec := range records {
		t, err := rec.ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
