package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	menudomain "github.com/Apurer/dineflow/internal/domains/menu/domain"
)

var (
	ErrInvalidDiscount = errors.New("discount must be between 0 and 100 percent")
	ErrItemUnavailable = errors.New("menu item is missing or unavailable")
	ErrEmptyOrder      = errors.New("order has no items")
	ErrInvalidOrderID  = errors.New("order id must be greater than zero")
)

var hundred = decimal.NewFromInt(100)

// Line references a catalog item by its stable ID and keeps a snapshot of the
// item as it was when ordered, used when the catalog no longer has it.
type Line struct {
	ItemID   string
	Snapshot menudomain.Item
}

// Ticket is one table's order.
type Ticket struct {
	ID              int64
	TableNumber     int
	CustomerName    string
	Lines           []Line
	CreatedAt       time.Time
	Status          Status
	Instructions    string
	DiscountPercent decimal.Decimal
}

// NewTicket opens a pending ticket.
func NewTicket(id int64, tableNumber int, customerName string, createdAt time.Time) (*Ticket, error) {
	if id <= 0 {
		return nil, ErrInvalidOrderID
	}
	return &Ticket{
		ID:           id,
		TableNumber:  tableNumber,
		CustomerName: strings.TrimSpace(customerName),
		CreatedAt:    createdAt,
		Status:       StatusPending,
	}, nil
}

// Append adds a reference to an available item.
func (t *Ticket) Append(item *menudomain.Item) error {
	if item == nil || !item.Available {
		return ErrItemUnavailable
	}
	t.Lines = append(t.Lines, Line{ItemID: item.ID, Snapshot: *item.Clone()})
	return nil
}

// RemoveEntry drops the first line whose item name matches case-insensitively.
func (t *Ticket) RemoveEntry(name string) bool {
	for i, line := range t.Lines {
		if line.Snapshot.MatchesName(name) {
			t.Lines = append(t.Lines[:i:i], t.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// ApplyDiscount sets the discount percentage. Values outside [0, 100] leave
// the current discount unchanged.
func (t *Ticket) ApplyDiscount(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return ErrInvalidDiscount
	}
	t.DiscountPercent = percent
	return nil
}

// UpdateStatus accepts any known status regardless of the current one.
func (t *Ticket) UpdateStatus(status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	t.Status = status
	return nil
}

// SetInstructions stores free-text kitchen notes.
func (t *Ticket) SetInstructions(text string) {
	t.Instructions = strings.TrimSpace(text)
}

// ItemIDs lists line references in order.
func (t *Ticket) ItemIDs() []string {
	ids := make([]string, 0, len(t.Lines))
	for _, line := range t.Lines {
		ids = append(ids, line.ItemID)
	}
	return ids
}

// Validate enforces the invariants of a ticket ready to be stored.
func (t *Ticket) Validate() error {
	if t.ID <= 0 {
		return ErrInvalidOrderID
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	if t.DiscountPercent.IsNegative() || t.DiscountPercent.GreaterThan(hundred) {
		return ErrInvalidDiscount
	}
	return nil
}

// Clone returns a deep copy.
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	c := *t
	c.Lines = append([]Line(nil), t.Lines...)
	return &c
}
