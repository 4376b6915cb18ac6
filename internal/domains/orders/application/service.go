package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	menudomain "github.com/Apurer/dineflow/internal/domains/menu/domain"
	"github.com/Apurer/dineflow/internal/domains/orders/domain"
	"github.com/Apurer/dineflow/internal/domains/orders/ports"
	"github.com/Apurer/dineflow/internal/platform/filestore"
)

// Service is the order store. Placed tickets are append-only; the whole
// history is written through to the repository after every change.
type Service struct {
	mu         sync.RWMutex
	tickets    []*domain.Ticket
	repo       ports.Repository
	catalog    ports.Catalog
	seq        *domain.Sequence
	publisher  ports.EventPublisher
	logger     *slog.Logger
	now        func() time.Time
	receiptDir string
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSequence shares an order-ID counter. By default each Service owns one.
func WithSequence(seq *domain.Sequence) Option {
	return func(s *Service) {
		if seq != nil {
			s.seq = seq
		}
	}
}

func WithPublisher(p ports.EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithReceiptDir sets where ExportReceipt writes files.
func WithReceiptDir(dir string) Option {
	return func(s *Service) {
		s.receiptDir = dir
	}
}

// NewService wires the order store with its repository and the catalog it orders from.
func NewService(repo ports.Repository, catalog ports.Catalog, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		catalog:    catalog,
		seq:        domain.NewSequence(),
		publisher:  ports.NopPublisher{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        time.Now,
		receiptDir: "receipts",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Load replaces the in-memory history with the persisted snapshot and seeds
// the order-ID counter from the highest stored ID. A failed read starts an
// empty history; the returned error wraps ErrPersistence and is a warning.
func (s *Service) Load(ctx context.Context) error {
	tickets, loadErr := s.repo.Load(ctx)
	if loadErr != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to load orders, starting empty", slog.String("error", loadErr.Error()))
		tickets = nil
	}
	loaded := make([]*domain.Ticket, 0, len(tickets))
	var highest int64
	for _, t := range tickets {
		if t == nil {
			continue
		}
		loaded = append(loaded, t.Clone())
		if t.ID > highest {
			highest = t.ID
		}
	}
	s.mu.Lock()
	s.tickets = loaded
	s.mu.Unlock()
	s.seq.Seed(highest)
	if loadErr != nil {
		return errors.Join(ErrPersistence, loadErr)
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, "orders loaded",
		slog.Int("orders", len(loaded)), slog.Int64("order.id.current", s.seq.Current()))
	return nil
}

// NewTicket opens a pending ticket with the next order ID. The ticket is a
// draft until Place stores it.
func (s *Service) NewTicket(_ context.Context, tableNumber int, customerName string) (*domain.Ticket, error) {
	t, err := domain.NewTicket(s.seq.Next(), tableNumber, customerName, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

// AddEntry resolves itemName against the catalog, appends it to the ticket
// and counts it towards the item's popularity.
func (s *Service) AddEntry(ctx context.Context, ticket *domain.Ticket, itemName string) (*menudomain.Item, error) {
	if ticket == nil {
		return nil, fmt.Errorf("%w: ticket is nil", ErrInvalidInput)
	}
	item, err := s.catalog.FindByName(ctx, itemName)
	if err != nil {
		return nil, err
	}
	if err := ticket.Append(item); err != nil {
		return item, mapError(err)
	}
	updated, err := s.catalog.RecordOrdered(ctx, item.ID)
	if updated == nil {
		// Item left the catalog after lookup; nothing was counted.
		ticket.Lines = ticket.Lines[:len(ticket.Lines)-1]
		if err == nil {
			err = fmt.Errorf("%w: %q", ports.ErrNotFound, itemName)
		}
		return nil, err
	}
	return updated, err
}

// RemoveEntry drops the first matching line. Popularity is left as is.
func (s *Service) RemoveEntry(_ context.Context, ticket *domain.Ticket, itemName string) error {
	if ticket == nil {
		return fmt.Errorf("%w: ticket is nil", ErrInvalidInput)
	}
	if !ticket.RemoveEntry(itemName) {
		return fmt.Errorf("%w: %q is not on order #%d", ports.ErrNotFound, itemName, ticket.ID)
	}
	return nil
}

// ApplyDiscount sets the ticket discount; out-of-range values are ignored.
func (s *Service) ApplyDiscount(_ context.Context, ticket *domain.Ticket, percent decimal.Decimal) error {
	if ticket == nil {
		return fmt.Errorf("%w: ticket is nil", ErrInvalidInput)
	}
	return mapError(ticket.ApplyDiscount(percent))
}

// Place stores a ticket and writes the order history through.
func (s *Service) Place(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	if ticket == nil {
		return nil, fmt.Errorf("%w: ticket is nil", ErrInvalidInput)
	}
	if err := ticket.Validate(); err != nil {
		return nil, mapError(err)
	}
	if len(ticket.Lines) == 0 {
		return nil, mapError(domain.ErrEmptyOrder)
	}
	stored := ticket.Clone()

	s.mu.Lock()
	for _, existing := range s.tickets {
		if existing.ID == stored.ID {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: #%d", ErrDuplicateOrder, stored.ID)
		}
	}
	s.tickets = append(s.tickets, stored)
	persistErr := s.persistLocked(ctx)
	s.mu.Unlock()
	s.seq.Seed(stored.ID)

	bill := stored.ComputeBill(s.catalog)
	s.publish(ctx, domain.OrderPlaced{
		BaseEvent:    domain.BaseEvent{Timestamp: s.now()},
		OrderID:      stored.ID,
		TableNumber:  stored.TableNumber,
		CustomerName: stored.CustomerName,
		Items:        lineNames(stored),
		Instructions: stored.Instructions,
		Total:        bill.Total.StringFixed(2),
	})
	return stored.Clone(), persistErr
}

// FindByID returns a copy of the stored ticket.
func (s *Service) FindByID(_ context.Context, id int64) (*domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t := s.findLocked(id); t != nil {
		return t.Clone(), nil
	}
	return nil, fmt.Errorf("%w: #%d", ports.ErrNotFound, id)
}

// List returns every stored ticket in placement order.
func (s *Service) List(_ context.Context) ([]*domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		out = append(out, t.Clone())
	}
	return out, nil
}

// UpdateStatus moves a stored ticket to any known status.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Ticket, error) {
	s.mu.Lock()
	t := s.findLocked(id)
	if t == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: #%d", ports.ErrNotFound, id)
	}
	from := t.Status
	if err := t.UpdateStatus(status); err != nil {
		s.mu.Unlock()
		return nil, mapError(err)
	}
	persistErr := s.persistLocked(ctx)
	updated := t.Clone()
	s.mu.Unlock()

	s.publish(ctx, domain.OrderStatusChanged{
		BaseEvent:  domain.BaseEvent{Timestamp: s.now()},
		OrderID:    id,
		FromStatus: from,
		ToStatus:   status,
	})
	return updated, persistErr
}

// Bill prices a ticket against the current catalog.
func (s *Service) Bill(_ context.Context, ticket *domain.Ticket) domain.Bill {
	if ticket == nil {
		return domain.Bill{}
	}
	return ticket.ComputeBill(s.catalog)
}

// Receipt renders the receipt of a stored ticket.
func (s *Service) Receipt(ctx context.Context, id int64) (string, error) {
	t, err := s.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return domain.RenderReceipt(t, t.ComputeBill(s.catalog)), nil
}

// ExportReceipt writes the receipt to receipt_<id>.txt in the receipt
// directory and returns the file path.
func (s *Service) ExportReceipt(ctx context.Context, id int64) (string, error) {
	receipt, err := s.Receipt(ctx, id)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.receiptDir, "receipt_"+strconv.FormatInt(id, 10)+".txt")
	if err := filestore.WriteAtomic(path, []byte(receipt), 0o644); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to export receipt",
			slog.Int64("order.id", id), slog.String("path", path), slog.String("error", err.Error()))
		return "", errors.Join(ErrPersistence, err)
	}
	return path, nil
}

func (s *Service) findLocked(id int64) *domain.Ticket {
	for _, t := range s.tickets {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// persistLocked writes the snapshot. The in-memory change is kept either way.
func (s *Service) persistLocked(ctx context.Context) error {
	snapshot := make([]*domain.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		snapshot = append(snapshot, t.Clone())
	}
	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to persist orders, change kept in memory",
			slog.Int("orders", len(snapshot)), slog.String("error", err.Error()))
		return errors.Join(ErrPersistence, err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event domain.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish order event",
			slog.String("event", event.EventName()), slog.String("error", err.Error()))
	}
}

func lineNames(t *domain.Ticket) []string {
	names := make([]string, 0, len(t.Lines))
	for _, line := range t.Lines {
		names = append(names, line.Snapshot.Name)
	}
	return names
}

var _ ports.Service = (*Service)(nil)
