package observability

import (
	"context"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	menudomain "github.com/Apurer/dineflow/internal/domains/menu/domain"
	ordersdomain "github.com/Apurer/dineflow/internal/domains/orders/domain"
	ordersports "github.com/Apurer/dineflow/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/dineflow/internal/domains/orders/adapters/observability/service"

// Service decorates the order store with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Load(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.Load")
	defer span.End()

	if err := s.inner.Load(ctx); err != nil {
		return s.handleError(ctx, span, err, "orders loaded with warnings")
	}
	s.logInfo(ctx, "orders loaded")
	return nil
}

func (s *Service) NewTicket(ctx context.Context, tableNumber int, customerName string) (*ordersdomain.Ticket, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.NewTicket", trace.WithAttributes(attribute.Int("order.table", tableNumber)))
	defer span.End()

	result, err := s.inner.NewTicket(ctx, tableNumber, customerName)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to open ticket", slog.Int("order.table", tableNumber))
	}
	span.SetAttributes(attribute.Int64("order.id", result.ID))
	s.logInfo(ctx, "ticket opened", slog.Int64("order.id", result.ID), slog.Int("order.table", tableNumber))
	return result, nil
}

func (s *Service) AddEntry(ctx context.Context, ticket *ordersdomain.Ticket, itemName string) (*menudomain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.AddEntry",
		trace.WithAttributes(attribute.Int64("order.id", ticketID(ticket)), attribute.String("menu.item.name", itemName)))
	defer span.End()

	result, err := s.inner.AddEntry(ctx, ticket, itemName)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to add entry",
			slog.Int64("order.id", ticketID(ticket)), slog.String("menu.item.name", itemName))
	}
	s.metrics.recordEntry(ctx, result.Category())
	s.logInfo(ctx, "entry added", slog.Int64("order.id", ticketID(ticket)), slog.String("menu.item.name", result.Name))
	return result, nil
}

func (s *Service) RemoveEntry(ctx context.Context, ticket *ordersdomain.Ticket, itemName string) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.RemoveEntry",
		trace.WithAttributes(attribute.Int64("order.id", ticketID(ticket)), attribute.String("menu.item.name", itemName)))
	defer span.End()

	if err := s.inner.RemoveEntry(ctx, ticket, itemName); err != nil {
		return s.handleError(ctx, span, err, "failed to remove entry", slog.Int64("order.id", ticketID(ticket)))
	}
	s.logInfo(ctx, "entry removed", slog.Int64("order.id", ticketID(ticket)), slog.String("menu.item.name", itemName))
	return nil
}

func (s *Service) ApplyDiscount(ctx context.Context, ticket *ordersdomain.Ticket, percent decimal.Decimal) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.ApplyDiscount",
		trace.WithAttributes(attribute.Int64("order.id", ticketID(ticket)), attribute.String("order.discount", percent.String())))
	defer span.End()

	if err := s.inner.ApplyDiscount(ctx, ticket, percent); err != nil {
		return s.handleError(ctx, span, err, "discount ignored", slog.String("order.discount", percent.String()))
	}
	return nil
}

func (s *Service) Place(ctx context.Context, ticket *ordersdomain.Ticket) (*ordersdomain.Ticket, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Place", trace.WithAttributes(attribute.Int64("order.id", ticketID(ticket))))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Int64("order.id", ticketID(ticket)))
	result, err := s.inner.Place(ctx, ticket)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to place order", slog.Int64("order.id", ticketID(ticket)))
	}
	s.metrics.recordPlaced(ctx, result.Status)
	s.logInfo(ctx, "order placed", slog.Int64("order.id", result.ID), slog.Int("order.lines", len(result.Lines)))
	return result, nil
}

func (s *Service) FindByID(ctx context.Context, id int64) (*ordersdomain.Ticket, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.FindByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.FindByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *Service) List(ctx context.Context) ([]*ordersdomain.Ticket, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.List")
	defer span.End()

	result, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status ordersdomain.Status) (*ordersdomain.Ticket, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateStatus",
		trace.WithAttributes(attribute.Int64("order.id", id), attribute.String("order.status", string(status))))
	defer span.End()

	s.logInfo(ctx, "updating order status", slog.Int64("order.id", id), slog.String("status", string(status)))
	result, err := s.inner.UpdateStatus(ctx, id, status)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to update order status", slog.Int64("order.id", id))
	}
	s.metrics.recordStatus(ctx, result.Status)
	return result, nil
}

func (s *Service) Bill(ctx context.Context, ticket *ordersdomain.Ticket) ordersdomain.Bill {
	return s.inner.Bill(ctx, ticket)
}

func (s *Service) Receipt(ctx context.Context, id int64) (string, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Receipt", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.Receipt(ctx, id)
	if err != nil {
		return "", s.handleError(ctx, span, err, "failed to render receipt", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *Service) ExportReceipt(ctx context.Context, id int64) (string, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ExportReceipt", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	path, err := s.inner.ExportReceipt(ctx, id)
	if err != nil {
		return "", s.handleError(ctx, span, err, "failed to export receipt", slog.Int64("order.id", id))
	}
	s.logInfo(ctx, "receipt exported", slog.Int64("order.id", id), slog.String("path", path))
	return path, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func ticketID(t *ordersdomain.Ticket) int64 {
	if t == nil {
		return 0
	}
	return t.ID
}

type serviceMetrics struct {
	ordersPlaced  metric.Int64Counter
	entriesAdded  metric.Int64Counter
	statusChanges metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	entriesAdded, _ := m.Int64Counter("orders.service.entries_added", metric.WithDescription("Number of menu items added to tickets"))
	statusChanges, _ := m.Int64Counter("orders.service.status_changes", metric.WithDescription("Number of order status changes"))
	return serviceMetrics{ordersPlaced: ordersPlaced, entriesAdded: entriesAdded, statusChanges: statusChanges}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, status ordersdomain.Status) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordEntry(ctx context.Context, category menudomain.Category) {
	if m.entriesAdded != nil {
		m.entriesAdded.Add(ctx, 1, metric.WithAttributes(attribute.String("menu.category", string(category))))
	}
}

func (m serviceMetrics) recordStatus(ctx context.Context, status ordersdomain.Status) {
	if m.statusChanges != nil {
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

var _ ordersports.Service = (*Service)(nil)
