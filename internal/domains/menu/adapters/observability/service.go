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
	menuports "github.com/Apurer/dineflow/internal/domains/menu/ports"
)

const tracerName = "github.com/Apurer/dineflow/internal/domains/menu/adapters/observability/service"

// Service decorates the catalog with tracing, logging, and metrics.
type Service struct {
	inner   menuports.Service
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

// New wraps the core catalog service.
func New(inner menuports.Service, opts ...Option) menuports.Service {
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
	ctx, span := s.tracer.Start(ctx, "MenuService.Load")
	defer span.End()

	if err := s.inner.Load(ctx); err != nil {
		return s.handleError(ctx, span, err, "menu loaded with warnings")
	}
	s.logInfo(ctx, "menu loaded")
	return nil
}

func (s *Service) Add(ctx context.Context, item *menudomain.Item) (*menudomain.Item, error) {
	name := ""
	if item != nil {
		name = item.Name
	}
	ctx, span := s.tracer.Start(ctx, "MenuService.Add", trace.WithAttributes(attribute.String("menu.item.name", name)))
	defer span.End()

	s.logInfo(ctx, "adding menu item", slog.String("menu.item.name", name))
	result, err := s.inner.Add(ctx, item)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to add menu item", slog.String("menu.item.name", name))
	}
	s.metrics.recordMutation(ctx, "add", result.Category())
	s.logInfo(ctx, "menu item added", slog.String("menu.item.id", result.ID), slog.String("menu.item.category", string(result.Category())))
	return result, nil
}

func (s *Service) FindByName(ctx context.Context, name string) (*menudomain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.FindByName", trace.WithAttributes(attribute.String("menu.item.name", name)))
	defer span.End()

	result, err := s.inner.FindByName(ctx, name)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "menu item lookup failed", slog.String("menu.item.name", name))
	}
	return result, nil
}

func (s *Service) UpdatePrice(ctx context.Context, name string, price decimal.Decimal) (*menudomain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.UpdatePrice",
		trace.WithAttributes(attribute.String("menu.item.name", name), attribute.String("menu.item.price", price.String())))
	defer span.End()

	s.logInfo(ctx, "updating menu price", slog.String("menu.item.name", name), slog.String("price", price.String()))
	result, err := s.inner.UpdatePrice(ctx, name, price)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to update menu price", slog.String("menu.item.name", name))
	}
	s.metrics.recordMutation(ctx, "update_price", result.Category())
	return result, nil
}

func (s *Service) ToggleAvailability(ctx context.Context, name string) (*menudomain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.ToggleAvailability", trace.WithAttributes(attribute.String("menu.item.name", name)))
	defer span.End()

	result, err := s.inner.ToggleAvailability(ctx, name)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to toggle availability", slog.String("menu.item.name", name))
	}
	s.metrics.recordMutation(ctx, "toggle_availability", result.Category())
	s.logInfo(ctx, "availability toggled", slog.String("menu.item.name", result.Name), slog.Bool("available", result.Available))
	return result, nil
}

func (s *Service) Remove(ctx context.Context, name string) error {
	ctx, span := s.tracer.Start(ctx, "MenuService.Remove", trace.WithAttributes(attribute.String("menu.item.name", name)))
	defer span.End()

	s.logInfo(ctx, "removing menu item", slog.String("menu.item.name", name))
	if err := s.inner.Remove(ctx, name); err != nil {
		return s.handleError(ctx, span, err, "failed to remove menu item", slog.String("menu.item.name", name))
	}
	s.metrics.recordMutation(ctx, "remove", "")
	return nil
}

func (s *Service) List(ctx context.Context) ([]*menudomain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.List")
	defer span.End()

	result, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list menu")
	}
	span.SetAttributes(attribute.Int("menu.items.count", len(result)))
	return result, nil
}

func (s *Service) ListByCategory(ctx context.Context, category menudomain.Category) ([]*menudomain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.ListByCategory", trace.WithAttributes(attribute.String("menu.category", string(category))))
	defer span.End()

	result, err := s.inner.ListByCategory(ctx, category)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list menu category", slog.String("menu.category", string(category)))
	}
	span.SetAttributes(attribute.Int("menu.items.count", len(result)))
	return result, nil
}

func (s *Service) MostPopular(ctx context.Context, n int) ([]*menudomain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.MostPopular", trace.WithAttributes(attribute.Int("menu.top_n", n)))
	defer span.End()

	result, err := s.inner.MostPopular(ctx, n)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to rank menu")
	}
	return result, nil
}

func (s *Service) RecordOrdered(ctx context.Context, id string) (*menudomain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.RecordOrdered", trace.WithAttributes(attribute.String("menu.item.id", id)))
	defer span.End()

	result, err := s.inner.RecordOrdered(ctx, id)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to record popularity", slog.String("menu.item.id", id))
	}
	span.SetAttributes(attribute.Int64("menu.item.popularity", result.Popularity))
	return result, nil
}

func (s *Service) Resolve(id string) (*menudomain.Item, bool) {
	return s.inner.Resolve(id)
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

type serviceMetrics struct {
	mutations metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	mutations, _ := m.Int64Counter("menu.service.mutations", metric.WithDescription("Number of catalog mutations"))
	return serviceMetrics{mutations: mutations}
}

func (m serviceMetrics) recordMutation(ctx context.Context, op string, category menudomain.Category) {
	if m.mutations != nil {
		m.mutations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("menu.op", op),
			attribute.String("menu.category", string(category)),
		))
	}
}

var _ menuports.Service = (*Service)(nil)
