package dineflow

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	menufile "github.com/Apurer/dineflow/internal/domains/menu/adapters/file"
	menuobs "github.com/Apurer/dineflow/internal/domains/menu/adapters/observability"
	menupostgres "github.com/Apurer/dineflow/internal/domains/menu/adapters/persistence/postgres"
	menuapp "github.com/Apurer/dineflow/internal/domains/menu/application"
	menuports "github.com/Apurer/dineflow/internal/domains/menu/ports"
	ordersfile "github.com/Apurer/dineflow/internal/domains/orders/adapters/file"
	ordersamqp "github.com/Apurer/dineflow/internal/domains/orders/adapters/messaging/amqp"
	ordersobs "github.com/Apurer/dineflow/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/dineflow/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/dineflow/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/dineflow/internal/domains/orders/domain"
	ordersports "github.com/Apurer/dineflow/internal/domains/orders/ports"
	reportingapp "github.com/Apurer/dineflow/internal/domains/reporting/application"
	reportingports "github.com/Apurer/dineflow/internal/domains/reporting/ports"
	"github.com/Apurer/dineflow/internal/platform/migrations"
	platformobservability "github.com/Apurer/dineflow/internal/platform/observability"
	platformpostgres "github.com/Apurer/dineflow/internal/platform/postgres"
)

const serviceName = "dineflow"

// App holds the wired services for one process.
type App struct {
	Logger  *slog.Logger
	Menu    menuports.Service
	Orders  ordersports.Service
	Reports reportingports.Service

	cleanups []func()
}

// Close releases broker and database connections and flushes telemetry.
func (a *App) Close() {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
	a.cleanups = nil
}

// Options tweak Build for tests.
type Options struct {
	LogOutput io.Writer
	Clock     func() time.Time
}

// Build wires storage, messaging, and observability around the core services
// and loads both stores. Load failures are warnings: the affected store
// starts empty.
func Build(ctx context.Context, cfg Config, opts Options) (*App, error) {
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Options{
		ServiceName: serviceName,
		LogLevel:    cfg.LogLevel,
		Exporter:    cfg.TraceExporter,
		LogOutput:   opts.LogOutput,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	logger := instruments.Logger
	app := &App{Logger: logger}
	app.cleanups = append(app.cleanups, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	})

	menuRepo, orderRepo := buildRepositories(ctx, cfg, logger, app)

	coreMenu := menuapp.NewService(menuRepo, menuapp.WithLogger(logger))
	app.Menu = menuobs.New(
		coreMenu,
		menuobs.WithLogger(logger),
		menuobs.WithTracer(instruments.Tracer("internal.menu.application")),
		menuobs.WithMeter(instruments.Meter("internal.menu.application")),
	)

	orderOpts := []ordersapp.Option{
		ordersapp.WithLogger(logger),
		ordersapp.WithSequence(ordersdomain.NewSequence()),
		ordersapp.WithPublisher(buildPublisher(cfg, logger, app)),
		ordersapp.WithReceiptDir(cfg.ReceiptDir),
	}
	if opts.Clock != nil {
		orderOpts = append(orderOpts, ordersapp.WithClock(opts.Clock))
	}
	coreOrders := ordersapp.NewService(orderRepo, app.Menu, orderOpts...)
	app.Orders = ordersobs.New(
		coreOrders,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	app.Reports = reportingapp.NewService(app.Orders, app.Menu, reportingapp.WithLogger(logger))

	if err := app.Menu.Load(ctx); err != nil {
		logger.Warn("menu starts empty", slog.String("error", err.Error()))
	}
	if err := app.Orders.Load(ctx); err != nil {
		logger.Warn("order history starts empty", slog.String("error", err.Error()))
	}
	return app, nil
}

func buildRepositories(ctx context.Context, cfg Config, logger *slog.Logger, app *App) (menuports.Repository, ordersports.Repository) {
	fileStores := func() (menuports.Repository, ordersports.Repository) {
		logger.Debug("using file storage",
			slog.String("menu_file", cfg.MenuFile), slog.String("orders_file", cfg.OrdersFile))
		return menufile.NewRepository(cfg.MenuFile), ordersfile.NewRepository(cfg.OrdersFile)
	}

	db, cleanup, err := platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to file storage", slog.String("error", err.Error()))
		return fileStores()
	}
	if db == nil {
		return fileStores()
	}
	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		cleanup()
		logger.Warn("failed to migrate postgres schema, falling back to file storage", slog.String("error", err.Error()))
		return fileStores()
	}
	app.cleanups = append(app.cleanups, cleanup)
	logger.Info("repositories configured with postgres")
	return menupostgres.NewRepository(db), orderspostgres.NewRepository(db)
}

func buildPublisher(cfg Config, logger *slog.Logger, app *App) ordersports.EventPublisher {
	if cfg.AMQPURL == "" {
		return ordersports.NopPublisher{}
	}
	publisher, err := ordersamqp.Dial(cfg.AMQPURL, cfg.AMQPExchange, logger)
	if err != nil {
		logger.Warn("order events disabled", slog.String("error", err.Error()))
		return ordersports.NopPublisher{}
	}
	app.cleanups = append(app.cleanups, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("failed to close event publisher", slog.String("error", err.Error()))
		}
	})
	logger.Info("order events enabled", slog.String("exchange", cfg.AMQPExchange))
	return publisher
}
