package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	menumemory "github.com/Apurer/dineflow/internal/domains/menu/adapters/memory"
	menuapp "github.com/Apurer/dineflow/internal/domains/menu/application"
	menudomain "github.com/Apurer/dineflow/internal/domains/menu/domain"
	ordersmemory "github.com/Apurer/dineflow/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Apurer/dineflow/internal/domains/orders/application"
	"github.com/Apurer/dineflow/internal/domains/orders/ports"
)

func TestService_TracesAndLogs(t *testing.T) {
	ctx := context.Background()
	menu := menuapp.NewService(menumemory.NewRepository())
	require.NoError(t, menu.Load(ctx))
	item, err := menudomain.NewFood("Dal", decimal.RequireFromString("90"), menudomain.Food{})
	require.NoError(t, err)
	_, err = menu.Add(ctx, item)
	require.NoError(t, err)

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	var logs bytes.Buffer
	svc := New(
		ordersapp.NewService(ordersmemory.NewRepository(), menu),
		WithTracer(provider.Tracer("test")),
		WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))),
	)
	require.NoError(t, svc.Load(ctx))

	ticket, err := svc.NewTicket(ctx, 2, "Asha")
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, ticket, "Dal")
	require.NoError(t, err)
	_, err = svc.Place(ctx, ticket)
	require.NoError(t, err)

	_, err = svc.FindByID(ctx, 9999)
	require.ErrorIs(t, err, ports.ErrNotFound)

	spans := recorder.Ended()
	names := make([]string, 0, len(spans))
	for _, s := range spans {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{
		"OrderService.Load",
		"OrderService.NewTicket",
		"OrderService.AddEntry",
		"OrderService.Place",
		"OrderService.FindByID",
	}, names)
	assert.Equal(t, codes.Error, spans[4].Status().Code)

	assert.Contains(t, logs.String(), "order placed")
	assert.Contains(t, logs.String(), "failed to load order")
}
