//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	menudomain "github.com/Apurer/dineflow/internal/domains/menu/domain"
	orderspostgres "github.com/Apurer/dineflow/internal/domains/orders/adapters/persistence/postgres"
	"github.com/Apurer/dineflow/internal/domains/orders/domain"
	"github.com/Apurer/dineflow/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("dineflow_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newTicket(t *testing.T, id int64, items ...*menudomain.Item) *domain.Ticket {
	t.Helper()
	ticket, err := domain.NewTicket(id, 3, "Asha", time.Date(2024, 3, 9, 19, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	for _, item := range items {
		require.NoError(t, ticket.Append(item))
	}
	return ticket
}

func TestRepository_SaveAndLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := orderspostgres.NewRepository(db)
	ctx := context.Background()

	cola, err := menudomain.NewBeverage("Cola", decimal.RequireFromString("100"), menudomain.Beverage{Size: menudomain.SizeSmall})
	require.NoError(t, err)
	first := newTicket(t, 1002, cola, cola)
	require.NoError(t, first.ApplyDiscount(decimal.RequireFromString("10")))
	first.SetInstructions("no ice")
	second := newTicket(t, 1001, cola)

	require.NoError(t, repo.Save(ctx, []*domain.Ticket{first, second}))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, int64(1001), loaded[0].ID)
	assert.Equal(t, int64(1002), loaded[1].ID)
	assert.Equal(t, []string{cola.ID, cola.ID}, loaded[1].ItemIDs())
	assert.Equal(t, "no ice", loaded[1].Instructions)
	assert.True(t, loaded[1].DiscountPercent.Equal(decimal.RequireFromString("10")))
	assert.True(t, loaded[1].ComputeTotalWithTax(nil).Equal(decimal.RequireFromString("189")))
}

func TestRepository_SaveUpdatesStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := orderspostgres.NewRepository(db)
	ctx := context.Background()

	ticket := newTicket(t, 1001)
	require.NoError(t, repo.Save(ctx, []*domain.Ticket{ticket}))
	require.NoError(t, ticket.UpdateStatus(domain.StatusBilled))
	require.NoError(t, repo.Save(ctx, []*domain.Ticket{ticket}))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, domain.StatusBilled, loaded[0].Status)
}
