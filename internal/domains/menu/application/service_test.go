package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/dineflow/internal/domains/menu/adapters/memory"
	"github.com/Apurer/dineflow/internal/domains/menu/domain"
	"github.com/Apurer/dineflow/internal/domains/menu/ports"
)

var errDiskFull = errors.New("disk full")

func mustFood(t *testing.T, name, price string) *domain.Item {
	t.Helper()
	item, err := domain.NewFood(name, decimal.RequireFromString(price), domain.Food{Dietary: "Veg", Cuisine: "Indian"})
	require.NoError(t, err)
	return item
}

func mustBeverage(t *testing.T, name, price string, size domain.ServingSize) *domain.Item {
	t.Helper()
	item, err := domain.NewBeverage(name, decimal.RequireFromString(price), domain.Beverage{Size: size})
	require.NoError(t, err)
	return item
}

func newLoadedService(t *testing.T, seed ...*domain.Item) (*Service, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository(seed...)
	svc := NewService(repo)
	require.NoError(t, svc.Load(context.Background()))
	return svc, repo
}

func TestAdd_PersistsSnapshot(t *testing.T) {
	svc, repo := newLoadedService(t)
	ctx := context.Background()

	stored, err := svc.Add(ctx, mustFood(t, "Samosa", "30"))
	require.NoError(t, err)
	assert.Equal(t, "Samosa", stored.Name)
	assert.Equal(t, 1, repo.Saves())

	persisted, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, stored.ID, persisted[0].ID)
}

func TestAdd_RejectsInvalidItem(t *testing.T) {
	svc, repo := newLoadedService(t)

	_, err := svc.Add(context.Background(), &domain.Item{Name: "", Variant: domain.Food{}})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrEmptyName)
	assert.Equal(t, 0, repo.Saves())
}

func TestFindByName_FirstMatchCaseInsensitive(t *testing.T) {
	first := mustFood(t, "Tea", "10")
	second := mustBeverage(t, "TEA", "20", domain.SizeSmall)
	svc, _ := newLoadedService(t, first, second)

	found, err := svc.FindByName(context.Background(), "tea")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	_, err = svc.FindByName(context.Background(), "coffee")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestUpdatePrice_NegativeLeavesPrice(t *testing.T) {
	svc, repo := newLoadedService(t, mustFood(t, "Naan", "40"))
	ctx := context.Background()

	item, err := svc.UpdatePrice(ctx, "naan", decimal.RequireFromString("-1"))
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.True(t, item.BasePrice.Equal(decimal.RequireFromString("40")))
	assert.Equal(t, 0, repo.Saves())

	item, err = svc.UpdatePrice(ctx, "naan", decimal.RequireFromString("45"))
	require.NoError(t, err)
	assert.True(t, item.BasePrice.Equal(decimal.RequireFromString("45")))

	_, err = svc.UpdatePrice(ctx, "roti", decimal.RequireFromString("45"))
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestToggleAvailability(t *testing.T) {
	svc, _ := newLoadedService(t, mustFood(t, "Kulfi", "60"))

	item, err := svc.ToggleAvailability(context.Background(), "Kulfi")
	require.NoError(t, err)
	assert.False(t, item.Available)

	item, err = svc.ToggleAvailability(context.Background(), "Kulfi")
	require.NoError(t, err)
	assert.True(t, item.Available)
}

func TestRemove_FirstMatchOnly(t *testing.T) {
	svc, _ := newLoadedService(t, mustFood(t, "Vada", "20"), mustFood(t, "vada", "25"), mustFood(t, "Idli", "20"))
	ctx := context.Background()

	require.NoError(t, svc.Remove(ctx, "VADA"))
	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "vada", items[0].Name)
	assert.Equal(t, "Idli", items[1].Name)

	require.ErrorIs(t, svc.Remove(ctx, "Upma"), ports.ErrNotFound)
}

func TestPersistenceFailure_KeepsMutation(t *testing.T) {
	svc, repo := newLoadedService(t, mustFood(t, "Poha", "35"))
	repo.FailWith(errDiskFull)
	ctx := context.Background()

	item, err := svc.UpdatePrice(ctx, "Poha", decimal.RequireFromString("50"))
	require.ErrorIs(t, err, ErrPersistence)
	require.ErrorIs(t, err, errDiskFull)
	require.NotNil(t, item)

	found, err := svc.FindByName(ctx, "Poha")
	require.NoError(t, err)
	assert.True(t, found.BasePrice.Equal(decimal.RequireFromString("50")))
}

func TestLoad_FailureStartsEmpty(t *testing.T) {
	repo := memory.NewRepository(mustFood(t, "Halwa", "70"))
	repo.FailWith(errDiskFull)
	svc := NewService(repo)

	err := svc.Load(context.Background())
	require.ErrorIs(t, err, ErrPersistence)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListByCategory_KeepsOrder(t *testing.T) {
	svc, _ := newLoadedService(t,
		mustFood(t, "Roti", "10"),
		mustBeverage(t, "Lassi", "40", domain.SizeSmall),
		mustFood(t, "Dal", "90"),
	)

	foods, err := svc.ListByCategory(context.Background(), domain.CategoryFood)
	require.NoError(t, err)
	require.Len(t, foods, 2)
	assert.Equal(t, "Roti", foods[0].Name)
	assert.Equal(t, "Dal", foods[1].Name)

	drinks, err := svc.ListByCategory(context.Background(), domain.CategoryBeverage)
	require.NoError(t, err)
	require.Len(t, drinks, 1)
}

func TestMostPopular_StableDescending(t *testing.T) {
	a := mustFood(t, "A", "1")
	b := mustFood(t, "B", "1")
	c := mustFood(t, "C", "1")
	svc, _ := newLoadedService(t, a, b, c)
	ctx := context.Background()

	_, err := svc.RecordOrdered(ctx, c.ID)
	require.NoError(t, err)
	_, err = svc.RecordOrdered(ctx, c.ID)
	require.NoError(t, err)
	_, err = svc.RecordOrdered(ctx, b.ID)
	require.NoError(t, err)

	top, err := svc.MostPopular(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"C", "B", "A"}, []string{top[0].Name, top[1].Name, top[2].Name})

	top, err = svc.MostPopular(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "C", top[0].Name)

	top, err = svc.MostPopular(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestMostPopular_TiesKeepInsertionOrder(t *testing.T) {
	svc, _ := newLoadedService(t, mustFood(t, "X", "1"), mustFood(t, "Y", "1"), mustFood(t, "Z", "1"))

	top, err := svc.MostPopular(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y", "Z"}, []string{top[0].Name, top[1].Name, top[2].Name})
}

func TestResolve_ReturnsCopy(t *testing.T) {
	item := mustFood(t, "Chaat", "50")
	svc, _ := newLoadedService(t, item)

	resolved, ok := svc.Resolve(item.ID)
	require.True(t, ok)
	resolved.Name = "changed"

	again, ok := svc.Resolve(item.ID)
	require.True(t, ok)
	assert.Equal(t, "Chaat", again.Name)

	_, ok = svc.Resolve("missing")
	assert.False(t, ok)
}
