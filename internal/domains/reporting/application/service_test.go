package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	menudomain "github.com/Apurer/dineflow/internal/domains/menu/domain"
	ordersdomain "github.com/Apurer/dineflow/internal/domains/orders/domain"
	"github.com/Apurer/dineflow/internal/domains/reporting/ports"
)

type fakeOrders struct {
	tickets []*ordersdomain.Ticket
	err     error
}

func (f *fakeOrders) List(context.Context) ([]*ordersdomain.Ticket, error) {
	return f.tickets, f.err
}

func (f *fakeOrders) Bill(_ context.Context, t *ordersdomain.Ticket) ordersdomain.Bill {
	return t.ComputeBill(nil)
}

type fakeMenu struct {
	items []*menudomain.Item
}

func (f *fakeMenu) MostPopular(_ context.Context, n int) ([]*menudomain.Item, error) {
	if n > len(f.items) {
		n = len(f.items)
	}
	return f.items[:n], nil
}

func ticket(t *testing.T, id int64, table int, status ordersdomain.Status, prices ...string) *ordersdomain.Ticket {
	t.Helper()
	tk, err := ordersdomain.NewTicket(id, table, "guest", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	for _, p := range prices {
		item, err := menudomain.NewFood("dish", decimal.RequireFromString(p), menudomain.Food{})
		require.NoError(t, err)
		require.NoError(t, tk.Append(item))
	}
	require.NoError(t, tk.UpdateStatus(status))
	return tk
}

func popular(t *testing.T, name string, count int64) *menudomain.Item {
	t.Helper()
	item, err := menudomain.NewFood(name, decimal.RequireFromString("10"), menudomain.Food{})
	require.NoError(t, err)
	item.Popularity = count
	return item
}

func TestSummary_NoOrders(t *testing.T) {
	svc := NewService(&fakeOrders{}, &fakeMenu{})

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.OrderCount)
	assert.True(t, summary.Revenue.IsZero())
	assert.Nil(t, summary.Average)
	assert.Empty(t, summary.Tables)
}

func TestSummary_Totals(t *testing.T) {
	orders := &fakeOrders{tickets: []*ordersdomain.Ticket{
		ticket(t, 1001, 1, ordersdomain.StatusBilled, "100"),
		ticket(t, 1002, 2, ordersdomain.StatusPending, "200", "100"),
	}}
	svc := NewService(orders, &fakeMenu{})

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.OrderCount)
	assert.True(t, summary.Revenue.Equal(decimal.RequireFromString("420")), "got %s", summary.Revenue)
	require.NotNil(t, summary.Average)
	assert.True(t, summary.Average.Equal(decimal.RequireFromString("210")))
	assert.Equal(t, 1, summary.Billed)
	assert.Equal(t, 1, summary.Open)
}

func TestSummary_TopTablesStableByFirstSeen(t *testing.T) {
	var tickets []*ordersdomain.Ticket
	id := int64(1000)
	add := func(table, n int) {
		for i := 0; i < n; i++ {
			id++
			tickets = append(tickets, ticket(t, id, table, ordersdomain.StatusServed))
		}
	}
	add(9, 1)
	add(3, 2)
	add(5, 2)
	add(1, 3)
	add(7, 1)
	add(8, 1)
	add(2, 1)

	summary, err := NewService(&fakeOrders{tickets: tickets}, &fakeMenu{}).Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ports.TableCount{
		{TableNumber: 1, Orders: 3},
		{TableNumber: 3, Orders: 2},
		{TableNumber: 5, Orders: 2},
		{TableNumber: 9, Orders: 1},
		{TableNumber: 7, Orders: 1},
	}, summary.Tables)
}

func TestSummary_ListError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewService(&fakeOrders{err: boom}, &fakeMenu{}).Summary(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestPopularity_DropsZeroCounts(t *testing.T) {
	menu := &fakeMenu{items: []*menudomain.Item{
		popular(t, "Biryani", 5),
		popular(t, "Cola", 2),
		popular(t, "Soup", 0),
		popular(t, "Salad", 0),
	}}
	svc := NewService(&fakeOrders{}, menu)

	items, err := svc.Popularity(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Biryani", items[0].Name)
	assert.Equal(t, "Cola", items[1].Name)

	items, err = svc.Popularity(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
}
