package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestPrice_FoodCuisinePremium(t *testing.T) {
	cases := []struct {
		cuisine string
		want    string
	}{
		{"CONTINENTAL", "220"},
		{"continental", "220"},
		{"Indian", "200"},
		{"", "200"},
	}
	for _, tc := range cases {
		t.Run(tc.cuisine, func(t *testing.T) {
			item, err := NewFood("Pasta", dec(t, "200"), Food{Cuisine: tc.cuisine})
			require.NoError(t, err)
			assert.True(t, item.Price().Equal(dec(t, tc.want)), "got %s", item.Price())
		})
	}
}

func TestPrice_BeverageSizeMarkup(t *testing.T) {
	cases := []struct {
		size ServingSize
		want string
	}{
		{SizeSmall, "100"},
		{SizeMedium, "125"},
		{"medium", "125"},
		{SizeLarge, "150"},
		{"Large", "150"},
		{"GIANT", "100"},
	}
	for _, tc := range cases {
		t.Run(string(tc.size), func(t *testing.T) {
			item, err := NewBeverage("Cola", dec(t, "100"), Beverage{Size: tc.size})
			require.NoError(t, err)
			assert.True(t, item.Price().Equal(dec(t, tc.want)), "got %s", item.Price())
		})
	}
}

func TestPrice_NotRounded(t *testing.T) {
	item, err := NewBeverage("Lassi", dec(t, "33.33"), Beverage{Size: SizeMedium})
	require.NoError(t, err)
	assert.True(t, item.Price().Equal(dec(t, "41.6625")))
}

func TestNewItem_Validates(t *testing.T) {
	_, err := NewFood("  ", dec(t, "10"), Food{})
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = NewFood("Soup", dec(t, "-1"), Food{})
	require.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewItem("Mystery", dec(t, "1"), nil)
	require.ErrorIs(t, err, ErrMissingVariant)

	item, err := NewFood(" Soup ", decimal.Zero, Food{})
	require.NoError(t, err)
	assert.Equal(t, "Soup", item.Name)
	assert.True(t, item.Available)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, CategoryFood, item.Category())
}

func TestSetBasePrice_NegativeKeepsPrice(t *testing.T) {
	item, err := NewFood("Dosa", dec(t, "80"), Food{})
	require.NoError(t, err)

	require.ErrorIs(t, item.SetBasePrice(dec(t, "-5")), ErrInvalidPrice)
	assert.True(t, item.BasePrice.Equal(dec(t, "80")))

	require.NoError(t, item.SetBasePrice(dec(t, "90")))
	assert.True(t, item.BasePrice.Equal(dec(t, "90")))
}

func TestToggleAndPopularity(t *testing.T) {
	item, err := NewBeverage("Tea", dec(t, "20"), Beverage{Size: SizeSmall})
	require.NoError(t, err)

	assert.False(t, item.ToggleAvailability())
	assert.True(t, item.ToggleAvailability())

	item.RecordOrdered()
	item.RecordOrdered()
	assert.Equal(t, int64(2), item.Popularity)
}

func TestMatchesName(t *testing.T) {
	item, err := NewFood("Paneer Tikka", dec(t, "150"), Food{})
	require.NoError(t, err)
	assert.True(t, item.MatchesName("paneer tikka"))
	assert.True(t, item.MatchesName(" PANEER TIKKA "))
	assert.False(t, item.MatchesName("Paneer"))
}

func TestDescribe(t *testing.T) {
	food, err := NewFood("Biryani", dec(t, "250"), Food{Dietary: "Non-Veg", Cuisine: "Indian", PrepMinutes: 30, Spicy: true})
	require.NoError(t, err)
	assert.Equal(t, "Biryani | Non-Veg | Indian Cuisine | Prep: 30 mins | Spicy | ₹250.00", food.Describe())

	bev, err := NewBeverage("Cola", dec(t, "100"), Beverage{Size: SizeLarge, Temperature: "Cold"})
	require.NoError(t, err)
	assert.Equal(t, "Cola | LARGE | Non-Alcoholic | Cold | ₹150.00", bev.Describe())
}

func TestClone_IsDetached(t *testing.T) {
	item, err := NewFood("Idli", dec(t, "40"), Food{})
	require.NoError(t, err)
	c := item.Clone()
	c.RecordOrdered()
	c.Name = "Vada"
	assert.Equal(t, int64(0), item.Popularity)
	assert.Equal(t, "Idli", item.Name)
	assert.Nil(t, (*Item)(nil).Clone())
}
