// Package codec maps menu items to the persisted record shared by every store.
package codec

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/dineflow/internal/domains/menu/domain"
)

// Kind discriminates the two item variants on disk.
type Kind string

const (
	KindFood     Kind = "food"
	KindBeverage Kind = "beverage"
)

// Record is the flattened, variant-tagged form of a menu item. Variant
// fields that do not apply to Kind are left at their zero value.
type Record struct {
	ID          string          `json:"id" gorm:"primaryKey;column:id;size:64"`
	Position    int             `json:"-" gorm:"column:position;index"`
	Kind        Kind            `json:"kind" gorm:"column:kind;type:varchar(16)"`
	Name        string          `json:"name" gorm:"column:name;index"`
	BasePrice   decimal.Decimal `json:"base_price" gorm:"column:base_price;type:numeric"`
	Available   bool            `json:"available" gorm:"column:available"`
	Popularity  int64           `json:"popularity" gorm:"column:popularity"`
	Dietary     string          `json:"dietary,omitempty" gorm:"column:dietary"`
	Cuisine     string          `json:"cuisine,omitempty" gorm:"column:cuisine"`
	PrepMinutes int             `json:"prep_minutes,omitempty" gorm:"column:prep_minutes"`
	Spicy       bool            `json:"spicy,omitempty" gorm:"column:spicy"`
	Size        string          `json:"serving_size,omitempty" gorm:"column:serving_size"`
	Alcoholic   bool            `json:"alcoholic,omitempty" gorm:"column:alcoholic"`
	Temperature string          `json:"temperature,omitempty" gorm:"column:temperature"`
	UpdatedAt   time.Time       `json:"-" gorm:"column:updated_at"`
}

func (Record) TableName() string { return "menu_items" }

// FromDomain flattens an item.
func FromDomain(item *domain.Item) Record {
	rec := Record{
		ID:         item.ID,
		Name:       item.Name,
		BasePrice:  item.BasePrice,
		Available:  item.Available,
		Popularity: item.Popularity,
	}
	switch v := item.Variant.(type) {
	case domain.Food:
		rec.Kind = KindFood
		rec.Dietary = v.Dietary
		rec.Cuisine = v.Cuisine
		rec.PrepMinutes = v.PrepMinutes
		rec.Spicy = v.Spicy
	case domain.Beverage:
		rec.Kind = KindBeverage
		rec.Size = string(v.Size)
		rec.Alcoholic = v.Alcoholic
		rec.Temperature = v.Temperature
	}
	return rec
}

// ToDomain rebuilds an item, rejecting unknown kinds.
func (r Record) ToDomain() (*domain.Item, error) {
	item := &domain.Item{
		ID:         r.ID,
		Name:       r.Name,
		BasePrice:  r.BasePrice,
		Available:  r.Available,
		Popularity: r.Popularity,
	}
	switch r.Kind {
	case KindFood:
		item.Variant = domain.Food{
			Dietary:     r.Dietary,
			Cuisine:     r.Cuisine,
			PrepMinutes: r.PrepMinutes,
			Spicy:       r.Spicy,
		}
	case KindBeverage:
		item.Variant = domain.Beverage{
			Size:        domain.ServingSize(r.Size),
			Alcoholic:   r.Alcoholic,
			Temperature: r.Temperature,
		}
	default:
		return nil, fmt.Errorf("menu item %q has unknown kind %q", r.Name, r.Kind)
	}
	return item, nil
}

// FromDomainList flattens items, recording their position.
func FromDomainList(items []*domain.Item) []Record {
	records := make([]Record, 0, len(items))
	for i, item := range items {
		if item == nil {
			continue
		}
		rec := FromDomain(item)
		rec.Position = i
		records = append(records, rec)
	}
	return records
}

// ToDomainList rebuilds items in record order.
func ToDomainList(records []Record) ([]*domain.Item, error) {
	items := make([]*domain.Item, 0, len(records))
	for _, rec := range records {
		item, err := rec.ToDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
