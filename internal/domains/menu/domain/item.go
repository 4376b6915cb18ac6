package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category names the two kinds of sellable items.
type Category string

const (
	CategoryFood     Category = "Food"
	CategoryBeverage Category = "Beverage"
)

// ServingSize drives beverage pricing.
type ServingSize string

const (
	SizeSmall  ServingSize = "SMALL"
	SizeMedium ServingSize = "MEDIUM"
	SizeLarge  ServingSize = "LARGE"
)

// CuisineContinental carries a 10% premium.
const CuisineContinental = "CONTINENTAL"

var (
	continentalMarkup = decimal.RequireFromString("1.10")
	mediumMarkup      = decimal.RequireFromString("1.25")
	largeMarkup       = decimal.RequireFromString("1.50")
)

var (
	ErrEmptyName      = errors.New("menu item name is required")
	ErrInvalidPrice   = errors.New("price must be greater or equal to zero")
	ErrMissingVariant = errors.New("menu item must be food or beverage")
)

// Variant is the closed set of item kinds. Only Food and Beverage implement it.
type Variant interface {
	Category() Category
	variant()
}

// Food carries kitchen-specific attributes.
type Food struct {
	Dietary     string
	Cuisine     string
	PrepMinutes int
	Spicy       bool
}

func (Food) Category() Category { return CategoryFood }
func (Food) variant()           {}

// Beverage carries bar-specific attributes.
type Beverage struct {
	Size        ServingSize
	Alcoholic   bool
	Temperature string
}

func (Beverage) Category() Category { return CategoryBeverage }
func (Beverage) variant()           {}

// Item is one sellable menu entry.
type Item struct {
	ID         string
	Name       string
	BasePrice  decimal.Decimal
	Available  bool
	Popularity int64
	Variant    Variant
}

// NewItem validates and builds an available item with a fresh identifier.
func NewItem(name string, basePrice decimal.Decimal, v Variant) (*Item, error) {
	item := &Item{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		BasePrice: basePrice,
		Available: true,
		Variant:   v,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// NewFood is a convenience constructor for food items.
func NewFood(name string, basePrice decimal.Decimal, food Food) (*Item, error) {
	return NewItem(name, basePrice, food)
}

// NewBeverage is a convenience constructor for beverage items.
func NewBeverage(name string, basePrice decimal.Decimal, bev Beverage) (*Item, error) {
	return NewItem(name, basePrice, bev)
}

// Validate enforces the invariants of a well-formed item.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if i.BasePrice.IsNegative() {
		return ErrInvalidPrice
	}
	if i.Variant == nil {
		return ErrMissingVariant
	}
	return nil
}

// Category reports the variant category.
func (i *Item) Category() Category {
	if i.Variant == nil {
		return ""
	}
	return i.Variant.Category()
}

// Price returns the effective sale price. It is never stored and never rounded.
func (i *Item) Price() decimal.Decimal {
	switch v := i.Variant.(type) {
	case Food:
		if strings.EqualFold(v.Cuisine, CuisineContinental) {
			return i.BasePrice.Mul(continentalMarkup)
		}
	case Beverage:
		switch ServingSize(strings.ToUpper(string(v.Size))) {
		case SizeMedium:
			return i.BasePrice.Mul(mediumMarkup)
		case SizeLarge:
			return i.BasePrice.Mul(largeMarkup)
		}
	}
	return i.BasePrice
}

// Describe renders a single-line summary of the item.
func (i *Item) Describe() string {
	switch v := i.Variant.(type) {
	case Food:
		spicy := ""
		if v.Spicy {
			spicy = " | Spicy"
		}
		return fmt.Sprintf("%s | %s | %s Cuisine | Prep: %d mins%s | ₹%s",
			i.Name, v.Dietary, v.Cuisine, v.PrepMinutes, spicy, i.BasePrice.StringFixed(2))
	case Beverage:
		kind := "Non-Alcoholic"
		if v.Alcoholic {
			kind = "Alcoholic"
		}
		return fmt.Sprintf("%s | %s | %s | %s | ₹%s",
			i.Name, v.Size, kind, v.Temperature, i.Price().StringFixed(2))
	default:
		return fmt.Sprintf("%s | ₹%s", i.Name, i.BasePrice.StringFixed(2))
	}
}

// SetBasePrice updates the base price; negative prices leave the item untouched.
func (i *Item) SetBasePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrInvalidPrice
	}
	i.BasePrice = price
	return nil
}

// ToggleAvailability flips the availability flag and returns the new value.
func (i *Item) ToggleAvailability() bool {
	i.Available = !i.Available
	return i.Available
}

// RecordOrdered bumps the popularity counter. It never decreases.
func (i *Item) RecordOrdered() {
	i.Popularity++
}

// MatchesName reports a case-insensitive exact name match.
func (i *Item) MatchesName(name string) bool {
	return strings.EqualFold(i.Name, strings.TrimSpace(name))
}

// Clone returns a detached copy. Variants are values, so a shallow copy suffices.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
