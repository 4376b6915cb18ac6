package domain

import (
	"github.com/shopspring/decimal"

	menudomain "github.com/Apurer/dineflow/internal/domains/menu/domain"
)

// TaxRate is applied twice (CGST and SGST) to the discounted subtotal.
var TaxRate = decimal.RequireFromString("0.025")

// ItemResolver looks catalog items up by stable ID.
type ItemResolver interface {
	Resolve(id string) (*menudomain.Item, bool)
}

// BillLine is one priced line of a bill.
type BillLine struct {
	Item  menudomain.Item
	Price decimal.Decimal
	// Live is false when the catalog no longer has the item and the
	// order-time snapshot was used.
	Live bool
}

// Bill is the itemized computation of a ticket. Amounts are unrounded.
type Bill struct {
	Lines           []BillLine
	Subtotal        decimal.Decimal
	DiscountPercent decimal.Decimal
	Discount        decimal.Decimal
	Taxable         decimal.Decimal
	CGST            decimal.Decimal
	SGST            decimal.Decimal
	Total           decimal.Decimal
}

// Item returns the current catalog item for the line, or its snapshot.
func (l Line) Item(r ItemResolver) (menudomain.Item, bool) {
	if r != nil {
		if item, ok := r.Resolve(l.ItemID); ok && item != nil {
			return *item, true
		}
	}
	return l.Snapshot, false
}

// ComputeTotal sums the current price of every line.
func (t *Ticket) ComputeTotal(r ItemResolver) decimal.Decimal {
	total := decimal.Zero
	for _, line := range t.Lines {
		item, _ := line.Item(r)
		total = total.Add(item.Price())
	}
	return total
}

// ComputeTotalWithTax applies the discount, then both taxes.
func (t *Ticket) ComputeTotalWithTax(r ItemResolver) decimal.Decimal {
	return t.ComputeBill(r).Total
}

// ComputeBill prices every line against the resolver.
func (t *Ticket) ComputeBill(r ItemResolver) Bill {
	bill := Bill{
		Lines:           make([]BillLine, 0, len(t.Lines)),
		Subtotal:        decimal.Zero,
		DiscountPercent: t.DiscountPercent,
	}
	for _, line := range t.Lines {
		item, live := line.Item(r)
		price := item.Price()
		bill.Lines = append(bill.Lines, BillLine{Item: item, Price: price, Live: live})
		bill.Subtotal = bill.Subtotal.Add(price)
	}
	bill.Discount = bill.Subtotal.Mul(t.DiscountPercent).Div(hundred)
	bill.Taxable = bill.Subtotal.Sub(bill.Discount)
	bill.CGST = bill.Taxable.Mul(TaxRate)
	bill.SGST = bill.Taxable.Mul(TaxRate)
	bill.Total = bill.Taxable.Add(bill.CGST).Add(bill.SGST)
	return bill
}
