package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	receiptWidth   = 60
	currencySymbol = "₹"
)

// RenderReceipt formats a ticket and its bill. Money is rounded to two
// decimals here and nowhere else.
func RenderReceipt(t *Ticket, bill Bill) string {
	var b strings.Builder
	rule := strings.Repeat("=", receiptWidth)
	thin := strings.Repeat("-", receiptWidth)

	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "ORDER ID: #%d | TABLE: %d\n", t.ID, t.TableNumber)
	fmt.Fprintf(&b, "Customer: %s | Status: %s\n", t.CustomerName, t.Status)
	fmt.Fprintf(&b, "Time: %s\n", t.CreatedAt.Format(time.RFC1123))
	fmt.Fprintln(&b, rule)

	if len(bill.Lines) == 0 {
		fmt.Fprintln(&b, "No items in order")
	}
	for i, line := range bill.Lines {
		note := ""
		if !line.Live {
			note = " (no longer on menu)"
		}
		fmt.Fprintf(&b, "%d. %s%s\n", i+1, line.Item.Describe(), note)
	}

	fmt.Fprintln(&b, thin)
	fmt.Fprintf(&b, "Subtotal: %s\n", money(bill.Subtotal.StringFixed(2)))
	if bill.DiscountPercent.IsPositive() {
		fmt.Fprintf(&b, "Discount (%s%%): -%s\n", bill.DiscountPercent.String(), money(bill.Discount.StringFixed(2)))
	}
	fmt.Fprintf(&b, "CGST (2.5%%): %s\n", money(bill.CGST.StringFixed(2)))
	fmt.Fprintf(&b, "SGST (2.5%%): %s\n", money(bill.SGST.StringFixed(2)))
	fmt.Fprintf(&b, "TOTAL: %s\n", money(bill.Total.StringFixed(2)))
	if t.Instructions != "" {
		fmt.Fprintln(&b, thin)
		fmt.Fprintln(&b, "Special instructions:")
		fmt.Fprintln(&b, t.Instructions)
	}
	fmt.Fprintln(&b, rule)
	return b.String()
}

func money(amount string) string {
	return currencySymbol + amount
}
