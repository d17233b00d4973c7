// Package pricing computes effective line prices and cart totals.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Line is a priced quantity of one product.
type Line struct {
	Price    decimal.Decimal
	Discount decimal.Decimal
	Quantity int
}

// Totals summarises a set of lines.
type Totals struct {
	Quantity        int             `json:"totalQty"`
	DiscountedTotal decimal.Decimal `json:"totalPrice"`
	OriginalTotal   decimal.Decimal `json:"notDiscountTotalPrice"`
}

// EffectivePrice returns base minus the discount percentage of base rounded up.
// Callers keep discountPercent within [0, 100].
func EffectivePrice(base, discountPercent decimal.Decimal) decimal.Decimal {
	if discountPercent.IsZero() {
		return base
	}
	off := base.Mul(discountPercent).Div(hundred).Ceil()
	price := base.Sub(off)
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}

// LineTotals returns the undiscounted and discounted amounts of a single line.
func LineTotals(l Line) (subtotal, total decimal.Decimal) {
	qty := decimal.NewFromInt(int64(l.Quantity))
	return l.Price.Mul(qty), EffectivePrice(l.Price, l.Discount).Mul(qty)
}

// Aggregate sums quantities and amounts over lines.
func Aggregate(lines []Line) Totals {
	t := Totals{DiscountedTotal: decimal.Zero, OriginalTotal: decimal.Zero}
	for _, l := range lines {
		subtotal, total := LineTotals(l)
		t.Quantity += l.Quantity
		t.OriginalTotal = t.OriginalTotal.Add(subtotal)
		t.DiscountedTotal = t.DiscountedTotal.Add(total)
	}
	return t
}

// MinorUnits converts an amount to the smallest currency unit, e.g. paise.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits converts a smallest-unit amount back to a decimal amount.
func FromMinorUnits(units int64) decimal.Decimal {
	return decimal.New(units, -2)
}
