package pos

import "github.com/shopspring/decimal"

// TaxRate IVA fijo del 16 %.
var TaxRate = decimal.RequireFromString("0.16")

// Totals subtotal, impuesto y total de una venta.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals subtotal = Σ precio × cantidad; impuesto = subtotal × 16 % redondeado a centavos.
func ComputeTotals(lines []Line) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal())
	}
	tax := subtotal.Mul(TaxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
