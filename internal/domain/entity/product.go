package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Stock es un acumulado de movimientos_inventario: solo lo modifica el libro de inventario.
type Product struct {
	ID           string
	Name         string
	Brand        string
	CategoryID   *string
	Price        decimal.Decimal
	Stock        int
	StockMinimum int
	Description  string
	Barcode      string
	ImageURL     string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLowStock indica si el stock está en o por debajo del mínimo.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.StockMinimum
}
