// Package pos carrito del punto de venta y cálculo de totales.
package pos

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/OptiGestion-api/internal/domain"
)

var (
	// ErrMaxStockReached la línea ya tiene todo el stock disponible.
	ErrMaxStockReached = fmt.Errorf("%w: stock máximo alcanzado", domain.ErrInsufficientStock)
	// ErrOutOfStock el producto no tiene stock para agregarse.
	ErrOutOfStock = fmt.Errorf("%w: producto sin stock", domain.ErrInsufficientStock)
	// ErrLineNotFound el producto no está en el carrito.
	ErrLineNotFound = errors.New("el producto no está en el carrito")
)

// CatalogItem foto del producto al cargar el carrito (precio y stock disponibles).
type CatalogItem struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Stock     int
}

// Line línea del carrito.
type Line struct {
	ProductID      string
	Name           string
	UnitPrice      decimal.Decimal
	Quantity       int
	StockAvailable int
}

// Subtotal precio unitario por cantidad.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart carrito con una línea por producto, en orden de inserción.
type Cart struct {
	lines []Line
}

// Add suma una unidad del producto. Si ya está, incrementa hasta el stock de la foto;
// si es nuevo, exige stock > 0.
func (c *Cart) Add(item CatalogItem) error {
	if i := c.index(item.ProductID); i >= 0 {
		if c.lines[i].Quantity+1 > c.lines[i].StockAvailable {
			return ErrMaxStockReached
		}
		c.lines[i].Quantity++
		return nil
	}
	if item.Stock <= 0 {
		return ErrOutOfStock
	}
	c.lines = append(c.lines, Line{
		ProductID:      item.ProductID,
		Name:           item.Name,
		UnitPrice:      item.UnitPrice,
		Quantity:       1,
		StockAvailable: item.Stock,
	})
	return nil
}

// SetQuantity fija la cantidad de una línea. n <= 0 elimina la línea;
// n mayor que el stock disponible se rechaza sin cambiar el carrito.
func (c *Cart) SetQuantity(productID string, n int) error {
	i := c.index(productID)
	if i < 0 {
		return ErrLineNotFound
	}
	if n <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return nil
	}
	if n > c.lines[i].StockAvailable {
		return ErrMaxStockReached
	}
	c.lines[i].Quantity = n
	return nil
}

// Remove quita la línea del producto si existe.
func (c *Cart) Remove(productID string) {
	if i := c.index(productID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// Lines copia de las líneas actuales.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len número de líneas.
func (c *Cart) Len() int { return len(c.lines) }

// IsEmpty true si no hay líneas.
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Totals calcula los totales del carrito.
func (c *Cart) Totals() Totals { return ComputeTotals(c.lines) }

func (c *Cart) index(productID string) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
