// Package inventory reglas puras del libro de inventario: efecto de cada
// movimiento sobre el stock y heurística de reposición.
package inventory

import (
	"fmt"

	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
)

// SafetyMargin unidades extra en cada sugerencia de pedido.
const SafetyMargin = 10

// ErrNoopAdjustment el conteo físico coincide con el stock actual.
var ErrNoopAdjustment = fmt.Errorf("%w: el ajuste no cambia el stock", domain.ErrInvalidInput)

// Effect resultado de aplicar un movimiento sobre un stock.
type Effect struct {
	Delta     int // efecto con signo
	Magnitude int // cantidad registrada en el movimiento (> 0)
	Previous  int
	Resulting int
}

// Plan calcula el efecto de un movimiento sobre current.
//   - entrada: quantity > 0, suma.
//   - salida: quantity > 0 y quantity <= current, resta.
//   - ajuste: quantity es el stock contado (>= 0); se registra la diferencia aplicada.
func Plan(kind entity.MovementKind, current, quantity int) (Effect, error) {
	switch kind {
	case entity.MovementEntry:
		if quantity <= 0 {
			return Effect{}, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
		}
		return Effect{Delta: quantity, Magnitude: quantity, Previous: current, Resulting: current + quantity}, nil
	case entity.MovementExit:
		if quantity <= 0 {
			return Effect{}, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
		}
		if quantity > current {
			return Effect{}, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, current, quantity)
		}
		return Effect{Delta: -quantity, Magnitude: quantity, Previous: current, Resulting: current - quantity}, nil
	case entity.MovementAdjustment:
		if quantity < 0 {
			return Effect{}, fmt.Errorf("%w: el stock contado no puede ser negativo", domain.ErrInvalidInput)
		}
		delta := quantity - current
		if delta == 0 {
			return Effect{}, ErrNoopAdjustment
		}
		return Effect{Delta: delta, Magnitude: abs(delta), Previous: current, Resulting: quantity}, nil
	}
	return Effect{}, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, kind)
}

// MovementDelta efecto con signo de una entrada o salida, sin consultar el stock.
func MovementDelta(kind entity.MovementKind, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	switch kind {
	case entity.MovementEntry:
		return quantity, nil
	case entity.MovementExit:
		return -quantity, nil
	}
	return 0, fmt.Errorf("%w: %q no es entrada ni salida", domain.ErrInvalidInput, kind)
}

// LedgerSum suma con signo de los movimientos: debe coincidir con el stock del producto.
func LedgerSum(movements []*entity.InventoryMovement) int {
	total := 0
	for _, m := range movements {
		total += m.Delta()
	}
	return total
}

// ReorderQuantity cantidad sugerida de pedido: max(mínimo - stock + margen, margen).
func ReorderQuantity(stock, minimum int) int {
	q := minimum - stock + SafetyMargin
	if q < SafetyMargin {
		return SafetyMargin
	}
	return q
}

// SelectLowStock filtra los productos con stock <= mínimo, hasta limit (0 = sin límite).
func SelectLowStock(products []*entity.Product, limit int) []*entity.Product {
	out := make([]*entity.Product, 0)
	for _, p := range products {
		if !p.IsLowStock() {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
