package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Es la única forma de obtener un StockRepository: el stock solo cambia junto con su movimiento.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// StockAlerter recibe los productos que quedaron en o bajo su stock mínimo.
// Implementaciones no deben bloquear ni devolver errores al libro.
type StockAlerter interface {
	LowStock(ctx context.Context, product *entity.Product)
}

type noopAlerter struct{}

func (noopAlerter) LowStock(context.Context, *entity.Product) {}

// Ledger escritura del libro dentro de una transacción abierta por otro caso de uso
// (cobro de venta, alta de producto). RegisterMovementUseCase la implementa.
type Ledger interface {
	RecordInTx(ctx context.Context, movRepo repository.InventoryMovementRepository, stockRepo repository.StockRepository,
		in MovementInput, actor entity.Actor, now time.Time) (*entity.InventoryMovement, error)
	NotifyIfLowStock(ctx context.Context, product *entity.Product)
}
