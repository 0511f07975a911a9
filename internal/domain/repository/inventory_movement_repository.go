package repository

import (
	"context"
	"time"

	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
)

// MovementFilter filtros del historial de movimientos.
type MovementFilter struct {
	ProductID string
	Kind      entity.MovementKind
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// InventoryMovementRepository libro de movimientos: solo inserción y lectura.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	List(ctx context.Context, f MovementFilter) ([]*entity.InventoryMovement, error)
	// SumByProduct suma con signo de todos los movimientos del producto.
	SumByProduct(ctx context.Context, productID string) (int, error)
}
