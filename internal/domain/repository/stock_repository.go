package repository

import "context"

// StockRepository acceso al stock acumulado de productos.
// Solo se construye atado a una transacción (TxRunner) junto al repositorio de movimientos.
type StockRepository interface {
	// GetForUpdate lee el stock y bloquea la fila (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, productID string) (int, error)
	// Apply suma delta al stock en una única escritura condicional (stock + delta >= 0)
	// y devuelve el stock resultante. Si la condición falla: domain.ErrInsufficientStock.
	Apply(ctx context.Context, productID string, delta int) (int, error)
}
