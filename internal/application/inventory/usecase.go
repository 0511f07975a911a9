package inventory

import (
	"context"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

// defaultLowStockLimit tope del listado de stock bajo cuando no se indica.
const defaultLowStockLimit = 50

// StockQueryUseCase lecturas del libro: stock actual, stock bajo, historial y conciliación.
type StockQueryUseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.InventoryMovementRepository
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(productRepo repository.ProductRepository, movRepo repository.InventoryMovementRepository) *StockQueryUseCase {
	return &StockQueryUseCase{productRepo: productRepo, movRepo: movRepo}
}

// CurrentStock stock acumulado del producto.
func (uc *StockQueryUseCase) CurrentStock(ctx context.Context, productID string) (*dto.StockResponse, error) {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.StockResponse{
		ProductoID:  p.ID,
		Stock:       p.Stock,
		StockMinimo: p.StockMinimum,
		StockBajo:   p.IsLowStock(),
	}, nil
}

// LowStockProducts productos activos con stock <= stock mínimo, hasta limit.
func (uc *StockQueryUseCase) LowStockProducts(ctx context.Context, limit int) ([]dto.ProductResponse, error) {
	if limit <= 0 {
		limit = defaultLowStockLimit
	}
	list, err := uc.productRepo.ListLowStock(ctx, limit)
	if err != nil {
		return nil, err
	}
	return dto.FromProducts(list), nil
}

// ListMovements historial del libro con filtros.
func (uc *StockQueryUseCase) ListMovements(ctx context.Context, f repository.MovementFilter) ([]dto.MovementResponse, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	list, err := uc.movRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.FromMovement(m))
	}
	return out, nil
}

// Reconcile compara el stock acumulado con la suma con signo de los movimientos.
func (uc *StockQueryUseCase) Reconcile(ctx context.Context, productID string) (*dto.ReconcileResponse, error) {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	sum, err := uc.movRepo.SumByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.ReconcileResponse{
		ProductoID: p.ID,
		Stock:      p.Stock,
		LedgerSum:  sum,
		Consistent: sum == p.Stock,
	}, nil
}
