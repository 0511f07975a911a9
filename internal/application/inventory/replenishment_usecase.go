package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	inv "github.com/jhoicas/OptiGestion-api/internal/domain/inventory"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

// PurchaseOrderRenderer genera el documento de orden de compra (PDF).
type PurchaseOrderRenderer interface {
	RenderPurchaseOrder(ctx context.Context, items []dto.ReplenishmentSuggestionDTO, generatedAt time.Time) ([]byte, error)
}

// ReplenishmentUseCase genera la lista de reposición a partir de los productos con stock bajo.
type ReplenishmentUseCase struct {
	productRepo repository.ProductRepository
	renderer    PurchaseOrderRenderer
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(productRepo repository.ProductRepository, renderer PurchaseOrderRenderer) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{productRepo: productRepo, renderer: renderer}
}

// GenerateReplenishmentList devuelve los productos con stock bajo y la cantidad sugerida
// max(mínimo - stock + 10, 10), priorizando el mayor déficit.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, limit int) ([]dto.ReplenishmentSuggestionDTO, error) {
	if limit <= 0 {
		limit = defaultLowStockLimit
	}
	products, err := uc.productRepo.ListLowStock(ctx, limit)
	if err != nil {
		return nil, err
	}
	return buildSuggestions(products), nil
}

// PurchaseOrderPDF lista de reposición como orden de compra en PDF.
func (uc *ReplenishmentUseCase) PurchaseOrderPDF(ctx context.Context, limit int) ([]byte, error) {
	items, err := uc.GenerateReplenishmentList(ctx, limit)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderPurchaseOrder(ctx, items, time.Now())
}

func buildSuggestions(products []*entity.Product) []dto.ReplenishmentSuggestionDTO {
	low := inv.SelectLowStock(products, 0)
	out := make([]dto.ReplenishmentSuggestionDTO, 0, len(low))
	for _, p := range low {
		out = append(out, dto.ReplenishmentSuggestionDTO{
			ProductID:         p.ID,
			ProductName:       p.Name,
			Brand:             p.Brand,
			CurrentStock:      p.Stock,
			StockMinimum:      p.StockMinimum,
			SuggestedOrderQty: inv.ReorderQuantity(p.Stock, p.StockMinimum),
		})
	}
	// Mayor déficit primero; empate por nombre para salida estable.
	sort.SliceStable(out, func(i, j int) bool {
		di := out[i].StockMinimum - out[i].CurrentStock
		dj := out[j].StockMinimum - out[j].CurrentStock
		if di != dj {
			return di > dj
		}
		return out[i].ProductName < out[j].ProductName
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out
}
