package sales

import (
	"context"
	"time"

	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

// SaleTxRunner abre una transacción con los repositorios de venta y del libro atados a ella.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
	) error) error
}

// ReceiptRenderer genera el recibo de una venta en PDF.
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, sale *entity.Sale) ([]byte, error)
}

// ReceiptArchive almacenamiento de recibos (S3).
type ReceiptArchive interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
