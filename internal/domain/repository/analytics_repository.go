package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CategoryStockResult fila de la vista estadisticas_inventario.
type CategoryStockResult struct {
	Category      string
	TotalProducts int
	TotalStock    int
	TotalValue    decimal.Decimal
}

// SalesTotalsResult ventas agregadas de un rango.
type SalesTotalsResult struct {
	Count int
	Total decimal.Decimal
}

// TopProductResult producto más vendido de un rango.
type TopProductResult struct {
	ProductID string
	Name      string
	Units     int
	Revenue   decimal.Decimal
}

// DailySalesResult ventas de un día.
type DailySalesResult struct {
	Day   time.Time
	Count int
	Total decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura para el tablero y estadísticas.
type AnalyticsRepository interface {
	InventoryByCategory(ctx context.Context) ([]CategoryStockResult, error)
	SalesTotals(ctx context.Context, from, to time.Time) (SalesTotalsResult, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProductResult, error)
	DailySales(ctx context.Context, from, to time.Time) ([]DailySalesResult, error)
}
