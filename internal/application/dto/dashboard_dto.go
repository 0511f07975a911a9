package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryStatDTO inventario por categoría.
type CategoryStatDTO struct {
	Categoria      string          `json:"categoria"`
	TotalProductos int             `json:"total_productos"`
	StockTotal     int             `json:"stock_total"`
	ValorTotal     decimal.Decimal `json:"valor_total"`
}

// TopProductDTO producto más vendido del mes.
type TopProductDTO struct {
	ProductoID string          `json:"producto_id"`
	Nombre     string          `json:"nombre"`
	Unidades   int             `json:"unidades"`
	Ingresos   decimal.Decimal `json:"ingresos"`
}

// DailySalesDTO ventas de un día.
type DailySalesDTO struct {
	Fecha    string          `json:"fecha"`
	Cantidad int             `json:"cantidad"`
	Total    decimal.Decimal `json:"total"`
}

// DashboardSummaryDTO resumen del tablero de inventario y ventas.
type DashboardSummaryDTO struct {
	Categories     []CategoryStatDTO `json:"categorias"`
	TotalProducts  int               `json:"total_productos"`
	TotalStock     int               `json:"stock_total"`
	InventoryValue decimal.Decimal   `json:"valor_inventario"`
	MonthSales     decimal.Decimal   `json:"ventas_mes"`
	MonthSaleCount int               `json:"numero_ventas_mes"`
	TopProducts    []TopProductDTO   `json:"top_productos"`
	LastSevenDays  []DailySalesDTO   `json:"ultimos_7_dias"`
	LowStock       []ProductResponse `json:"stock_bajo"`
	DateLabel      string            `json:"periodo"`
	GeneratedAt    time.Time         `json:"generado"`
}
