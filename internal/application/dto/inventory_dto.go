package dto

import "time"

// RegisterMovementRequest body para POST /api/inventory/movements.
// En "ajuste", cantidad es el stock contado (puede ser 0).
type RegisterMovementRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Tipo       string `json:"tipo" validate:"required,oneof=entrada salida ajuste"`
	Cantidad   int    `json:"cantidad" validate:"gte=0"`
	Motivo     string `json:"motivo" validate:"omitempty,max=250"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID              string    `json:"id"`
	ProductoID      string    `json:"producto_id"`
	Tipo            string    `json:"tipo"`
	Cantidad        int       `json:"cantidad"`
	StockAnterior   int       `json:"stock_anterior"`
	StockResultante int       `json:"stock_resultante"`
	Motivo          string    `json:"motivo"`
	Usuario         string    `json:"usuario"`
	Fecha           time.Time `json:"fecha"`
}

// StockResponse stock actual de un producto.
type StockResponse struct {
	ProductoID  string `json:"producto_id"`
	Stock       int    `json:"stock"`
	StockMinimo int    `json:"stock_minimo"`
	StockBajo   bool   `json:"stock_bajo"`
}

// ReconcileResponse stock acumulado frente a la suma del libro.
type ReconcileResponse struct {
	ProductoID string `json:"producto_id"`
	Stock      int    `json:"stock"`
	LedgerSum  int    `json:"suma_movimientos"`
	Consistent bool   `json:"consistente"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto con stock bajo.
type ReplenishmentSuggestionDTO struct {
	ProductID         string `json:"producto_id"`
	ProductName       string `json:"nombre"`
	Brand             string `json:"marca"`
	CurrentStock      int    `json:"stock"`
	StockMinimum      int    `json:"stock_minimo"`
	SuggestedOrderQty int    `json:"cantidad_sugerida"` // max(mínimo - stock + 10, 10)
	Priority          int    `json:"prioridad"`         // 1 = más urgente
}
