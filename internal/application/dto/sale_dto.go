package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItemRequest producto y cantidad del carrito.
type CartItemRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad" validate:"required,gt=0"`
}

// QuoteRequest cálculo de totales sin registrar venta.
type QuoteRequest struct {
	Items []CartItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CheckoutRequest cobro del carrito.
type CheckoutRequest struct {
	ClienteID     *string           `json:"cliente_id" validate:"omitempty,uuid"`
	MetodoPago    string            `json:"metodo_pago" validate:"required,oneof=efectivo tarjeta transferencia"`
	Observaciones string            `json:"observaciones" validate:"omitempty,max=500"`
	Items         []CartItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleLineResponse línea de venta.
type SaleLineResponse struct {
	ProductoID     string          `json:"producto_id"`
	Nombre         string          `json:"nombre,omitempty"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// TotalsResponse totales de carrito o venta.
type TotalsResponse struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Impuesto decimal.Decimal `json:"impuesto"`
	Total    decimal.Decimal `json:"total"`
}

// QuoteResponse líneas con precio de catálogo y totales.
type QuoteResponse struct {
	Lines  []SaleLineResponse `json:"lineas"`
	Totals TotalsResponse     `json:"totales"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID            string             `json:"id"`
	ClienteID     *string            `json:"cliente_id"`
	Fecha         time.Time          `json:"fecha"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Impuesto      decimal.Decimal    `json:"impuesto"`
	Total         decimal.Decimal    `json:"total"`
	MetodoPago    string             `json:"metodo_pago"`
	Estado        string             `json:"estado"`
	Observaciones string             `json:"observaciones"`
	Usuario       string             `json:"usuario"`
	Lineas        []SaleLineResponse `json:"lineas,omitempty"`
}

// ReceiptArchiveResponse ubicación del recibo archivado.
type ReceiptArchiveResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
