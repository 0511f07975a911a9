package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod método de pago de una venta.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "efectivo"
	PaymentCard     PaymentMethod = "tarjeta"
	PaymentTransfer PaymentMethod = "transferencia"
)

// ParsePaymentMethod valida el método de pago.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return m, nil
	}
	return "", fmt.Errorf("método de pago desconocido %q", s)
}

// SaleStatusCompleted estado con el que se registra una venta cobrada.
const SaleStatusCompleted = "completada"

// Sale cabecera de venta.
type Sale struct {
	ID            string
	ClientID      *string
	Date          time.Time
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod PaymentMethod
	Status        string
	Notes         string
	Actor         string
	ReceiptKey    string
	Lines         []SaleLine
}

// ShortID primeros 8 caracteres del ID (referencia en movimientos y recibos).
func (s *Sale) ShortID() string {
	if len(s.ID) <= 8 {
		return s.ID
	}
	return s.ID[:8]
}

// SaleLine línea de venta con el precio unitario del momento del cobro.
type SaleLine struct {
	ID          string
	SaleID      string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}
