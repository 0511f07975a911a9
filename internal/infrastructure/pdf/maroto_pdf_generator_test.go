package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "$0.00",
		"19.99":     "$19.99",
		"1200":      "$1,200.00",
		"25000":     "$25,000.00",
		"1234567.5": "$1,234,567.50",
		"-350.1":    "-$350.10",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestRenderReceipt_GeneraPDF(t *testing.T) {
	g := NewMarotoPDFGenerator("")
	sale := &entity.Sale{
		ID:            "7f3c2a10-0000-4000-8000-000000000001",
		Date:          time.Date(2026, 3, 14, 12, 30, 0, 0, time.Local),
		Subtotal:      decimal.RequireFromString("250"),
		Tax:           decimal.RequireFromString("40"),
		Total:         decimal.RequireFromString("290"),
		PaymentMethod: entity.PaymentCash,
		Actor:         "caja@optica.test",
		Lines: []entity.SaleLine{
			{ProductName: "Armazón", Quantity: 2, UnitPrice: decimal.RequireFromString("100"), Subtotal: decimal.RequireFromString("200")},
			{ProductName: "Estuche", Quantity: 1, UnitPrice: decimal.RequireFromString("50"), Subtotal: decimal.RequireFromString("50")},
		},
	}
	b, err := g.RenderReceipt(context.Background(), sale)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestRenderPurchaseOrder_ListaVaciaYConItems(t *testing.T) {
	g := NewMarotoPDFGenerator("Óptica Central")
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)

	b, err := g.RenderPurchaseOrder(context.Background(), nil, now)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))

	b, err = g.RenderPurchaseOrder(context.Background(), []dto.ReplenishmentSuggestionDTO{
		{ProductName: "Lentes", CurrentStock: 0, StockMinimum: 5, SuggestedOrderQty: 15, Priority: 1},
	}, now)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}
