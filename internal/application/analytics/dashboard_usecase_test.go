package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

type fakeAnalytics struct {
	failSales bool
}

func (fakeAnalytics) InventoryByCategory(context.Context) ([]repository.CategoryStockResult, error) {
	return []repository.CategoryStockResult{
		{Category: "Armazones", TotalProducts: 3, TotalStock: 20, TotalValue: decimal.RequireFromString("5000.50")},
		{Category: "Lentes", TotalProducts: 2, TotalStock: 10, TotalValue: decimal.RequireFromString("1200")},
	}, nil
}

func (f fakeAnalytics) SalesTotals(context.Context, time.Time, time.Time) (repository.SalesTotalsResult, error) {
	if f.failSales {
		return repository.SalesTotalsResult{}, errors.New("conexión perdida")
	}
	return repository.SalesTotalsResult{Count: 4, Total: decimal.RequireFromString("1160")}, nil
}

func (fakeAnalytics) TopProducts(context.Context, time.Time, time.Time, int) ([]repository.TopProductResult, error) {
	return []repository.TopProductResult{{ProductID: "p1", Name: "Armazón", Units: 3, Revenue: decimal.NewFromInt(300)}}, nil
}

func (fakeAnalytics) DailySales(_ context.Context, from, _ time.Time) ([]repository.DailySalesResult, error) {
	return []repository.DailySalesResult{{Day: from.AddDate(0, 0, 6), Count: 2, Total: decimal.NewFromInt(580)}}, nil
}

type fakeProducts struct{ repository.ProductRepository }

func (fakeProducts) ListLowStock(context.Context, int) ([]*entity.Product, error) {
	return []*entity.Product{{ID: "p9", Name: "Estuche", Stock: 1, StockMinimum: 5, Price: decimal.NewFromInt(50)}}, nil
}

func TestGetSummary(t *testing.T) {
	now := time.Date(2026, 2, 20, 15, 0, 0, 0, time.UTC)
	uc := NewDashboardUseCase(fakeAnalytics{}, fakeProducts{})

	out, err := uc.GetSummary(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 5, out.TotalProducts)
	assert.Equal(t, 30, out.TotalStock)
	assert.Equal(t, "6200.5", out.InventoryValue.String())
	assert.Equal(t, 4, out.MonthSaleCount)
	assert.Equal(t, "Febrero 2026", out.DateLabel)
	require.Len(t, out.LastSevenDays, 7)
	assert.Equal(t, "2026-02-14", out.LastSevenDays[0].Fecha)
	assert.Equal(t, "2026-02-20", out.LastSevenDays[6].Fecha)
	assert.Equal(t, 2, out.LastSevenDays[6].Cantidad)
	assert.True(t, out.LastSevenDays[0].Total.IsZero())
	require.Len(t, out.LowStock, 1)
	assert.True(t, out.LowStock[0].StockBajo)
}

func TestGetSummary_ErrorNoSeOculta(t *testing.T) {
	uc := NewDashboardUseCase(fakeAnalytics{failSales: true}, fakeProducts{})
	_, err := uc.GetSummary(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ventas del mes")
}
