// Package analytics contiene los casos de uso para el tablero de inventario y ventas.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

const (
	dashboardTopProducts = 5 // productos en el widget de más vendidos
	dashboardLowStock    = 3 // productos en el widget de stock bajo
	dashboardDays        = 7
)

// DashboardUseCase genera el resumen del tablero.
//
// Fuente de datos: AnalyticsRepository (consultas read-only) y ProductRepository para stock bajo.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	productRepo   repository.ProductRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, productRepo repository.ProductRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, productRepo: productRepo}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cinco consultas en paralelo:
//  1. InventoryByCategory      → categorías, totales de inventario
//  2. SalesTotals(mes)         → MonthSales, MonthSaleCount
//  3. TopProducts(mes, top 5)  → TopProducts
//  4. DailySales(7 días)       → LastSevenDays
//  5. ListLowStock(3)          → LowStock
//
// Si cualquiera falla, el resumen completo falla: nunca se devuelven ceros en lugar de un error.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, now time.Time) (*dto.DashboardSummaryDTO, error) {
	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	weekStart := todayStart.AddDate(0, 0, -(dashboardDays - 1))

	var (
		categories []repository.CategoryStockResult
		month      repository.SalesTotalsResult
		top        []repository.TopProductResult
		daily      []repository.DailySalesResult
		out        = &dto.DashboardSummaryDTO{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = uc.analyticsRepo.InventoryByCategory(gctx)
		if err != nil {
			return fmt.Errorf("dashboard: inventario por categoría: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		month, err = uc.analyticsRepo.SalesTotals(gctx, monthStart, todayEnd)
		if err != nil {
			return fmt.Errorf("dashboard: ventas del mes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		top, err = uc.analyticsRepo.TopProducts(gctx, monthStart, todayEnd, dashboardTopProducts)
		if err != nil {
			return fmt.Errorf("dashboard: más vendidos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		daily, err = uc.analyticsRepo.DailySales(gctx, weekStart, todayEnd)
		if err != nil {
			return fmt.Errorf("dashboard: ventas diarias: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		low, err := uc.productRepo.ListLowStock(gctx, dashboardLowStock)
		if err != nil {
			return fmt.Errorf("dashboard: stock bajo: %w", err)
		}
		out.LowStock = dto.FromProducts(low)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	out.InventoryValue = decimal.Zero
	out.Categories = make([]dto.CategoryStatDTO, 0, len(categories))
	for _, c := range categories {
		out.Categories = append(out.Categories, dto.CategoryStatDTO{
			Categoria:      c.Category,
			TotalProductos: c.TotalProducts,
			StockTotal:     c.TotalStock,
			ValorTotal:     c.TotalValue.Round(2),
		})
		out.TotalProducts += c.TotalProducts
		out.TotalStock += c.TotalStock
		out.InventoryValue = out.InventoryValue.Add(c.TotalValue)
	}
	out.InventoryValue = out.InventoryValue.Round(2)
	out.MonthSales = month.Total.Round(2)
	out.MonthSaleCount = month.Count

	out.TopProducts = make([]dto.TopProductDTO, 0, len(top))
	for _, p := range top {
		out.TopProducts = append(out.TopProducts, dto.TopProductDTO{
			ProductoID: p.ProductID,
			Nombre:     p.Name,
			Unidades:   p.Units,
			Ingresos:   p.Revenue.Round(2),
		})
	}
	out.LastSevenDays = fillDays(weekStart, dashboardDays, daily)
	out.DateLabel = monthLabel(now)
	out.GeneratedAt = now
	return out, nil
}

// fillDays devuelve un punto por día del rango, con cero en los días sin ventas.
func fillDays(start time.Time, days int, rows []repository.DailySalesResult) []dto.DailySalesDTO {
	byDay := make(map[string]repository.DailySalesResult, len(rows))
	for _, r := range rows {
		byDay[r.Day.Format("2006-01-02")] = r
	}
	out := make([]dto.DailySalesDTO, 0, days)
	for i := 0; i < days; i++ {
		key := start.AddDate(0, 0, i).Format("2006-01-02")
		r := byDay[key]
		out = append(out, dto.DailySalesDTO{Fecha: key, Cantidad: r.Count, Total: r.Total.Round(2)})
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
