package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el tablero y estadísticas.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// InventoryByCategory lee la vista estadisticas_inventario (solo productos activos).
func (r *AnalyticsRepo) InventoryByCategory(ctx context.Context) ([]repository.CategoryStockResult, error) {
	rows, err := r.q.Query(ctx, `
		SELECT categoria, total_productos, stock_total, valor_total
		FROM estadisticas_inventario
		ORDER BY valor_total DESC, categoria`)
	if err != nil {
		return nil, fmt.Errorf("analytics.InventoryByCategory: %w", err)
	}
	defer rows.Close()

	var results []repository.CategoryStockResult
	for rows.Next() {
		var row repository.CategoryStockResult
		if err := rows.Scan(&row.Category, &row.TotalProducts, &row.TotalStock, &row.TotalValue); err != nil {
			return nil, fmt.Errorf("analytics.InventoryByCategory scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// SalesTotals número de ventas completadas y su total en [from, to).
func (r *AnalyticsRepo) SalesTotals(ctx context.Context, from, to time.Time) (repository.SalesTotalsResult, error) {
	var out repository.SalesTotalsResult
	err := r.q.QueryRow(ctx, `
		SELECT count(*)::int, coalesce(sum(total), 0)
		FROM ventas
		WHERE estado = $1 AND fecha >= $2 AND fecha < $3`,
		entity.SaleStatusCompleted, from, to).Scan(&out.Count, &out.Total)
	if err != nil {
		return out, fmt.Errorf("analytics.SalesTotals: %w", err)
	}
	return out, nil
}

// TopProducts productos con más unidades vendidas en [from, to).
func (r *AnalyticsRepo) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]repository.TopProductResult, error) {
	const query = `
	SELECT
	    d.producto_id::text                          AS producto_id,
	    max(d.nombre_producto)                       AS nombre,
	    sum(d.cantidad)::int                         AS unidades,
	    sum(d.subtotal)                              AS ingresos
	FROM detalle_ventas d
	JOIN ventas v ON v.id = d.venta_id
	WHERE v.estado = $1
	  AND v.fecha >= $2 AND v.fecha < $3
	GROUP BY d.producto_id
	ORDER BY unidades DESC, ingresos DESC
	LIMIT $4`

	rows, err := r.q.Query(ctx, query, entity.SaleStatusCompleted, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.TopProducts: %w", err)
	}
	defer rows.Close()

	var results []repository.TopProductResult
	for rows.Next() {
		var row repository.TopProductResult
		if err := rows.Scan(&row.ProductID, &row.Name, &row.Units, &row.Revenue); err != nil {
			return nil, fmt.Errorf("analytics.TopProducts scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// DailySales ventas agrupadas por día (zona horaria de la sesión) en [from, to).
// Los días sin ventas no aparecen.
func (r *AnalyticsRepo) DailySales(ctx context.Context, from, to time.Time) ([]repository.DailySalesResult, error) {
	rows, err := r.q.Query(ctx, `
		SELECT date_trunc('day', fecha)::date AS dia, count(*)::int, coalesce(sum(total), 0)
		FROM ventas
		WHERE estado = $1 AND fecha >= $2 AND fecha < $3
		GROUP BY dia
		ORDER BY dia`,
		entity.SaleStatusCompleted, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.DailySales: %w", err)
	}
	defer rows.Close()

	var results []repository.DailySalesResult
	for rows.Next() {
		var row repository.DailySalesResult
		if err := rows.Scan(&row.Day, &row.Count, &row.Total); err != nil {
			return nil, fmt.Errorf("analytics.DailySales scan: %w", err)
		}
		row.Day = localDate(row.Day)
		results = append(results, row)
	}
	return results, rows.Err()
}
