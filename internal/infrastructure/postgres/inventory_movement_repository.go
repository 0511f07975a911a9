package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// Los movimientos no se actualizan ni se borran.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, movement *entity.InventoryMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movimientos_inventario (id, producto_id, tipo, cantidad, stock_anterior, stock_resultante, motivo, usuario, fecha)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.ProductID, string(movement.Kind), movement.Quantity,
		movement.PreviousStock, movement.ResultingStock, movement.Reason, movement.Actor, movement.Date,
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// List historial de movimientos, más recientes primero.
func (r *InventoryMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	var (
		conds []string
		args  []any
	)
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		conds = append(conds, fmt.Sprintf("producto_id = $%d", len(args)))
	}
	if f.Kind != "" {
		args = append(args, string(f.Kind))
		conds = append(conds, fmt.Sprintf("tipo = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("fecha >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("fecha < $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	limit, offset := limitOffset(f.Limit, f.Offset, 50)
	args = append(args, limit, offset)
	query := `
		SELECT id, producto_id, tipo, cantidad, stock_anterior, stock_resultante, motivo, usuario, fecha
		FROM movimientos_inventario` + where +
		fmt.Sprintf(` ORDER BY fecha DESC, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// SumByProduct suma con signo del libro. Los ajustes restan cuando stock_resultante < stock_anterior.
func (r *InventoryMovementRepo) SumByProduct(ctx context.Context, productID string) (int, error) {
	query := `
		SELECT coalesce(sum(CASE
			WHEN tipo = 'entrada' THEN cantidad
			WHEN tipo = 'salida' THEN -cantidad
			WHEN stock_resultante < stock_anterior THEN -cantidad
			ELSE cantidad END), 0)::int
		FROM movimientos_inventario WHERE producto_id = $1`
	var sum int
	if err := r.q.QueryRow(ctx, query, productID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum inventory movements: %w", err)
	}
	return sum, nil
}

func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var (
		m    entity.InventoryMovement
		kind string
	)
	if err := row.Scan(&m.ID, &m.ProductID, &kind, &m.Quantity, &m.PreviousStock, &m.ResultingStock,
		&m.Reason, &m.Actor, &m.Date); err != nil {
		return nil, err
	}
	m.Kind = entity.MovementKind(kind)
	return &m, nil
}
