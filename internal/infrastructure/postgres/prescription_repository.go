package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

var _ repository.PrescriptionRepository = (*PrescriptionRepo)(nil)

// PrescriptionRepo recetas ópticas. Sin UPDATE ni DELETE.
type PrescriptionRepo struct {
	q Querier
}

// NewPrescriptionRepository construye el adaptador.
func NewPrescriptionRepository(q Querier) *PrescriptionRepo {
	return &PrescriptionRepo{q: q}
}

const prescriptionColumns = `id, cliente_id, fecha, od_esfera, od_cilindro, od_eje, oi_esfera, oi_cilindro, oi_eje,
		distancia_pupilar, observaciones, created_at`

func scanPrescription(row pgx.Row) (*entity.Prescription, error) {
	var p entity.Prescription
	err := row.Scan(&p.ID, &p.ClientID, &p.Date,
		&p.RightEye.Sphere, &p.RightEye.Cylinder, &p.RightEye.Axis,
		&p.LeftEye.Sphere, &p.LeftEye.Cylinder, &p.LeftEye.Axis,
		&p.PupillaryDistance, &p.Notes, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Date = localDate(p.Date)
	return &p, nil
}

// Create inserta una receta. Cliente inexistente: ErrInvalidInput.
func (r *PrescriptionRepo) Create(ctx context.Context, p *entity.Prescription) error {
	query := `
		INSERT INTO recetas (` + prescriptionColumns + `)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query, p.ID, p.ClientID, p.Date.Format(dateLayout),
		p.RightEye.Sphere, p.RightEye.Cylinder, p.RightEye.Axis,
		p.LeftEye.Sphere, p.LeftEye.Cylinder, p.LeftEye.Axis,
		p.PupillaryDistance, p.Notes, p.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: cliente inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert prescription: %w", err)
	}
	return nil
}

// GetByID obtiene una receta.
func (r *PrescriptionRepo) GetByID(ctx context.Context, id string) (*entity.Prescription, error) {
	p, err := scanPrescription(r.q.QueryRow(ctx, `SELECT `+prescriptionColumns+` FROM recetas WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get prescription: %w", err)
	}
	return p, nil
}

// ListByClient recetas del cliente, más recientes primero.
func (r *PrescriptionRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.Prescription, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+prescriptionColumns+` FROM recetas WHERE cliente_id = $1 ORDER BY fecha DESC, created_at DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list prescriptions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prescription: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
