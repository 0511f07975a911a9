package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

var _ repository.AppointmentRepository = (*AppointmentRepo)(nil)

// AppointmentRepo implementación de AppointmentRepository sobre PostgreSQL.
type AppointmentRepo struct {
	q Querier
}

// NewAppointmentRepository construye el adaptador.
func NewAppointmentRepository(q Querier) *AppointmentRepo {
	return &AppointmentRepo{q: q}
}

const dateLayout = "2006-01-02"

// localDate el tipo DATE llega como medianoche UTC; se reinterpreta como día calendario local.
func localDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

const appointmentWithClientSelect = `
		SELECT a.id, a.cliente_id, a.fecha, a.hora, a.motivo, a.observaciones, a.estado,
			a.completed_at, a.cancelled_at, a.created_at, a.updated_at,
			c.nombre, c.apellido, coalesce(c.email, '')
		FROM citas a
		JOIN clientes c ON c.id = a.cliente_id`

func scanAppointmentWithClient(row pgx.Row) (*entity.AppointmentWithClient, error) {
	var (
		a      entity.AppointmentWithClient
		status string
	)
	err := row.Scan(&a.ID, &a.ClientID, &a.Date, &a.Time, &a.Reason, &a.Notes, &status,
		&a.CompletedAt, &a.CancelledAt, &a.CreatedAt, &a.UpdatedAt,
		&a.ClientFirstName, &a.ClientLastName, &a.ClientEmail)
	if err != nil {
		return nil, err
	}
	a.Date = localDate(a.Date)
	a.Status = entity.AppointmentStatus(status)
	return &a, nil
}

func collectAppointmentsWithClient(rows pgx.Rows) ([]*entity.AppointmentWithClient, error) {
	defer rows.Close()
	var list []*entity.AppointmentWithClient
	for rows.Next() {
		a, err := scanAppointmentWithClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Create inserta una cita. Cliente inexistente: ErrInvalidInput.
func (r *AppointmentRepo) Create(ctx context.Context, a *entity.Appointment) error {
	query := `
		INSERT INTO citas (id, cliente_id, fecha, hora, motivo, observaciones, estado, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.ClientID, a.Date.Format(dateLayout), a.Time, a.Reason, a.Notes, string(a.Status), a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: cliente inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

// GetByID obtiene la cita con los datos del cliente.
func (r *AppointmentRepo) GetByID(ctx context.Context, id string) (*entity.AppointmentWithClient, error) {
	a, err := scanAppointmentWithClient(r.q.QueryRow(ctx, appointmentWithClientSelect+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

// Update reprograma o edita una cita (fecha, hora, motivo, observaciones) solo si sigue pendiente.
// Sin filas: ErrNotFound si la cita no existe, ErrConflict si ya es terminal.
func (r *AppointmentRepo) Update(ctx context.Context, a *entity.Appointment) error {
	query := `
		UPDATE citas SET fecha = $2::date, hora = $3, motivo = $4, observaciones = $5, updated_at = $6
		WHERE id = $1 AND estado = $7`
	tag, err := r.q.Exec(ctx, query, a.ID, a.Date.Format(dateLayout), a.Time, a.Reason, a.Notes, a.UpdatedAt,
		string(entity.AppointmentPending))
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM citas WHERE id = $1)`, a.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check appointment: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: la cita ya no está pendiente", domain.ErrConflict)
}

// UpdateStatus escritura condicional: solo si el estado persistido sigue siendo from.
func (r *AppointmentRepo) UpdateStatus(ctx context.Context, a *entity.Appointment, from entity.AppointmentStatus) (bool, error) {
	query := `
		UPDATE citas SET estado = $2, completed_at = $3, cancelled_at = $4, updated_at = $5
		WHERE id = $1 AND estado = $6`
	tag, err := r.q.Exec(ctx, query, a.ID, string(a.Status), a.CompletedAt, a.CancelledAt, a.UpdatedAt, string(from))
	if err != nil {
		return false, fmt.Errorf("update appointment status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Delete borra una cita.
func (r *AppointmentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM citas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List página de citas con cliente, más recientes primero. La búsqueda compara contra
// lower(unaccent(nombre || ' ' || apellido)).
func (r *AppointmentRepo) List(ctx context.Context, f repository.AppointmentFilter) ([]*entity.AppointmentWithClient, int, error) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("a.estado = $%d", len(args)))
	}
	if f.NameSearch != "" {
		args = append(args, likeContains(f.NameSearch))
		conds = append(conds, fmt.Sprintf("lower(unaccent(c.nombre || ' ' || c.apellido)) LIKE $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := `SELECT count(*) FROM citas a JOIN clientes c ON c.id = a.cliente_id` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	limit, offset := limitOffset(f.Limit, f.Offset, 50)
	args = append(args, limit, offset)
	query := appointmentWithClientSelect + where +
		fmt.Sprintf(` ORDER BY a.fecha DESC, a.hora DESC, a.id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	list, err := collectAppointmentsWithClient(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListByClient citas del cliente, más recientes primero.
func (r *AppointmentRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.Appointment, error) {
	list, err := r.q.Query(ctx, appointmentWithClientSelect+` WHERE a.cliente_id = $1 ORDER BY a.fecha DESC, a.hora DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list client appointments: %w", err)
	}
	withClient, err := collectAppointmentsWithClient(list)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Appointment, 0, len(withClient))
	for _, a := range withClient {
		out = append(out, &a.Appointment)
	}
	return out, nil
}

// OnDate citas de un día calendario con el estado dado, por hora.
func (r *AppointmentRepo) OnDate(ctx context.Context, date time.Time, status entity.AppointmentStatus) ([]*entity.AppointmentWithClient, error) {
	rows, err := r.q.Query(ctx, appointmentWithClientSelect+` WHERE a.fecha = $1::date AND a.estado = $2 ORDER BY a.hora`,
		date.Format(dateLayout), string(status))
	if err != nil {
		return nil, fmt.Errorf("appointments on date: %w", err)
	}
	return collectAppointmentsWithClient(rows)
}
