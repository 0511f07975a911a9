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

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository sobre PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Acepta pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, nombre, apellido, email, telefono, fecha_nacimiento, direccion, ciudad,
		codigo_postal, tipo_cliente, observaciones, created_at, updated_at`

func scanClient(row pgx.Row) (*entity.Client, error) {
	var (
		c     entity.Client
		email *string
		kind  string
	)
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &email, &c.Phone, &c.BirthDate, &c.Address, &c.City,
		&c.PostalCode, &kind, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if email != nil {
		c.Email = *email
	}
	c.Type = entity.ClientType(kind)
	return &c, nil
}

// Email vacío se guarda como NULL: el índice único ignora clientes sin correo.
func nullableString(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

// Create inserta un cliente. Email repetido: ErrDuplicate.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clientes (id, nombre, apellido, email, telefono, fecha_nacimiento, direccion, ciudad,
			codigo_postal, tipo_cliente, observaciones, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.FirstName, c.LastName, nullableString(c.Email), c.Phone, c.BirthDate, c.Address, c.City,
		c.PostalCode, string(c.Type), c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clientes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// Update actualiza la ficha del cliente.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clientes SET nombre = $2, apellido = $3, email = $4, telefono = $5, fecha_nacimiento = $6,
			direccion = $7, ciudad = $8, codigo_postal = $9, tipo_cliente = $10, observaciones = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.FirstName, c.LastName, nullableString(c.Email), c.Phone, c.BirthDate,
		c.Address, c.City, c.PostalCode, string(c.Type), c.Notes, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra el cliente. Con citas, recetas o ventas asociadas: ErrConflict.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM clientes WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el cliente tiene historial asociado", domain.ErrConflict)
		}
		return fmt.Errorf("delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List clientes por texto (nombre, apellido, email, teléfono) y tipo, ordenados por apellido.
func (r *ClientRepo) List(ctx context.Context, f repository.ClientFilter) ([]*entity.Client, int, error) {
	var (
		conds []string
		args  []any
	)
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(nombre ILIKE $%d OR apellido ILIKE $%d OR (nombre || ' ' || apellido) ILIKE $%d OR email ILIKE $%d OR telefono ILIKE $%d)",
			n, n, n, n, n))
	}
	if f.Type != "" {
		args = append(args, string(f.Type))
		conds = append(conds, fmt.Sprintf("tipo_cliente = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM clientes`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	limit, offset := limitOffset(f.Limit, f.Offset, 50)
	args = append(args, limit, offset)
	query := `SELECT ` + clientColumns + ` FROM clientes` + where +
		fmt.Sprintf(` ORDER BY apellido, nombre LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// CountByType clientes agrupados por tipo.
func (r *ClientRepo) CountByType(ctx context.Context) ([]repository.ClientTypeCount, error) {
	rows, err := r.q.Query(ctx, `SELECT tipo_cliente, count(*)::int FROM clientes GROUP BY tipo_cliente ORDER BY tipo_cliente`)
	if err != nil {
		return nil, fmt.Errorf("count clients by type: %w", err)
	}
	defer rows.Close()
	var out []repository.ClientTypeCount
	for rows.Next() {
		var (
			kind string
			n    int
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan client count: %w", err)
		}
		out = append(out, repository.ClientTypeCount{Type: entity.ClientType(kind), Count: n})
	}
	return out, rows.Err()
}

// CountCreatedSince clientes dados de alta desde since.
func (r *ClientRepo) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*)::int FROM clientes WHERE created_at >= $1`, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count new clients: %w", err)
	}
	return n, nil
}
