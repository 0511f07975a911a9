package repository

import (
	"context"
	"time"

	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
)

// ClientFilter filtros de listado de clientes.
type ClientFilter struct {
	Search string
	Type   entity.ClientType
	Limit  int
	Offset int
}

// ClientTypeCount clientes por tipo.
type ClientTypeCount struct {
	Type  entity.ClientType
	Count int
}

// ClientRepository puerto de persistencia de clientes.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ClientFilter) ([]*entity.Client, int, error)
	CountByType(ctx context.Context) ([]ClientTypeCount, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}
