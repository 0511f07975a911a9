package repository

import (
	"context"

	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
)

// PrescriptionRepository recetas: inserción y lectura, sin edición.
type PrescriptionRepository interface {
	Create(ctx context.Context, p *entity.Prescription) error
	GetByID(ctx context.Context, id string) (*entity.Prescription, error)
	ListByClient(ctx context.Context, clientID string) ([]*entity.Prescription, error)
}
