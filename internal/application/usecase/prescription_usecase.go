package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

// PrescriptionUseCase recetas oftalmológicas. No se editan: una corrección es una receta nueva.
type PrescriptionUseCase struct {
	repo       repository.PrescriptionRepository
	clientRepo repository.ClientRepository
}

// NewPrescriptionUseCase construye el caso de uso.
func NewPrescriptionUseCase(repo repository.PrescriptionRepository, clientRepo repository.ClientRepository) *PrescriptionUseCase {
	return &PrescriptionUseCase{repo: repo, clientRepo: clientRepo}
}

// Create registra una receta. Sin fecha, se usa el día actual.
func (uc *PrescriptionUseCase) Create(ctx context.Context, in dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	if err := validateAxis(in.OjoDerecho.Eje, in.OjoIzquierdo.Eje); err != nil {
		return nil, err
	}
	if in.DistanciaPupilar != nil && !in.DistanciaPupilar.IsPositive() {
		return nil, fmt.Errorf("%w: distancia pupilar debe ser positiva", domain.ErrInvalidInput)
	}
	client, err := uc.clientRepo.GetByID(ctx, in.ClienteID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("cliente: %w", domain.ErrNotFound)
	}
	now := time.Now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if in.Fecha != "" {
		d, err := time.ParseInLocation(dto.DateLayout, in.Fecha, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, in.Fecha)
		}
		date = d
	}
	p := &entity.Prescription{
		ID:       uuid.New().String(),
		ClientID: client.ID,
		Date:     date,
		RightEye: entity.EyeCorrection{
			Sphere: in.OjoDerecho.Esfera, Cylinder: in.OjoDerecho.Cilindro, Axis: in.OjoDerecho.Eje,
		},
		LeftEye: entity.EyeCorrection{
			Sphere: in.OjoIzquierdo.Esfera, Cylinder: in.OjoIzquierdo.Cilindro, Axis: in.OjoIzquierdo.Eje,
		},
		PupillaryDistance: in.DistanciaPupilar,
		Notes:             in.Observaciones,
		CreatedAt:         now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	out := dto.FromPrescription(p)
	return &out, nil
}

// GetByID obtiene una receta.
func (uc *PrescriptionUseCase) GetByID(ctx context.Context, id string) (*dto.PrescriptionResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.FromPrescription(p)
	return &out, nil
}

// ListByClient recetas del cliente, más recientes primero.
func (uc *PrescriptionUseCase) ListByClient(ctx context.Context, clientID string) ([]dto.PrescriptionResponse, error) {
	list, err := uc.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PrescriptionResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.FromPrescription(p))
	}
	return out, nil
}

func validateAxis(axes ...int) error {
	for _, a := range axes {
		if a < 0 || a > 180 {
			return fmt.Errorf("%w: eje fuera de rango 0-180", domain.ErrInvalidInput)
		}
	}
	return nil
}
