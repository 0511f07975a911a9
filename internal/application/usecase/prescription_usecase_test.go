package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
)

type fakePrescriptions struct {
	list []*entity.Prescription
}

func (f *fakePrescriptions) Create(_ context.Context, p *entity.Prescription) error {
	f.list = append(f.list, p)
	return nil
}

func (f *fakePrescriptions) GetByID(_ context.Context, id string) (*entity.Prescription, error) {
	for _, p := range f.list {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePrescriptions) ListByClient(_ context.Context, clientID string) ([]*entity.Prescription, error) {
	var out []*entity.Prescription
	for _, p := range f.list {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestPrescriptionCreate_GuardaGraduacion(t *testing.T) {
	repo := &fakePrescriptions{}
	uc := NewPrescriptionUseCase(repo, newFakeClients(&entity.Client{ID: "c1", FirstName: "Ana"}))
	dp := decimal.RequireFromString("62.5")

	out, err := uc.Create(context.Background(), dto.CreatePrescriptionRequest{
		ClienteID:        "c1",
		Fecha:            "2024-03-15",
		OjoDerecho:       dto.EyeDTO{Esfera: decimal.RequireFromString("-1.25"), Cilindro: decimal.RequireFromString("-0.50"), Eje: 90},
		OjoIzquierdo:     dto.EyeDTO{Esfera: decimal.RequireFromString("-1.00"), Eje: 180},
		DistanciaPupilar: &dp,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", out.Fecha)
	assert.Equal(t, 90, out.OjoDerecho.Eje)
	assert.True(t, out.OjoDerecho.Esfera.Equal(decimal.RequireFromString("-1.25")))

	got, err := uc.GetByID(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, "c1", got.ClienteID)

	list, err := uc.ListByClient(context.Background(), "c1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPrescriptionCreate_EjeFueraDeRango(t *testing.T) {
	repo := &fakePrescriptions{}
	uc := NewPrescriptionUseCase(repo, newFakeClients(&entity.Client{ID: "c1"}))

	_, err := uc.Create(context.Background(), dto.CreatePrescriptionRequest{
		ClienteID:  "c1",
		OjoDerecho: dto.EyeDTO{Eje: 181},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Empty(t, repo.list)
}

func TestPrescriptionCreate_ClienteInexistente(t *testing.T) {
	uc := NewPrescriptionUseCase(&fakePrescriptions{}, newFakeClients())

	_, err := uc.Create(context.Background(), dto.CreatePrescriptionRequest{ClienteID: "nadie"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPrescriptionGetByID_NoExiste(t *testing.T) {
	uc := NewPrescriptionUseCase(&fakePrescriptions{}, newFakeClients())

	_, err := uc.GetByID(context.Background(), "x")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
