package repository

import (
	"context"
	"time"

	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
)

// AppointmentFilter filtros del listado de citas.
type AppointmentFilter struct {
	Status entity.AppointmentStatus // vacío = todas
	// NameSearch subcadena ya normalizada (minúsculas, sin tildes) sobre "nombre apellido" del cliente.
	NameSearch string
	Limit      int
	Offset     int
}

// AppointmentRepository puerto de persistencia de citas.
type AppointmentRepository interface {
	Create(ctx context.Context, a *entity.Appointment) error
	GetByID(ctx context.Context, id string) (*entity.AppointmentWithClient, error)
	// Update edita la cita solo si sigue pendiente. Si ya no lo está: domain.ErrConflict.
	Update(ctx context.Context, a *entity.Appointment) error
	// UpdateStatus cambia el estado solo si la cita sigue en from. false si no se actualizó.
	UpdateStatus(ctx context.Context, a *entity.Appointment, from entity.AppointmentStatus) (bool, error)
	Delete(ctx context.Context, id string) error
	// List página de citas con datos del cliente, más recientes primero, y el total filtrado.
	List(ctx context.Context, f AppointmentFilter) ([]*entity.AppointmentWithClient, int, error)
	ListByClient(ctx context.Context, clientID string) ([]*entity.Appointment, error)
	// OnDate citas de un día calendario con el estado dado.
	OnDate(ctx context.Context, date time.Time, status entity.AppointmentStatus) ([]*entity.AppointmentWithClient, error)
}
