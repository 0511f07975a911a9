package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

const timeLayout = "15:04"

// AppointmentUseCase agenda de citas y sus transiciones de estado.
type AppointmentUseCase struct {
	repo       repository.AppointmentRepository
	clientRepo repository.ClientRepository
	now        func() time.Time
}

// NewAppointmentUseCase construye el caso de uso.
func NewAppointmentUseCase(repo repository.AppointmentRepository, clientRepo repository.ClientRepository) *AppointmentUseCase {
	return &AppointmentUseCase{repo: repo, clientRepo: clientRepo, now: time.Now}
}

// Create agenda una cita pendiente. Cliente, fecha y hora son obligatorios.
func (uc *AppointmentUseCase) Create(ctx context.Context, in dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	date, hour, err := parseSlot(in.Fecha, in.Hora)
	if err != nil {
		return nil, err
	}
	client, err := uc.clientRepo.GetByID(ctx, in.ClienteID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("cliente: %w", domain.ErrNotFound)
	}
	now := uc.now()
	a := &entity.Appointment{
		ID:        uuid.New().String(),
		ClientID:  client.ID,
		Date:      date,
		Time:      hour,
		Reason:    in.Motivo,
		Notes:     in.Observaciones,
		Status:    entity.AppointmentPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	out := dto.FromAppointmentWithClient(&entity.AppointmentWithClient{
		Appointment:     *a,
		ClientFirstName: client.FirstName,
		ClientLastName:  client.LastName,
		ClientEmail:     client.Email,
	})
	return &out, nil
}

// GetByID cita con los datos del cliente.
func (uc *AppointmentUseCase) GetByID(ctx context.Context, id string) (*dto.AppointmentResponse, error) {
	a, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromAppointmentWithClient(a)
	return &out, nil
}

// List citas por estado, con búsqueda por nombre del cliente sin tildes ni mayúsculas.
func (uc *AppointmentUseCase) List(ctx context.Context, f dto.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	f.DefaultPage()
	var status entity.AppointmentStatus
	if f.Estado != "" {
		st, err := entity.ParseAppointmentStatus(f.Estado)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		status = st
	}
	page, total, err := uc.repo.List(ctx, repository.AppointmentFilter{
		Status:     status,
		NameSearch: foldText(f.Buscar),
		Limit:      f.Limit,
		Offset:     f.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.AppointmentResponse, 0, len(page))
	for _, a := range page {
		items = append(items, dto.FromAppointmentWithClient(a))
	}
	return &dto.AppointmentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: total},
	}, nil
}

// Update reprograma o edita una cita. Solo mientras está pendiente.
func (uc *AppointmentUseCase) Update(ctx context.Context, id string, in dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	a, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.CanEdit() {
		return nil, fmt.Errorf("%w: la cita está %s", domain.ErrConflict, a.Status)
	}
	fecha, hora := a.Date.Format(dto.DateLayout), a.Time
	if in.Fecha != nil {
		fecha = *in.Fecha
	}
	if in.Hora != nil {
		hora = *in.Hora
	}
	date, hour, err := parseSlot(fecha, hora)
	if err != nil {
		return nil, err
	}
	a.Date, a.Time = date, hour
	if in.Motivo != nil {
		a.Reason = *in.Motivo
	}
	if in.Observaciones != nil {
		a.Notes = *in.Observaciones
	}
	a.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, &a.Appointment); err != nil {
		return nil, err
	}
	out := dto.FromAppointmentWithClient(a)
	return &out, nil
}

// Complete pendiente -> completada.
func (uc *AppointmentUseCase) Complete(ctx context.Context, id string) (*dto.AppointmentResponse, error) {
	return uc.transition(ctx, id, (*entity.Appointment).Complete)
}

// Cancel pendiente -> cancelada.
func (uc *AppointmentUseCase) Cancel(ctx context.Context, id string) (*dto.AppointmentResponse, error) {
	return uc.transition(ctx, id, (*entity.Appointment).Cancel)
}

// Delete elimina una cita.
func (uc *AppointmentUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// OnDate citas de un día con el estado dado (recordatorios).
func (uc *AppointmentUseCase) OnDate(ctx context.Context, date time.Time, status entity.AppointmentStatus) ([]*entity.AppointmentWithClient, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return uc.repo.OnDate(ctx, day, status)
}

// transition aplica el cambio en memoria y lo persiste solo si la cita sigue pendiente en BD.
func (uc *AppointmentUseCase) transition(ctx context.Context, id string, apply func(*entity.Appointment, time.Time) error) (*dto.AppointmentResponse, error) {
	a, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := a.Status
	if err := apply(&a.Appointment, uc.now()); err != nil {
		return nil, err
	}
	ok, err := uc.repo.UpdateStatus(ctx, &a.Appointment, from)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: la cita cambió de estado", domain.ErrConflict)
	}
	log.Info().Str("cita_id", a.ID).Str("estado", string(a.Status)).Msg("cita actualizada")
	out := dto.FromAppointmentWithClient(a)
	return &out, nil
}

func (uc *AppointmentUseCase) get(ctx context.Context, id string) (*entity.AppointmentWithClient, error) {
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

// parseSlot valida fecha (AAAA-MM-DD) y hora (HH:MM).
func parseSlot(fecha, hora string) (time.Time, string, error) {
	date, err := time.ParseInLocation(dto.DateLayout, strings.TrimSpace(fecha), time.Local)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, fecha)
	}
	h, err := time.Parse(timeLayout, strings.TrimSpace(hora))
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: hora %q", domain.ErrInvalidInput, hora)
	}
	return date, h.Format(timeLayout), nil
}
