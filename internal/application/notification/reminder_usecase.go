package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
)

const defaultReminderConcurrency = 4

// AppointmentLister citas de un día con un estado dado.
type AppointmentLister interface {
	OnDate(ctx context.Context, date time.Time, status entity.AppointmentStatus) ([]*entity.AppointmentWithClient, error)
}

// ReminderUseCase recordatorios de las citas pendientes del día siguiente.
type ReminderUseCase struct {
	appointments AppointmentLister
	sender       Sender
	concurrency  int
}

// NewReminderUseCase construye el caso de uso; concurrency acota los envíos simultáneos.
func NewReminderUseCase(appointments AppointmentLister, sender Sender, concurrency int) *ReminderUseCase {
	if concurrency <= 0 {
		concurrency = defaultReminderConcurrency
	}
	return &ReminderUseCase{appointments: appointments, sender: sender, concurrency: concurrency}
}

// SendTomorrowReminders busca las citas pendientes de mañana y envía un recordatorio a cada cliente.
// Un envío fallido no detiene a los demás; solo la consulta de citas devuelve error.
func (uc *ReminderUseCase) SendTomorrowReminders(ctx context.Context, now time.Time) (*dto.ReminderRunResponse, error) {
	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	list, err := uc.appointments.OnDate(ctx, tomorrow, entity.AppointmentPending)
	if err != nil {
		return nil, fmt.Errorf("recordatorios: buscar citas: %w", err)
	}
	out := &dto.ReminderRunResponse{
		Success:          true,
		CitasEncontradas: len(list),
		Detalles:         make([]dto.ReminderDetailDTO, len(list)),
	}
	if len(list) == 0 {
		out.Message = "No hay citas para mañana"
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i, a := range list {
		g.Go(func() error {
			out.Detalles[i] = uc.remind(gctx, a, now)
			return nil
		})
	}
	_ = g.Wait()

	for _, d := range out.Detalles {
		if d.Resultado == "exitoso" {
			out.RecordatoriosEnviados++
		} else {
			out.Fallidos++
		}
	}
	out.Message = "Proceso completado"
	log.Info().
		Str("fecha", tomorrow.Format(dto.DateLayout)).
		Int("citas", out.CitasEncontradas).
		Int("enviados", out.RecordatoriosEnviados).
		Int("fallidos", out.Fallidos).
		Msg("recordatorios de citas")
	return out, nil
}

func (uc *ReminderUseCase) remind(ctx context.Context, a *entity.AppointmentWithClient, now time.Time) dto.ReminderDetailDTO {
	detail := dto.ReminderDetailDTO{CitaID: a.ID, Cliente: a.ClientEmail, Resultado: "fallido"}
	if a.ClientEmail == "" {
		detail.Error = "cliente sin email"
		return detail
	}
	msg, err := ReminderMessage(ReminderData{
		FirstName: a.ClientFirstName,
		LastName:  a.ClientLastName,
		Email:     a.ClientEmail,
		Date:      LongDate(a.Date),
		Time:      a.Time,
		Reason:    a.Reason,
	}, now)
	if err == nil {
		sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
		err = uc.sender.Send(sendCtx, msg)
		cancel()
	}
	if err != nil {
		log.Warn().Err(err).Str("cita_id", a.ID).Msg("recordatorio fallido")
		detail.Error = err.Error()
		return detail
	}
	detail.Resultado = "exitoso"
	return detail
}
