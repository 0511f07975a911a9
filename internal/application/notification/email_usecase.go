package notification

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
)

// EmailUseCase envíos directos pedidos por la API; el resultado vuelve al caller.
type EmailUseCase struct {
	sender Sender
	now    func() time.Time
}

// NewEmailUseCase construye el caso de uso.
func NewEmailUseCase(sender Sender) *EmailUseCase {
	return &EmailUseCase{sender: sender, now: time.Now}
}

// SendWelcome envía la bienvenida a un cliente.
func (uc *EmailUseCase) SendWelcome(ctx context.Context, in dto.WelcomeEmailRequest) error {
	msg, err := WelcomeMessage(WelcomeData{FirstName: in.Nombre, LastName: in.Apellido, Email: in.Email}, uc.now())
	if err != nil {
		return err
	}
	return uc.send(ctx, msg)
}

// SendReminder envía un recordatorio de cita. Si fecha es AAAA-MM-DD se muestra en formato largo.
func (uc *EmailUseCase) SendReminder(ctx context.Context, in dto.AppointmentReminderRequest) error {
	msg, err := ReminderMessage(ReminderData{
		FirstName: in.ClienteNombre,
		LastName:  in.ClienteApellido,
		Email:     in.ClienteEmail,
		Date:      displayDate(in.Fecha),
		Time:      in.Hora,
		Reason:    in.Motivo,
	}, uc.now())
	if err != nil {
		return err
	}
	return uc.send(ctx, msg)
}

func (uc *EmailUseCase) send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	return uc.sender.Send(ctx, msg)
}

func displayDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= len(dto.DateLayout) {
		if t, err := time.Parse(dto.DateLayout, s[:len(dto.DateLayout)]); err == nil {
			return LongDate(t)
		}
	}
	return s
}
