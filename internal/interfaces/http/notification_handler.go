package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
)

// EmailService envíos directos de correo.
type EmailService interface {
	SendWelcome(ctx context.Context, in dto.WelcomeEmailRequest) error
	SendReminder(ctx context.Context, in dto.AppointmentReminderRequest) error
}

// ReminderService recordatorios de las citas de mañana.
type ReminderService interface {
	SendTomorrowReminders(ctx context.Context, now time.Time) (*dto.ReminderRunResponse, error)
}

// NotificationHandler correos transaccionales y recordatorios programados.
type NotificationHandler struct {
	email     EmailService
	reminders ReminderService
	now       func() time.Time
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(email EmailService, reminders ReminderService) *NotificationHandler {
	return &NotificationHandler{email: email, reminders: reminders, now: time.Now}
}

// SendWelcome godoc
// @Summary      Enviar bienvenida
// @Tags         email
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WelcomeEmailRequest  true  "nombre, apellido, email"
// @Success      200   {object}  dto.EmailResultResponse
// @Failure      400   {object}  dto.EmailResultResponse
// @Failure      502   {object}  dto.EmailResultResponse
// @Router       /email/welcome [post]
func (h *NotificationHandler) SendWelcome(c *fiber.Ctx) error {
	var in dto.WelcomeEmailRequest
	if !h.bindEmail(c, &in) {
		return nil
	}
	if err := h.email.SendWelcome(c.Context(), in); err != nil {
		log.Error().Err(err).Str("to", in.Email).Msg("email: bienvenida fallida")
		return c.Status(fiber.StatusBadGateway).JSON(dto.EmailResultResponse{Error: "Error al enviar email: " + err.Error()})
	}
	return c.JSON(dto.EmailResultResponse{Success: true, Message: "Email de bienvenida enviado correctamente"})
}

// SendAppointmentReminder godoc
// @Summary      Enviar recordatorio de cita
// @Tags         email
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AppointmentReminderRequest  true  "Datos del cliente y de la cita"
// @Success      200   {object}  dto.EmailResultResponse
// @Failure      400   {object}  dto.EmailResultResponse
// @Failure      502   {object}  dto.EmailResultResponse
// @Router       /email/appointment-reminder [post]
func (h *NotificationHandler) SendAppointmentReminder(c *fiber.Ctx) error {
	var in dto.AppointmentReminderRequest
	if !h.bindEmail(c, &in) {
		return nil
	}
	if err := h.email.SendReminder(c.Context(), in); err != nil {
		log.Error().Err(err).Str("to", in.ClienteEmail).Msg("email: recordatorio fallido")
		return c.Status(fiber.StatusBadGateway).JSON(dto.EmailResultResponse{Error: "Error al enviar recordatorio: " + err.Error()})
	}
	return c.JSON(dto.EmailResultResponse{Success: true, Message: "Recordatorio de cita enviado correctamente"})
}

// RunReminders godoc
// @Summary      Recordatorios de citas de mañana
// @Description  Protegido con Authorization: Bearer <CRON_SECRET>. Un envío fallido no detiene a los demás.
// @Tags         cron
// @Produce      json
// @Success      200  {object}  dto.ReminderRunResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /cron/appointment-reminders [get]
func (h *NotificationHandler) RunReminders(c *fiber.Ctx) error {
	out, err := h.reminders.SendTomorrowReminders(c.Context(), h.now())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// bindEmail los endpoints de correo responden 400 con el mismo cuerpo para JSON inválido y campos faltantes.
func (h *NotificationHandler) bindEmail(c *fiber.Ctx, req interface{}) bool {
	if err := c.BodyParser(req); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.EmailResultResponse{Error: "Cuerpo inválido"})
		return false
	}
	if err := validate.Struct(req); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.EmailResultResponse{Error: "Faltan datos requeridos"})
		return false
	}
	return true
}
