package dto

// WelcomeEmailRequest body de POST /email/welcome.
type WelcomeEmailRequest struct {
	Nombre   string `json:"nombre" validate:"required"`
	Apellido string `json:"apellido" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

// AppointmentReminderRequest body de POST /email/appointment-reminder.
type AppointmentReminderRequest struct {
	ClienteNombre   string `json:"clienteNombre" validate:"required"`
	ClienteApellido string `json:"clienteApellido" validate:"required"`
	ClienteEmail    string `json:"clienteEmail" validate:"required,email"`
	Fecha           string `json:"fecha" validate:"required"`
	Hora            string `json:"hora" validate:"required"`
	Motivo          string `json:"motivo"`
}

// EmailResultResponse resultado de un envío directo.
type EmailResultResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ReminderDetailDTO resultado por cita.
type ReminderDetailDTO struct {
	CitaID    string `json:"cita"`
	Cliente   string `json:"cliente"`
	Resultado string `json:"resultado"` // exitoso | fallido
	Error     string `json:"error,omitempty"`
}

// ReminderRunResponse resumen de GET /cron/appointment-reminders.
type ReminderRunResponse struct {
	Success               bool                `json:"success"`
	Message               string              `json:"message"`
	CitasEncontradas      int                 `json:"citasEncontradas"`
	RecordatoriosEnviados int                 `json:"recordatoriosEnviados"`
	Fallidos              int                 `json:"fallidos"`
	Detalles              []ReminderDetailDTO `json:"detalles"`
}
