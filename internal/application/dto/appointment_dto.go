package dto

import "time"

// CreateAppointmentRequest alta de cita.
type CreateAppointmentRequest struct {
	ClienteID     string `json:"cliente_id" validate:"required,uuid"`
	Fecha         string `json:"fecha" validate:"required,datetime=2006-01-02"`
	Hora          string `json:"hora" validate:"required,datetime=15:04"`
	Motivo        string `json:"motivo" validate:"omitempty,max=250"`
	Observaciones string `json:"observaciones"`
}

// UpdateAppointmentRequest edición de una cita pendiente.
type UpdateAppointmentRequest struct {
	Fecha         *string `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
	Hora          *string `json:"hora" validate:"omitempty,datetime=15:04"`
	Motivo        *string `json:"motivo" validate:"omitempty,max=250"`
	Observaciones *string `json:"observaciones"`
}

// AppointmentFilter filtros del listado de citas.
type AppointmentFilter struct {
	Estado string `query:"estado" validate:"omitempty,oneof=pendiente completada cancelada"`
	Buscar string `query:"buscar"`
	PageRequest
}

// AppointmentResponse salida de una cita.
type AppointmentResponse struct {
	ID              string     `json:"id"`
	ClienteID       string     `json:"cliente_id"`
	ClienteNombre   string     `json:"cliente_nombre,omitempty"`
	ClienteApellido string     `json:"cliente_apellido,omitempty"`
	ClienteEmail    string     `json:"cliente_email,omitempty"`
	Fecha           string     `json:"fecha"`
	Hora            string     `json:"hora"`
	Motivo          string     `json:"motivo"`
	Observaciones   string     `json:"observaciones"`
	Estado          string     `json:"estado"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// AppointmentListResponse lista paginada de citas.
type AppointmentListResponse struct {
	Items []AppointmentResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
