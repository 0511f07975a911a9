package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/OptiGestion-api/internal/domain"
)

// AppointmentStatus estado de una cita.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pendiente"
	AppointmentCompleted AppointmentStatus = "completada"
	AppointmentCancelled AppointmentStatus = "cancelada"
)

// ParseAppointmentStatus valida el estado.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch st := AppointmentStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case AppointmentPending, AppointmentCompleted, AppointmentCancelled:
		return st, nil
	}
	return "", fmt.Errorf("estado de cita desconocido %q", s)
}

// Terminal indica si el estado ya no admite transiciones.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentCompleted || s == AppointmentCancelled
}

// Appointment cita de un cliente. Date es el día calendario (00:00 local); Time es "HH:MM".
type Appointment struct {
	ID          string
	ClientID    string
	Date        time.Time
	Time        string
	Reason      string
	Notes       string
	Status      AppointmentStatus
	CompletedAt *time.Time
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Complete pendiente -> completada.
func (a *Appointment) Complete(at time.Time) error {
	if a.Status != AppointmentPending {
		return fmt.Errorf("%w: la cita está %s", domain.ErrConflict, a.Status)
	}
	a.Status = AppointmentCompleted
	a.CompletedAt = &at
	a.UpdatedAt = at
	return nil
}

// Cancel pendiente -> cancelada.
func (a *Appointment) Cancel(at time.Time) error {
	if a.Status != AppointmentPending {
		return fmt.Errorf("%w: la cita está %s", domain.ErrConflict, a.Status)
	}
	a.Status = AppointmentCancelled
	a.CancelledAt = &at
	a.UpdatedAt = at
	return nil
}

// CanEdit solo las citas pendientes se pueden reprogramar o editar.
func (a *Appointment) CanEdit() bool {
	return a.Status == AppointmentPending
}

// AppointmentWithClient cita con los datos de contacto del cliente (listados y recordatorios).
type AppointmentWithClient struct {
	Appointment
	ClientFirstName string
	ClientLastName  string
	ClientEmail     string
}

// ClientName nombre completo del cliente.
func (a *AppointmentWithClient) ClientName() string {
	return strings.TrimSpace(a.ClientFirstName + " " + a.ClientLastName)
}
