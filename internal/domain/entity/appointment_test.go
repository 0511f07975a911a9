package entity_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
)

func pendingAppointment() *entity.Appointment {
	return &entity.Appointment{ID: "a1", ClientID: "c1", Time: "10:30", Status: entity.AppointmentPending}
}

func TestAppointment_CompletarDesdePendiente(t *testing.T) {
	a := pendingAppointment()
	now := time.Now()
	require.NoError(t, a.Complete(now))
	assert.Equal(t, entity.AppointmentCompleted, a.Status)
	require.NotNil(t, a.CompletedAt)
	assert.True(t, a.CompletedAt.Equal(now))
	assert.Nil(t, a.CancelledAt)
}

func TestAppointment_CancelarDesdePendiente(t *testing.T) {
	a := pendingAppointment()
	require.NoError(t, a.Cancel(time.Now()))
	assert.Equal(t, entity.AppointmentCancelled, a.Status)
	assert.NotNil(t, a.CancelledAt)
}

// Estados terminales: ninguna transición posterior cambia el estado.
func TestAppointment_EstadosTerminales(t *testing.T) {
	for _, terminal := range []entity.AppointmentStatus{entity.AppointmentCompleted, entity.AppointmentCancelled} {
		a := pendingAppointment()
		a.Status = terminal

		err := a.Complete(time.Now())
		assert.True(t, errors.Is(err, domain.ErrConflict))
		err = a.Cancel(time.Now())
		assert.True(t, errors.Is(err, domain.ErrConflict))

		assert.Equal(t, terminal, a.Status)
		assert.False(t, a.CanEdit())
		assert.True(t, a.Status.Terminal())
	}
}

func TestParseAppointmentStatus(t *testing.T) {
	st, err := entity.ParseAppointmentStatus("Pendiente")
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentPending, st)

	_, err = entity.ParseAppointmentStatus("reprogramada")
	assert.Error(t, err)
}

func TestInventoryMovement_Delta(t *testing.T) {
	entry := entity.InventoryMovement{Kind: entity.MovementEntry, Quantity: 20, PreviousStock: 0, ResultingStock: 20}
	exit := entity.InventoryMovement{Kind: entity.MovementExit, Quantity: 5, PreviousStock: 20, ResultingStock: 15}
	adjDown := entity.InventoryMovement{Kind: entity.MovementAdjustment, Quantity: 3, PreviousStock: 15, ResultingStock: 12}
	adjUp := entity.InventoryMovement{Kind: entity.MovementAdjustment, Quantity: 8, PreviousStock: 12, ResultingStock: 20}

	assert.Equal(t, 20, entry.Delta())
	assert.Equal(t, -5, exit.Delta())
	assert.Equal(t, -3, adjDown.Delta())
	assert.Equal(t, 8, adjUp.Delta())
}
