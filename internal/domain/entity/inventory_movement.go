package entity

import (
	"fmt"
	"strings"
	"time"
)

// MovementKind tipo de movimiento de inventario.
type MovementKind string

const (
	MovementEntry      MovementKind = "entrada"
	MovementExit       MovementKind = "salida"
	MovementAdjustment MovementKind = "ajuste"
)

// ParseMovementKind valida el tipo de movimiento.
func ParseMovementKind(s string) (MovementKind, error) {
	switch k := MovementKind(strings.ToLower(strings.TrimSpace(s))); k {
	case MovementEntry, MovementExit, MovementAdjustment:
		return k, nil
	}
	return "", fmt.Errorf("tipo de movimiento desconocido %q", s)
}

// InventoryMovement asiento inmutable del libro de inventario.
// Quantity es siempre la magnitud (> 0); el signo lo da Kind, y en ajustes
// la comparación entre PreviousStock y ResultingStock.
type InventoryMovement struct {
	ID             string
	ProductID      string
	Kind           MovementKind
	Quantity       int
	PreviousStock  int
	ResultingStock int
	Reason         string
	Actor          string
	Date           time.Time
}

// Delta efecto con signo del movimiento sobre el stock.
func (m *InventoryMovement) Delta() int {
	switch m.Kind {
	case MovementEntry:
		return m.Quantity
	case MovementExit:
		return -m.Quantity
	case MovementAdjustment:
		if m.ResultingStock < m.PreviousStock {
			return -m.Quantity
		}
		return m.Quantity
	}
	return 0
}
