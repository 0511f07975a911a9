package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/domain/inventory"
)

func TestPlan_EntradaYSalida(t *testing.T) {
	e, err := inventory.Plan(entity.MovementEntry, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, inventory.Effect{Delta: 20, Magnitude: 20, Previous: 0, Resulting: 20}, e)

	e, err = inventory.Plan(entity.MovementExit, 20, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, e.Resulting)
	assert.Equal(t, -5, e.Delta)
}

func TestPlan_SalidaMayorQueStock(t *testing.T) {
	_, err := inventory.Plan(entity.MovementExit, 15, 100)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
}

func TestPlan_CantidadNoPositiva(t *testing.T) {
	for _, k := range []entity.MovementKind{entity.MovementEntry, entity.MovementExit} {
		_, err := inventory.Plan(k, 10, 0)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		_, err = inventory.Plan(k, 10, -3)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	}
}

// Ajuste como valor absoluto en ambas direcciones; la magnitud es la diferencia aplicada.
func TestPlan_AjusteAbsoluto(t *testing.T) {
	down, err := inventory.Plan(entity.MovementAdjustment, 15, 12)
	require.NoError(t, err)
	assert.Equal(t, inventory.Effect{Delta: -3, Magnitude: 3, Previous: 15, Resulting: 12}, down)

	up, err := inventory.Plan(entity.MovementAdjustment, 12, 20)
	require.NoError(t, err)
	assert.Equal(t, inventory.Effect{Delta: 8, Magnitude: 8, Previous: 12, Resulting: 20}, up)

	zero, err := inventory.Plan(entity.MovementAdjustment, 7, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, zero.Resulting)
	assert.Equal(t, 7, zero.Magnitude)
}

func TestPlan_AjusteSinCambio(t *testing.T) {
	_, err := inventory.Plan(entity.MovementAdjustment, 9, 9)
	assert.ErrorIs(t, err, inventory.ErrNoopAdjustment)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = inventory.Plan(entity.MovementAdjustment, 9, -1)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// Una secuencia de movimientos válidos nunca deja el stock negativo y el
// libro suma exactamente el stock final.
func TestLedgerSum_CoincideConStock(t *testing.T) {
	stock := 0
	var ledger []*entity.InventoryMovement
	apply := func(kind entity.MovementKind, qty int) error {
		e, err := inventory.Plan(kind, stock, qty)
		if err != nil {
			return err
		}
		ledger = append(ledger, &entity.InventoryMovement{
			Kind: kind, Quantity: e.Magnitude, PreviousStock: e.Previous, ResultingStock: e.Resulting,
		})
		stock = e.Resulting
		return nil
	}

	require.NoError(t, apply(entity.MovementEntry, 20))
	require.NoError(t, apply(entity.MovementExit, 5))
	assert.Error(t, apply(entity.MovementExit, 100))
	require.NoError(t, apply(entity.MovementAdjustment, 11))
	require.NoError(t, apply(entity.MovementExit, 11))
	assert.Error(t, apply(entity.MovementExit, 1))
	require.NoError(t, apply(entity.MovementAdjustment, 4))

	assert.Equal(t, 4, stock)
	assert.Equal(t, stock, inventory.LedgerSum(ledger))
	assert.GreaterOrEqual(t, stock, 0)
}

func TestReorderQuantity(t *testing.T) {
	assert.Equal(t, 15, inventory.ReorderQuantity(5, 10))
	assert.Equal(t, 10, inventory.ReorderQuantity(10, 10))
	assert.Equal(t, 10, inventory.ReorderQuantity(15, 10))
	assert.Equal(t, 20, inventory.ReorderQuantity(0, 10))
}

func TestSelectLowStock(t *testing.T) {
	products := []*entity.Product{
		{ID: "a", Stock: 5, StockMinimum: 10},
		{ID: "b", Stock: 15, StockMinimum: 10},
		{ID: "c", Stock: 10, StockMinimum: 10},
	}
	got := inventory.SelectLowStock(products, 0)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)

	assert.Len(t, inventory.SelectLowStock(products, 1), 1)
}

func TestMovementDelta(t *testing.T) {
	d, err := inventory.MovementDelta(entity.MovementEntry, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, d)

	d, err = inventory.MovementDelta(entity.MovementExit, 4)
	require.NoError(t, err)
	assert.Equal(t, -4, d)

	_, err = inventory.MovementDelta(entity.MovementAdjustment, 4)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	_, err = inventory.MovementDelta(entity.MovementExit, 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
