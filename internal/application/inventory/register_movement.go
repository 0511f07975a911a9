package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/authz"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	inv "github.com/jhoicas/OptiGestion-api/internal/domain/inventory"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos del libro de inventario. Cada movimiento
// y su efecto en productos.stock se escriben en la misma transacción.
type RegisterMovementUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	alerter     StockAlerter
	now         func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso. alerter puede ser nil.
func NewRegisterMovementUseCase(txRunner TxRunner, productRepo repository.ProductRepository, alerter StockAlerter) *RegisterMovementUseCase {
	if alerter == nil {
		alerter = noopAlerter{}
	}
	return &RegisterMovementUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		alerter:     alerter,
		now:         time.Now,
	}
}

// MovementInput entrada para registrar un movimiento.
// En ajustes Quantity es el stock contado; en entradas y salidas, la cantidad movida.
type MovementInput struct {
	ProductID string
	Kind      entity.MovementKind
	Quantity  int
	Reason    string
}

// RecordMovement valida permisos y precondiciones, y registra el movimiento.
// Una salida mayor que el stock actual se rechaza antes de escribir nada; dentro de la
// transacción el descuento es una escritura condicional, así dos salidas concurrentes
// no pueden dejar el stock negativo.
func (uc *RegisterMovementUseCase) RecordMovement(ctx context.Context, actor entity.Actor, in MovementInput) (*entity.InventoryMovement, error) {
	if err := authz.Require(actor.Role, authz.ModuleInventory, authz.ActionMovements); err != nil {
		return nil, err
	}
	if in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	// Precondición con el stock leído: falla rápido sin abrir transacción.
	if _, err := inv.Plan(in.Kind, product.Stock, in.Quantity); err != nil {
		return nil, err
	}

	var mov *entity.InventoryMovement
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		_ repository.ProductRepository,
	) error {
		var err error
		mov, err = uc.RecordInTx(ctx, movRepo, stockRepo, in, actor, uc.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("producto_id", mov.ProductID).
		Str("tipo", string(mov.Kind)).
		Int("cantidad", mov.Quantity).
		Int("stock", mov.ResultingStock).
		Str("usuario", mov.Actor).
		Msg("movimiento de inventario registrado")

	product.Stock = mov.ResultingStock
	uc.checkLowStock(ctx, product)
	return mov, nil
}

// RecordInTx aplica el movimiento con repositorios de una transacción abierta por el caller
// (alta de producto, cobro de venta). Entradas y salidas usan una única escritura condicional;
// los ajustes bloquean la fila para calcular la diferencia contra el stock real.
func (uc *RegisterMovementUseCase) RecordInTx(
	ctx context.Context,
	movRepo repository.InventoryMovementRepository,
	stockRepo repository.StockRepository,
	in MovementInput,
	actor entity.Actor,
	now time.Time,
) (*entity.InventoryMovement, error) {
	var effect inv.Effect
	switch in.Kind {
	case entity.MovementEntry, entity.MovementExit:
		delta, err := inv.MovementDelta(in.Kind, in.Quantity)
		if err != nil {
			return nil, err
		}
		resulting, err := stockRepo.Apply(ctx, in.ProductID, delta)
		if err != nil {
			return nil, err
		}
		effect = inv.Effect{
			Delta:     delta,
			Magnitude: in.Quantity,
			Previous:  resulting - delta,
			Resulting: resulting,
		}
	case entity.MovementAdjustment:
		current, err := stockRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		planned, err := inv.Plan(in.Kind, current, in.Quantity)
		if err != nil {
			return nil, err
		}
		resulting, err := stockRepo.Apply(ctx, in.ProductID, planned.Delta)
		if err != nil {
			return nil, err
		}
		if resulting != planned.Resulting {
			return nil, fmt.Errorf("ajuste: stock %d, esperado %d", resulting, planned.Resulting)
		}
		effect = planned
	default:
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.Kind)
	}

	mov := &entity.InventoryMovement{
		ID:             uuid.New().String(),
		ProductID:      in.ProductID,
		Kind:           in.Kind,
		Quantity:       effect.Magnitude,
		PreviousStock:  effect.Previous,
		ResultingStock: effect.Resulting,
		Reason:         in.Reason,
		Actor:          actor.Label(),
		Date:           now,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// NotifyIfLowStock avisa al alerter si el producto quedó en o bajo el mínimo.
// Lo usan los casos de uso que registran movimientos con RecordInTx, después del commit.
func (uc *RegisterMovementUseCase) NotifyIfLowStock(ctx context.Context, product *entity.Product) {
	uc.checkLowStock(ctx, product)
}

func (uc *RegisterMovementUseCase) checkLowStock(ctx context.Context, product *entity.Product) {
	if product != nil && product.IsLowStock() {
		uc.alerter.LowStock(ctx, product)
	}
}
