package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
	"github.com/jhoicas/OptiGestion-api/internal/application/inventory"
	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

// InventoryHandler maneja las peticiones HTTP de movimientos e inventario (protegido).
type InventoryHandler struct {
	movements     *inventory.RegisterMovementUseCase
	stock         *inventory.StockQueryUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	movements *inventory.RegisterMovementUseCase,
	stock *inventory.StockQueryUseCase,
	replenishment *inventory.ReplenishmentUseCase,
) *InventoryHandler {
	return &InventoryHandler{movements: movements, stock: stock, replenishment: replenishment}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  entrada suma, salida resta (409 si supera el stock), ajuste fija el stock contado.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "producto_id, tipo, cantidad, motivo"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.AccessDeniedResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	kind, err := entity.ParseMovementKind(in.Tipo)
	if err != nil {
		return writeError(c, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
	}
	mov, err := h.movements.RecordMovement(c.Context(), GetActor(c), inventory.MovementInput{
		ProductID: in.ProductoID,
		Kind:      kind,
		Quantity:  in.Cantidad,
		Reason:    in.Motivo,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovement(mov))
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        producto_id  query  string  false  "Producto"
// @Param        tipo         query  string  false  "entrada | salida | ajuste"
// @Param        desde        query  string  false  "AAAA-MM-DD"
// @Param        hasta        query  string  false  "AAAA-MM-DD (inclusive)"
// @Param        limit        query  int     false  "Límite (default 50)"
// @Param        offset       query  int     false  "Offset"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	f := repository.MovementFilter{
		ProductID: c.Query("producto_id"),
		Limit:     queryInt(c, "limit", 50),
		Offset:    queryInt(c, "offset", 0),
	}
	if t := c.Query("tipo"); t != "" {
		kind, err := entity.ParseMovementKind(t)
		if err != nil {
			return writeError(c, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		}
		f.Kind = kind
	}
	from, err := queryDate(c, "desde")
	if err != nil {
		return writeError(c, err)
	}
	to, err := queryDate(c, "hasta")
	if err != nil {
		return writeError(c, err)
	}
	f.From = from
	if to != nil {
		end := to.AddDate(0, 0, 1)
		f.To = &end
	}
	out, err := h.stock.ListMovements(c.Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetStock godoc
// @Summary      Stock actual de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{id} [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	out, err := h.stock.CurrentStock(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de productos (default 50)"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.stock.LowStockProducts(c.Context(), queryInt(c, "limit", 50))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliar stock con el libro
// @Description  Compara el stock acumulado del producto con la suma de sus movimientos.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/reconcile/{id} [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.stock.Reconcile(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Productos en o bajo su stock mínimo con la cantidad sugerida de pedido,
//
//	max(mínimo - stock + 10, 10), ordenados por urgencia.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de productos (default 50)"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.Context(), queryInt(c, "limit", 50))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}

// PurchaseOrderPDF godoc
// @Summary      Orden de compra en PDF
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        limit  query  int  false  "Máximo de productos (default 50)"
// @Success      200  {file}  binary
// @Router       /api/inventory/purchase-order.pdf [get]
func (h *InventoryHandler) PurchaseOrderPDF(c *fiber.Ctx) error {
	pdf, err := h.replenishment.PurchaseOrderPDF(c.Context(), queryInt(c, "limit", 50))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="orden-compra-`+time.Now().Format(dto.DateLayout)+`.pdf"`)
	return c.Send(pdf)
}
