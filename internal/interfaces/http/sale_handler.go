package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
	"github.com/jhoicas/OptiGestion-api/internal/application/sales"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

// SaleHandler punto de venta: cotización, cobro y recibos (protegido).
type SaleHandler struct {
	uc *sales.CheckoutUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.CheckoutUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Quote godoc
// @Summary      Cotizar carrito
// @Description  Totales con los precios actuales del catálogo (IVA 16%). No registra nada.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuoteRequest  true  "items"
// @Success      200   {object}  dto.QuoteResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/quote [post]
func (h *SaleHandler) Quote(c *fiber.Ctx) error {
	var in dto.QuoteRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Quote(c.Context(), toItems(in.Items))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Checkout godoc
// @Summary      Cobrar venta
// @Description  Registra venta, líneas y una salida de inventario por línea en una sola transacción.
// @Description  409 si algún producto no tiene stock suficiente; en ese caso no se escribe nada.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "cliente_id, metodo_pago, items"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if !bindAndValidate(c, &in) {
		return nil
	}
	sale, err := h.uc.Checkout(c.Context(), GetActor(c), sales.CheckoutInput{
		ClientID:      in.ClienteID,
		PaymentMethod: entity.PaymentMethod(in.MetodoPago),
		Notes:         in.Observaciones,
		Items:         toItems(in.Items),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromSale(sale))
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        desde       query  string  false  "AAAA-MM-DD"
// @Param        hasta       query  string  false  "AAAA-MM-DD (inclusive)"
// @Param        cliente_id  query  string  false  "Cliente"
// @Param        limit       query  int     false  "Límite (default 20)"
// @Param        offset      query  int     false  "Offset"
// @Success      200  {array}   dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	from, err := queryDate(c, "desde")
	if err != nil {
		return writeError(c, err)
	}
	to, err := queryDate(c, "hasta")
	if err != nil {
		return writeError(c, err)
	}
	f := repository.SaleFilter{
		ClientID: c.Query("cliente_id"),
		From:     from,
		Limit:    queryInt(c, "limit", 20),
		Offset:   queryInt(c, "offset", 0),
	}
	if to != nil {
		end := to.AddDate(0, 0, 1)
		f.To = &end
	}
	list, err := h.uc.ListSales(c.Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.FromSale(s))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.uc.GetSale(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromSale(sale))
}

// Receipt godoc
// @Summary      Recibo de venta en PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.uc.ReceiptPDF(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="recibo-`+id+`.pdf"`)
	return c.Send(pdf)
}

// ArchiveReceipt godoc
// @Summary      Archivar recibo
// @Description  Sube el recibo al bucket S3 (una sola vez) y devuelve una URL firmada por 15 minutos.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.ReceiptArchiveResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      501  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt/archive [post]
func (h *SaleHandler) ArchiveReceipt(c *fiber.Ctx) error {
	out, err := h.uc.ArchiveReceipt(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func toItems(in []dto.CartItemRequest) []sales.Item {
	out := make([]sales.Item, 0, len(in))
	for _, it := range in {
		out = append(out, sales.Item{ProductID: it.ProductoID, Quantity: it.Cantidad})
	}
	return out
}
