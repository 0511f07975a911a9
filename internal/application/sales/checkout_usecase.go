// Package sales cobro del punto de venta: cotización, venta atómica y recibos.
package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
	"github.com/jhoicas/OptiGestion-api/internal/application/inventory"
	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/authz"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/domain/pos"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

// ErrArchiveDisabled el archivo de recibos (S3) no está configurado.
var ErrArchiveDisabled = errors.New("archivo de recibos no configurado")

const receiptURLTTL = 15 * time.Minute

// Item producto y cantidad pedidos.
type Item struct {
	ProductID string
	Quantity  int
}

// CheckoutInput datos del cobro.
type CheckoutInput struct {
	ClientID      *string
	PaymentMethod entity.PaymentMethod
	Notes         string
	Items         []Item
}

// CheckoutUseCase cobro atómico: venta, líneas y una salida por línea en una sola transacción.
type CheckoutUseCase struct {
	txRunner    SaleTxRunner
	ledger      inventory.Ledger
	productRepo repository.ProductRepository
	clientRepo  repository.ClientRepository
	saleRepo    repository.SaleRepository
	renderer    ReceiptRenderer
	archive     ReceiptArchive
	now         func() time.Time
}

// NewCheckoutUseCase construye el caso de uso. archive puede ser nil (S3 deshabilitado).
func NewCheckoutUseCase(
	txRunner SaleTxRunner,
	ledger inventory.Ledger,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	saleRepo repository.SaleRepository,
	renderer ReceiptRenderer,
	archive ReceiptArchive,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		txRunner:    txRunner,
		ledger:      ledger,
		productRepo: productRepo,
		clientRepo:  clientRepo,
		saleRepo:    saleRepo,
		renderer:    renderer,
		archive:     archive,
		now:         time.Now,
	}
}

// Quote calcula líneas y totales con los precios actuales del catálogo, sin escribir nada.
func (uc *CheckoutUseCase) Quote(ctx context.Context, items []Item) (*dto.QuoteResponse, error) {
	cart, _, err := uc.buildCart(ctx, items)
	if err != nil {
		return nil, err
	}
	out := &dto.QuoteResponse{Totals: totalsResponse(cart.Totals())}
	for _, l := range cart.Lines() {
		out.Lines = append(out.Lines, dto.SaleLineResponse{
			ProductoID:     l.ProductID,
			Nombre:         l.Name,
			Cantidad:       l.Quantity,
			PrecioUnitario: l.UnitPrice,
			Subtotal:       l.Subtotal(),
		})
	}
	return out, nil
}

// Checkout registra la venta. Cualquier fallo (stock insuficiente en la escritura condicional,
// error de BD) revierte la venta, sus líneas y los movimientos ya escritos.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, actor entity.Actor, in CheckoutInput) (*entity.Sale, error) {
	if err := authz.Require(actor.Role, authz.ModuleSales, authz.ActionCreate); err != nil {
		return nil, err
	}
	if _, err := entity.ParsePaymentMethod(string(in.PaymentMethod)); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if in.ClientID != nil && *in.ClientID != "" {
		c, err := uc.clientRepo.GetByID(ctx, *in.ClientID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, fmt.Errorf("cliente: %w", domain.ErrNotFound)
		}
	} else {
		in.ClientID = nil
	}

	cart, products, err := uc.buildCart(ctx, in.Items)
	if err != nil {
		return nil, err
	}
	totals := cart.Totals()
	now := uc.now()

	sale := &entity.Sale{
		ID:            uuid.New().String(),
		ClientID:      in.ClientID,
		Date:          now,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		PaymentMethod: in.PaymentMethod,
		Status:        entity.SaleStatusCompleted,
		Notes:         in.Notes,
		Actor:         actor.Label(),
	}
	for _, l := range cart.Lines() {
		sale.Lines = append(sale.Lines, entity.SaleLine{
			ID:          uuid.New().String(),
			SaleID:      sale.ID,
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal(),
		})
	}

	resulting := make(map[string]int, len(sale.Lines))
	err = uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
	) error {
		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		reason := "Venta registrada: " + sale.ShortID()
		for i := range sale.Lines {
			line := &sale.Lines[i]
			if err := saleRepo.CreateLine(ctx, line); err != nil {
				return err
			}
			mov, err := uc.ledger.RecordInTx(ctx, movRepo, stockRepo, inventory.MovementInput{
				ProductID: line.ProductID,
				Kind:      entity.MovementExit,
				Quantity:  line.Quantity,
				Reason:    reason,
			}, actor, now)
			if err != nil {
				return fmt.Errorf("%s: %w", line.ProductName, err)
			}
			resulting[line.ProductID] = mov.ResultingStock
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("venta_id", sale.ID).Msg("cobro revertido")
		return nil, err
	}

	log.Info().
		Str("venta_id", sale.ID).
		Str("total", sale.Total.StringFixed(2)).
		Int("lineas", len(sale.Lines)).
		Str("usuario", sale.Actor).
		Msg("venta registrada")

	for id, stock := range resulting {
		p := products[id]
		p.Stock = stock
		uc.ledger.NotifyIfLowStock(ctx, p)
	}
	return sale, nil
}

// GetSale venta con sus líneas.
func (uc *CheckoutUseCase) GetSale(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// ListSales ventas por rango de fechas, más recientes primero.
func (uc *CheckoutUseCase) ListSales(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	return uc.saleRepo.List(ctx, f)
}

// ReceiptPDF recibo de la venta en PDF.
func (uc *CheckoutUseCase) ReceiptPDF(ctx context.Context, id string) ([]byte, error) {
	s, err := uc.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderReceipt(ctx, s)
}

// ArchiveReceipt sube el recibo a S3, guarda la clave en la venta y devuelve una URL firmada.
func (uc *CheckoutUseCase) ArchiveReceipt(ctx context.Context, id string) (*dto.ReceiptArchiveResponse, error) {
	if uc.archive == nil {
		return nil, ErrArchiveDisabled
	}
	s, err := uc.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	key := s.ReceiptKey
	if key == "" {
		pdf, err := uc.renderer.RenderReceipt(ctx, s)
		if err != nil {
			return nil, err
		}
		key = ReceiptKey(s)
		if err := uc.archive.Put(ctx, key, pdf, "application/pdf"); err != nil {
			return nil, err
		}
		if err := uc.saleRepo.SetReceiptKey(ctx, s.ID, key); err != nil {
			return nil, err
		}
	}
	url, err := uc.archive.PresignGet(ctx, key, receiptURLTTL)
	if err != nil {
		return nil, err
	}
	return &dto.ReceiptArchiveResponse{Key: key, URL: url}, nil
}

// ReceiptKey clave del recibo en el bucket: recibos/AAAA/MM/<id>.pdf.
func ReceiptKey(s *entity.Sale) string {
	return fmt.Sprintf("recibos/%s/%s.pdf", s.Date.Format("2006/01"), s.ID)
}

// buildCart carga los productos y arma el carrito con las cantidades pedidas.
// Los ítems repetidos se suman. Cantidades mayores al stock se rechazan aquí, antes de escribir.
func (uc *CheckoutUseCase) buildCart(ctx context.Context, items []Item) (*pos.Cart, map[string]*entity.Product, error) {
	if len(items) == 0 {
		return nil, nil, domain.ErrEmptyCart
	}
	order := make([]string, 0, len(items))
	qty := make(map[string]int, len(items))
	for _, it := range items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return nil, nil, fmt.Errorf("%w: ítem sin producto o con cantidad <= 0", domain.ErrInvalidInput)
		}
		if _, ok := qty[it.ProductID]; !ok {
			order = append(order, it.ProductID)
		}
		qty[it.ProductID] += it.Quantity
	}

	list, err := uc.productRepo.GetByIDs(ctx, order)
	if err != nil {
		return nil, nil, err
	}
	products := make(map[string]*entity.Product, len(list))
	for _, p := range list {
		products[p.ID] = p
	}

	cart := &pos.Cart{}
	for _, id := range order {
		p, ok := products[id]
		if !ok {
			return nil, nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
		}
		if !p.Active {
			return nil, nil, fmt.Errorf("%w: producto %s inactivo", domain.ErrInvalidInput, p.Name)
		}
		if err := cart.Add(pos.CatalogItem{ProductID: p.ID, Name: p.Name, UnitPrice: p.Price, Stock: p.Stock}); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", p.Name, err)
		}
		if err := cart.SetQuantity(p.ID, qty[id]); err != nil {
			return nil, nil, fmt.Errorf("%s (disponible %d): %w", p.Name, p.Stock, err)
		}
	}
	return cart, products, nil
}

func totalsResponse(t pos.Totals) dto.TotalsResponse {
	return dto.TotalsResponse{Subtotal: t.Subtotal, Impuesto: t.Tax, Total: t.Total}
}
