package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	inv "github.com/jhoicas/OptiGestion-api/internal/domain/inventory"
)

// Notifier arma los correos de eventos del dominio y los entrega al Dispatcher.
// Implementa inventory.StockAlerter y usecase.ClientNotifier.
type Notifier struct {
	dispatcher Dispatcher
	lowStockTo []string
	now        func() time.Time
}

// NewNotifier construye el notifier. Sin lowStockTo, las alertas de stock solo se registran en el log.
func NewNotifier(dispatcher Dispatcher, lowStockTo []string) *Notifier {
	return &Notifier{dispatcher: dispatcher, lowStockTo: lowStockTo, now: time.Now}
}

// ClientWelcome bienvenida a un cliente recién registrado.
func (n *Notifier) ClientWelcome(ctx context.Context, c *entity.Client) {
	if c.Email == "" {
		return
	}
	msg, err := WelcomeMessage(WelcomeData{FirstName: c.FirstName, LastName: c.LastName, Email: c.Email}, n.now())
	if err != nil {
		log.Error().Err(err).Str("cliente_id", c.ID).Msg("bienvenida: plantilla")
		return
	}
	n.dispatcher.Dispatch(ctx, msg)
}

// LowStock alerta de producto en o bajo su stock mínimo.
func (n *Notifier) LowStock(ctx context.Context, p *entity.Product) {
	log.Warn().
		Str("producto_id", p.ID).
		Str("nombre", p.Name).
		Int("stock", p.Stock).
		Int("stock_minimo", p.StockMinimum).
		Msg("stock bajo")
	if len(n.lowStockTo) == 0 {
		return
	}
	msg, err := LowStockMessage(LowStockData{
		Name:      p.Name,
		Brand:     p.Brand,
		Stock:     p.Stock,
		Minimum:   p.StockMinimum,
		Suggested: inv.ReorderQuantity(p.Stock, p.StockMinimum),
	}, n.lowStockTo, n.now())
	if err != nil {
		log.Error().Err(err).Str("producto_id", p.ID).Msg("stock bajo: plantilla")
		return
	}
	n.dispatcher.Dispatch(ctx, msg)
}
