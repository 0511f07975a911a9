package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/OptiGestion-api/internal/application/inventory"
	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/authz"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

// ─── Fakes ─────────────────────────────────────────────────────────────────────

type store struct {
	products  map[string]*entity.Product
	sales     map[string]*entity.Sale
	movements []*entity.InventoryMovement
	clients   map[string]*entity.Client
	failLine  bool
}

func newStore(products ...*entity.Product) *store {
	s := &store{products: map[string]*entity.Product{}, sales: map[string]*entity.Sale{}, clients: map[string]*entity.Client{}}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *store) snapshot() (map[string]int, int, map[string]bool) {
	stock := map[string]int{}
	for id, p := range s.products {
		stock[id] = p.Stock
	}
	sales := map[string]bool{}
	for id := range s.sales {
		sales[id] = true
	}
	return stock, len(s.movements), sales
}

func (s *store) RunSale(ctx context.Context, fn func(repository.SaleRepository, repository.InventoryMovementRepository, repository.StockRepository) error) error {
	stock, n, sales := s.snapshot()
	if err := fn(saleRepo{s}, movRepo{s}, stockRepo{s}); err != nil {
		for id, v := range stock {
			s.products[id].Stock = v
		}
		s.movements = s.movements[:n]
		for id := range s.sales {
			if !sales[id] {
				delete(s.sales, id)
			}
		}
		return err
	}
	return nil
}

// Run permite usar el mismo store como TxRunner del libro.
func (s *store) Run(ctx context.Context, fn func(repository.InventoryMovementRepository, repository.StockRepository, repository.ProductRepository) error) error {
	return fn(movRepo{s}, stockRepo{s}, productRepo{s: s})
}

type saleRepo struct{ s *store }

func (r saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	cp := *sale
	cp.Lines = nil
	r.s.sales[sale.ID] = &cp
	return nil
}

func (r saleRepo) CreateLine(_ context.Context, l *entity.SaleLine) error {
	if r.s.failLine {
		return errors.New("fallo de BD")
	}
	sale := r.s.sales[l.SaleID]
	sale.Lines = append(sale.Lines, *l)
	return nil
}

func (r saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	return r.s.sales[id], nil
}

func (r saleRepo) List(context.Context, repository.SaleFilter) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, s := range r.s.sales {
		out = append(out, s)
	}
	return out, nil
}

func (r saleRepo) SetReceiptKey(_ context.Context, id, key string) error {
	r.s.sales[id].ReceiptKey = key
	return nil
}

type movRepo struct{ s *store }

func (r movRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}

func (r movRepo) List(context.Context, repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	return r.s.movements, nil
}

func (r movRepo) SumByProduct(context.Context, string) (int, error) { return 0, nil }

type stockRepo struct{ s *store }

func (r stockRepo) GetForUpdate(_ context.Context, id string) (int, error) {
	return r.s.products[id].Stock, nil
}

func (r stockRepo) Apply(_ context.Context, id string, delta int) (int, error) {
	p := r.s.products[id]
	if p.Stock+delta < 0 {
		return 0, domain.ErrInsufficientStock
	}
	p.Stock += delta
	return p.Stock, nil
}

type productRepo struct {
	s *store
	repository.ProductRepository
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r productRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, id := range ids {
		if p, _ := r.GetByID(ctx, id); p != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

type clientRepo struct {
	s *store
	repository.ClientRepository
}

func (r clientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	return r.s.clients[id], nil
}

type alerter struct{ got []string }

func (a *alerter) LowStock(_ context.Context, p *entity.Product) { a.got = append(a.got, p.ID) }

type fakeRenderer struct{}

func (fakeRenderer) RenderReceipt(context.Context, *entity.Sale) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

type fakeArchive struct{ objects map[string][]byte }

func (a *fakeArchive) Put(_ context.Context, key string, body []byte, _ string) error {
	a.objects[key] = body
	return nil
}

func (a *fakeArchive) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://recibos.test/" + key, nil
}

// ─── Helpers ───────────────────────────────────────────────────────────────────

var cashier = entity.Actor{UserID: "u-3", Email: "caja@optica.test", Role: authz.RoleEmployee}

func product(id, name, price string, stock, minimum int) *entity.Product {
	return &entity.Product{ID: id, Name: name, Price: decimal.RequireFromString(price), Stock: stock, StockMinimum: minimum, Active: true}
}

func newCheckout(s *store, al inventory.StockAlerter, archive ReceiptArchive) *CheckoutUseCase {
	ledger := inventory.NewRegisterMovementUseCase(s, productRepo{s: s}, al)
	uc := NewCheckoutUseCase(s, ledger, productRepo{s: s}, clientRepo{s: s}, saleRepo{s}, fakeRenderer{}, archive)
	uc.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	return uc
}

// ─── Cobro ─────────────────────────────────────────────────────────────────────

func TestCheckout_VentaYMovimientos(t *testing.T) {
	s := newStore(product("p1", "Armazón", "100", 5, 1), product("p2", "Estuche", "50", 3, 0))
	uc := newCheckout(s, nil, nil)

	sale, err := uc.Checkout(context.Background(), cashier, CheckoutInput{
		PaymentMethod: entity.PaymentCash,
		Items:         []Item{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, "250", sale.Subtotal.String())
	assert.Equal(t, "40", sale.Tax.String())
	assert.Equal(t, "290", sale.Total.String())
	assert.Equal(t, entity.SaleStatusCompleted, sale.Status)
	assert.Equal(t, "caja@optica.test", sale.Actor)
	require.Len(t, sale.Lines, 2)
	assert.Equal(t, "100", sale.Lines[0].UnitPrice.String())

	assert.Equal(t, 3, s.products["p1"].Stock)
	assert.Equal(t, 2, s.products["p2"].Stock)
	require.Len(t, s.movements, 2)
	for _, m := range s.movements {
		assert.Equal(t, entity.MovementExit, m.Kind)
		assert.Equal(t, "Venta registrada: "+sale.ShortID(), m.Reason)
	}
	assert.Len(t, s.sales, 1)
}

func TestCheckout_ItemsRepetidosSeSuman(t *testing.T) {
	s := newStore(product("p1", "Armazón", "100", 5, 0))
	uc := newCheckout(s, nil, nil)

	sale, err := uc.Checkout(context.Background(), cashier, CheckoutInput{
		PaymentMethod: entity.PaymentCard,
		Items:         []Item{{ProductID: "p1", Quantity: 1}, {ProductID: "p1", Quantity: 2}},
	})
	require.NoError(t, err)
	require.Len(t, sale.Lines, 1)
	assert.Equal(t, 3, sale.Lines[0].Quantity)
	assert.Equal(t, 2, s.products["p1"].Stock)
}

func TestCheckout_CarritoVacio(t *testing.T) {
	uc := newCheckout(newStore(), nil, nil)
	_, err := uc.Checkout(context.Background(), cashier, CheckoutInput{PaymentMethod: entity.PaymentCash})
	assert.True(t, errors.Is(err, domain.ErrEmptyCart))
}

func TestCheckout_StockInsuficienteSinEscrituras(t *testing.T) {
	s := newStore(product("p1", "Armazón", "100", 5, 0), product("p2", "Estuche", "50", 1, 0))
	uc := newCheckout(s, nil, nil)

	_, err := uc.Checkout(context.Background(), cashier, CheckoutInput{
		PaymentMethod: entity.PaymentCash,
		Items:         []Item{{ProductID: "p1", Quantity: 1}, {ProductID: "p2", Quantity: 2}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Contains(t, err.Error(), "Estuche")
	assert.Empty(t, s.sales)
	assert.Empty(t, s.movements)
	assert.Equal(t, 5, s.products["p1"].Stock)
}

// Stock cambiado entre la lectura y el cobro: la escritura condicional revierte todo.
func TestCheckout_CarreraRevierteVenta(t *testing.T) {
	s := newStore(product("p1", "Armazón", "100", 5, 0), product("p2", "Estuche", "50", 2, 0))
	uc := newCheckout(s, nil, nil)
	uc.productRepo = staleProducts{productRepo{s: s}}

	_, err := uc.Checkout(context.Background(), cashier, CheckoutInput{
		PaymentMethod: entity.PaymentCash,
		Items:         []Item{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 3}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Empty(t, s.sales)
	assert.Empty(t, s.movements)
	assert.Equal(t, 5, s.products["p1"].Stock)
	assert.Equal(t, 2, s.products["p2"].Stock)
}

// staleProducts devuelve un stock leído antes de otra venta concurrente.
type staleProducts struct{ productRepo }

func (r staleProducts) GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error) {
	list, err := r.productRepo.GetByIDs(ctx, ids)
	for _, p := range list {
		p.Stock += 10
	}
	return list, err
}

func TestCheckout_ErrorDeBDRevierte(t *testing.T) {
	s := newStore(product("p1", "Armazón", "100", 5, 0))
	s.failLine = true
	uc := newCheckout(s, nil, nil)

	_, err := uc.Checkout(context.Background(), cashier, CheckoutInput{
		PaymentMethod: entity.PaymentCash,
		Items:         []Item{{ProductID: "p1", Quantity: 1}},
	})
	require.Error(t, err)
	assert.Empty(t, s.sales)
	assert.Equal(t, 5, s.products["p1"].Stock)
}

func TestCheckout_ClienteInexistente(t *testing.T) {
	s := newStore(product("p1", "Armazón", "100", 5, 0))
	uc := newCheckout(s, nil, nil)
	id := "c-404"

	_, err := uc.Checkout(context.Background(), cashier, CheckoutInput{
		ClientID:      &id,
		PaymentMethod: entity.PaymentCash,
		Items:         []Item{{ProductID: "p1", Quantity: 1}},
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCheckout_ProductoInactivo(t *testing.T) {
	p := product("p1", "Armazón", "100", 5, 0)
	p.Active = false
	uc := newCheckout(newStore(p), nil, nil)

	_, err := uc.Checkout(context.Background(), cashier, CheckoutInput{
		PaymentMethod: entity.PaymentCash,
		Items:         []Item{{ProductID: "p1", Quantity: 1}},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCheckout_AlertaStockBajo(t *testing.T) {
	s := newStore(product("p1", "Armazón", "100", 3, 2))
	al := &alerter{}
	uc := newCheckout(s, al, nil)

	_, err := uc.Checkout(context.Background(), cashier, CheckoutInput{
		PaymentMethod: entity.PaymentTransfer,
		Items:         []Item{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, al.got)
}

// ─── Cotización y recibos ──────────────────────────────────────────────────────

func TestQuote_NoEscribe(t *testing.T) {
	s := newStore(product("p1", "Lente", "19.99", 4, 0))
	uc := newCheckout(s, nil, nil)

	q, err := uc.Quote(context.Background(), []Item{{ProductID: "p1", Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, "3.2", q.Totals.Impuesto.String())
	assert.Equal(t, "23.19", q.Totals.Total.String())
	assert.Empty(t, s.sales)
	assert.Equal(t, 4, s.products["p1"].Stock)
}

func TestArchiveReceipt(t *testing.T) {
	s := newStore(product("p1", "Armazón", "100", 5, 0))
	archive := &fakeArchive{objects: map[string][]byte{}}
	uc := newCheckout(s, nil, archive)

	sale, err := uc.Checkout(context.Background(), cashier, CheckoutInput{
		PaymentMethod: entity.PaymentCash,
		Items:         []Item{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)

	res, err := uc.ArchiveReceipt(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "recibos/2026/03/"+sale.ID+".pdf", res.Key)
	assert.Contains(t, res.URL, res.Key)
	assert.Len(t, archive.objects, 1)
	assert.Equal(t, res.Key, s.sales[sale.ID].ReceiptKey)
}

func TestArchiveReceipt_Deshabilitado(t *testing.T) {
	uc := newCheckout(newStore(), nil, nil)
	_, err := uc.ArchiveReceipt(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrArchiveDisabled))
}
