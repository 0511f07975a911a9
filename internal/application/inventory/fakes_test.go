package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

// memStore base en memoria con transacciones por copia: si fn falla, se restaura el estado.
type memStore struct {
	products  map[string]*entity.Product
	movements []*entity.InventoryMovement
	txCalls   int
}

func newMemStore(products ...*entity.Product) *memStore {
	s := &memStore{products: map[string]*entity.Product{}}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *memStore) Run(ctx context.Context, fn func(repository.InventoryMovementRepository, repository.StockRepository, repository.ProductRepository) error) error {
	s.txCalls++
	stock := map[string]int{}
	for id, p := range s.products {
		stock[id] = p.Stock
	}
	n := len(s.movements)
	if err := fn(memMovements{s}, memStock{s}, memProducts{s}); err != nil {
		for id, v := range stock {
			s.products[id].Stock = v
		}
		s.movements = s.movements[:n]
		return err
	}
	return nil
}

type memProducts struct{ s *memStore }

func (r memProducts) Create(_ context.Context, p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r memProducts) GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, id := range ids {
		if p, _ := r.GetByID(ctx, id); p != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memProducts) Update(_ context.Context, p *entity.Product) error {
	cur, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stock := cur.Stock
	cp := *p
	cp.Stock = stock
	r.s.products[p.ID] = &cp
	return nil
}

func (r memProducts) SetActive(_ context.Context, id string, active bool) error {
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Active = active
	return nil
}

func (r memProducts) List(_ context.Context, _ repository.ProductFilter) ([]*entity.Product, int, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (r memProducts) ListLowStock(_ context.Context, limit int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.Active && p.IsLowStock() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stock < out[j].Stock })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memStock struct{ s *memStore }

func (r memStock) GetForUpdate(_ context.Context, id string) (int, error) {
	p, ok := r.s.products[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return p.Stock, nil
}

func (r memStock) Apply(_ context.Context, id string, delta int) (int, error) {
	p, ok := r.s.products[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return 0, domain.ErrInsufficientStock
	}
	p.Stock += delta
	return p.Stock, nil
}

type memMovements struct{ s *memStore }

func (r memMovements) Create(_ context.Context, m *entity.InventoryMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}

func (r memMovements) List(_ context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.s.movements {
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.Kind != "" && m.Kind != f.Kind {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r memMovements) SumByProduct(ctx context.Context, id string) (int, error) {
	list, _ := r.List(ctx, repository.MovementFilter{ProductID: id})
	sum := 0
	for _, m := range list {
		sum += m.Delta()
	}
	return sum, nil
}

type recordingAlerter struct{ got []string }

func (a *recordingAlerter) LowStock(_ context.Context, p *entity.Product) {
	a.got = append(a.got, p.ID)
}

type (
	repoMov   = repository.InventoryMovementRepository
	repoStock = repository.StockRepository
	repoProd  = repository.ProductRepository
)
