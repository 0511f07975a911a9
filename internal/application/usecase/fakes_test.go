package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

// ─── Clientes ──────────────────────────────────────────────────────────────────

type fakeClients struct {
	repository.ClientRepository
	byID map[string]*entity.Client
}

func newFakeClients(clients ...*entity.Client) *fakeClients {
	f := &fakeClients{byID: map[string]*entity.Client{}}
	for _, c := range clients {
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeClients) Create(_ context.Context, c *entity.Client) error {
	f.byID[c.ID] = c
	return nil
}

func (f *fakeClients) GetByID(_ context.Context, id string) (*entity.Client, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClients) CountByType(context.Context) ([]repository.ClientTypeCount, error) {
	counts := map[entity.ClientType]int{}
	for _, c := range f.byID {
		counts[c.Type]++
	}
	var out []repository.ClientTypeCount
	for t, n := range counts {
		out = append(out, repository.ClientTypeCount{Type: t, Count: n})
	}
	return out, nil
}

func (f *fakeClients) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	n := 0
	for _, c := range f.byID {
		if !c.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type recordingNotifier struct{ welcomed []string }

func (n *recordingNotifier) ClientWelcome(_ context.Context, c *entity.Client) {
	n.welcomed = append(n.welcomed, c.Email)
}

// ─── Citas ─────────────────────────────────────────────────────────────────────

type fakeAppointments struct {
	byID    map[string]*entity.Appointment
	clients *fakeClients
}

func newFakeAppointments(clients *fakeClients) *fakeAppointments {
	return &fakeAppointments{byID: map[string]*entity.Appointment{}, clients: clients}
}

func (f *fakeAppointments) with(a *entity.Appointment) *entity.AppointmentWithClient {
	cp := *a
	out := &entity.AppointmentWithClient{Appointment: cp}
	if c, ok := f.clients.byID[a.ClientID]; ok {
		out.ClientFirstName, out.ClientLastName, out.ClientEmail = c.FirstName, c.LastName, c.Email
	}
	return out
}

func (f *fakeAppointments) Create(_ context.Context, a *entity.Appointment) error {
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeAppointments) GetByID(_ context.Context, id string) (*entity.AppointmentWithClient, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return f.with(a), nil
}

func (f *fakeAppointments) Update(_ context.Context, a *entity.Appointment) error {
	cur, ok := f.byID[a.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Status != entity.AppointmentPending {
		return domain.ErrConflict
	}
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeAppointments) UpdateStatus(_ context.Context, a *entity.Appointment, from entity.AppointmentStatus) (bool, error) {
	cur, ok := f.byID[a.ID]
	if !ok || cur.Status != from {
		return false, nil
	}
	cp := *a
	f.byID[a.ID] = &cp
	return true, nil
}

func (f *fakeAppointments) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeAppointments) List(_ context.Context, filter repository.AppointmentFilter) ([]*entity.AppointmentWithClient, int, error) {
	var out []*entity.AppointmentWithClient
	for _, a := range f.byID {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		w := f.with(a)
		if !strings.Contains(foldText(w.ClientFirstName+" "+w.ClientLastName), filter.NameSearch) {
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := len(out)
	if filter.Offset >= total {
		return []*entity.AppointmentWithClient{}, total, nil
	}
	end := min(filter.Offset+filter.Limit, total)
	return out[filter.Offset:end], total, nil
}

func (f *fakeAppointments) ListByClient(_ context.Context, clientID string) ([]*entity.Appointment, error) {
	var out []*entity.Appointment
	for _, a := range f.byID {
		if a.ClientID == clientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointments) OnDate(_ context.Context, date time.Time, status entity.AppointmentStatus) ([]*entity.AppointmentWithClient, error) {
	var out []*entity.AppointmentWithClient
	for _, a := range f.byID {
		if a.Status == status && a.Date.Format("2006-01-02") == date.Format("2006-01-02") {
			out = append(out, f.with(a))
		}
	}
	return out, nil
}

// ─── Productos y libro ─────────────────────────────────────────────────────────

type fakeProducts struct {
	repository.ProductRepository
	byID map[string]*entity.Product
}

func (f *fakeProducts) Create(_ context.Context, p *entity.Product) error {
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) Update(_ context.Context, p *entity.Product) error {
	cur := f.byID[p.ID]
	cp := *p
	cp.Stock = cur.Stock
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakeProducts) SetActive(_ context.Context, id string, active bool) error {
	f.byID[id].Active = active
	return nil
}

type fakeMovements struct {
	repository.InventoryMovementRepository
	list []*entity.InventoryMovement
}

func (f *fakeMovements) Create(_ context.Context, m *entity.InventoryMovement) error {
	f.list = append(f.list, m)
	return nil
}

type fakeStock struct{ products *fakeProducts }

func (f fakeStock) GetForUpdate(_ context.Context, id string) (int, error) {
	return f.products.byID[id].Stock, nil
}

func (f fakeStock) Apply(_ context.Context, id string, delta int) (int, error) {
	p, ok := f.products.byID[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return 0, domain.ErrInsufficientStock
	}
	p.Stock += delta
	return p.Stock, nil
}

type fakeTx struct {
	products  *fakeProducts
	movements *fakeMovements
	runs      int
}

func (t *fakeTx) Run(_ context.Context, fn func(repository.InventoryMovementRepository, repository.StockRepository, repository.ProductRepository) error) error {
	t.runs++
	return fn(t.movements, fakeStock{t.products}, t.products)
}
