package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

// ClientNotifier avisos asociados a clientes. No bloquea ni devuelve errores.
type ClientNotifier interface {
	ClientWelcome(ctx context.Context, client *entity.Client)
}

// ClientUseCase casos de uso de clientes: CRUD, historial y estadísticas.
type ClientUseCase struct {
	repo             repository.ClientRepository
	appointmentRepo  repository.AppointmentRepository
	prescriptionRepo repository.PrescriptionRepository
	saleRepo         repository.SaleRepository
	notifier         ClientNotifier
}

// NewClientUseCase construye el caso de uso. notifier puede ser nil.
func NewClientUseCase(
	repo repository.ClientRepository,
	appointmentRepo repository.AppointmentRepository,
	prescriptionRepo repository.PrescriptionRepository,
	saleRepo repository.SaleRepository,
	notifier ClientNotifier,
) *ClientUseCase {
	return &ClientUseCase{
		repo:             repo,
		appointmentRepo:  appointmentRepo,
		prescriptionRepo: prescriptionRepo,
		saleRepo:         saleRepo,
		notifier:         notifier,
	}
}

// Create registra un cliente y, si tiene email, envía la bienvenida en segundo plano.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	kind, err := entity.ParseClientType(in.TipoCliente)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	birth, err := parseOptionalDate(in.FechaNacimiento)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	client := &entity.Client{
		ID:         uuid.New().String(),
		FirstName:  strings.TrimSpace(in.Nombre),
		LastName:   strings.TrimSpace(in.Apellido),
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:      in.Telefono,
		BirthDate:  birth,
		Address:    in.Direccion,
		City:       in.Ciudad,
		PostalCode: in.CodigoPostal,
		Type:       kind,
		Notes:      in.Observaciones,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if client.FirstName == "" || client.LastName == "" {
		return nil, fmt.Errorf("%w: nombre y apellido son obligatorios", domain.ErrInvalidInput)
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	log.Info().Str("cliente_id", client.ID).Msg("cliente registrado")
	if client.Email != "" && uc.notifier != nil {
		uc.notifier.ClientWelcome(ctx, client)
	}
	out := dto.FromClient(client)
	return &out, nil
}

// GetByID obtiene un cliente por ID.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	client, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromClient(client)
	return &out, nil
}

// List lista clientes con búsqueda por nombre/email/teléfono y filtro por tipo.
func (uc *ClientUseCase) List(ctx context.Context, search, kind string, page dto.PageRequest) (*dto.ClientListResponse, error) {
	page.DefaultPage()
	f := repository.ClientFilter{Search: strings.TrimSpace(search), Limit: page.Limit, Offset: page.Offset}
	if kind != "" {
		t, err := entity.ParseClientType(kind)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		f.Type = t
	}
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.FromClient(c))
	}
	return &dto.ClientListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update edición parcial de un cliente.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Nombre != nil {
		client.FirstName = strings.TrimSpace(*in.Nombre)
	}
	if in.Apellido != nil {
		client.LastName = strings.TrimSpace(*in.Apellido)
	}
	if in.Email != nil {
		client.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Telefono != nil {
		client.Phone = *in.Telefono
	}
	if in.FechaNacimiento != nil {
		birth, err := parseOptionalDate(*in.FechaNacimiento)
		if err != nil {
			return nil, err
		}
		client.BirthDate = birth
	}
	if in.Direccion != nil {
		client.Address = *in.Direccion
	}
	if in.Ciudad != nil {
		client.City = *in.Ciudad
	}
	if in.CodigoPostal != nil {
		client.PostalCode = *in.CodigoPostal
	}
	if in.TipoCliente != nil {
		kind, err := entity.ParseClientType(*in.TipoCliente)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		client.Type = kind
	}
	if in.Observaciones != nil {
		client.Notes = *in.Observaciones
	}
	if client.FirstName == "" || client.LastName == "" {
		return nil, fmt.Errorf("%w: nombre y apellido son obligatorios", domain.ErrInvalidInput)
	}
	client.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	out := dto.FromClient(client)
	return &out, nil
}

// Delete elimina un cliente. ErrConflict si tiene citas, recetas o ventas asociadas.
func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// History citas, recetas y ventas del cliente, consultadas en paralelo.
func (uc *ClientUseCase) History(ctx context.Context, id string) (*dto.ClientHistoryResponse, error) {
	client, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	var (
		appointments  []*entity.Appointment
		prescriptions []*entity.Prescription
		sales         []*entity.Sale
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		appointments, err = uc.appointmentRepo.ListByClient(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		prescriptions, err = uc.prescriptionRepo.ListByClient(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		sales, err = uc.saleRepo.List(gctx, repository.SaleFilter{ClientID: id, Limit: 100})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("historial de cliente: %w", err)
	}

	out := &dto.ClientHistoryResponse{
		Client:        dto.FromClient(client),
		Appointments:  make([]dto.AppointmentResponse, 0, len(appointments)),
		Prescriptions: make([]dto.PrescriptionResponse, 0, len(prescriptions)),
		Sales:         make([]dto.SaleResponse, 0, len(sales)),
	}
	for _, a := range appointments {
		out.Appointments = append(out.Appointments, dto.FromAppointment(a))
	}
	for _, p := range prescriptions {
		out.Prescriptions = append(out.Prescriptions, dto.FromPrescription(p))
	}
	for _, s := range sales {
		out.Sales = append(out.Sales, dto.FromSale(s))
	}
	return out, nil
}

// Stats total de clientes, conteo por tipo y altas del mes en curso.
func (uc *ClientUseCase) Stats(ctx context.Context, now time.Time) (*dto.ClientStatsResponse, error) {
	counts, err := uc.repo.CountByType(ctx)
	if err != nil {
		return nil, err
	}
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	newCount, err := uc.repo.CountCreatedSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	out := &dto.ClientStatsResponse{
		ByType:       map[string]int{},
		NewThisMonth: newCount,
	}
	for _, t := range entity.ClientTypes() {
		out.ByType[string(t)] = 0
	}
	for _, c := range counts {
		out.ByType[string(c.Type)] = c.Count
		out.Total += c.Count
	}
	return out, nil
}

func (uc *ClientUseCase) get(ctx context.Context, id string) (*entity.Client, error) {
	client, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

// parseOptionalDate "" -> nil; formato AAAA-MM-DD.
func parseOptionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, s)
	}
	return &t, nil
}
