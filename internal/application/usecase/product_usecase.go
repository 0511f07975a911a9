package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
	"github.com/jhoicas/OptiGestion-api/internal/application/inventory"
	"github.com/jhoicas/OptiGestion-api/internal/domain"
	"github.com/jhoicas/OptiGestion-api/internal/domain/authz"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
	"github.com/jhoicas/OptiGestion-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Stock se maneja vía movimientos.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner inventory.TxRunner
	ledger   inventory.Ledger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner inventory.TxRunner, ledger inventory.Ledger) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner, ledger: ledger}
}

// Create crea un producto con stock 0 y, si hay stock inicial, lo registra como
// entrada "Stock inicial" en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := authz.Require(actor.Role, authz.ModuleProducts, authz.ActionCreate); err != nil {
		return nil, err
	}
	if in.Precio.IsNegative() || in.StockInicial < 0 || in.StockMinimo < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Nombre),
		Brand:        in.Marca,
		CategoryID:   emptyToNil(in.CategoriaID),
		Price:        in.Precio,
		StockMinimum: in.StockMinimo,
		Description:  in.Descripcion,
		Barcode:      in.CodigoBarras,
		ImageURL:     in.ImagenURL,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if product.Name == "" {
		return nil, fmt.Errorf("%w: nombre obligatorio", domain.ErrInvalidInput)
	}
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		if in.StockInicial == 0 {
			return nil
		}
		mov, err := uc.ledger.RecordInTx(ctx, movRepo, stockRepo, inventory.MovementInput{
			ProductID: product.ID,
			Kind:      entity.MovementEntry,
			Quantity:  in.StockInicial,
			Reason:    "Stock inicial",
		}, actor, now)
		if err != nil {
			return err
		}
		product.Stock = mov.ResultingStock
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.NotifyIfLowStock(ctx, product)
	out := dto.FromProduct(product)
	return &out, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromProduct(product)
	return &out, nil
}

// Update actualiza un producto. No modifica Stock; cambiar el precio exige productos.precios.
func (uc *ProductUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := authz.Require(actor.Role, authz.ModuleProducts, authz.ActionEdit); err != nil {
		return nil, err
	}
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Precio != nil && !in.Precio.Equal(product.Price) {
		if err := authz.Require(actor.Role, authz.ModuleProducts, authz.ActionPrices); err != nil {
			return nil, err
		}
		if in.Precio.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Precio
	}
	if in.Nombre != nil {
		product.Name = strings.TrimSpace(*in.Nombre)
	}
	if in.Marca != nil {
		product.Brand = *in.Marca
	}
	if in.CategoriaID != nil {
		product.CategoryID = emptyToNil(in.CategoriaID)
	}
	if in.StockMinimo != nil {
		if *in.StockMinimo < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.StockMinimum = *in.StockMinimo
	}
	if in.Descripcion != nil {
		product.Description = *in.Descripcion
	}
	if in.CodigoBarras != nil {
		product.Barcode = *in.CodigoBarras
	}
	if in.ImagenURL != nil {
		product.ImageURL = *in.ImagenURL
	}
	if in.Activo != nil {
		product.Active = *in.Activo
	}
	if product.Name == "" {
		return nil, fmt.Errorf("%w: nombre obligatorio", domain.ErrInvalidInput)
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	out := dto.FromProduct(product)
	return &out, nil
}

// List lista productos con búsqueda, categoría y filtro de activos.
func (uc *ProductUseCase) List(ctx context.Context, search, categoryID string, onlyActive bool, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, repository.ProductFilter{
		Search:     strings.TrimSpace(search),
		CategoryID: categoryID,
		OnlyActive: onlyActive,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Items: dto.FromProducts(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Delete baja lógica: el producto queda inactivo y conserva su historial.
func (uc *ProductUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if err := authz.Require(actor.Role, authz.ModuleProducts, authz.ActionDelete); err != nil {
		return err
	}
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.SetActive(ctx, id, false)
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
