package repository

import (
	"context"

	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
)

// ProductFilter filtros de listado de productos.
type ProductFilter struct {
	Search     string
	CategoryID string
	OnlyActive bool
	Limit      int
	Offset     int
}

// ProductRepository puerto de persistencia de productos.
// No existe operación para escribir Stock: se cambia solo vía StockRepository dentro del libro.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, int, error)
	ListLowStock(ctx context.Context, limit int) ([]*entity.Product, error)
}
