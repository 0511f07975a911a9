package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto. StockInicial se registra como entrada en el libro.
type CreateProductRequest struct {
	Nombre       string          `json:"nombre" validate:"required,max=200"`
	Marca        string          `json:"marca" validate:"omitempty,max=120"`
	CategoriaID  *string         `json:"categoria_id" validate:"omitempty,uuid"`
	Precio       decimal.Decimal `json:"precio" validate:"gte=0"`
	StockInicial int             `json:"stock_inicial" validate:"gte=0"`
	StockMinimo  int             `json:"stock_minimo" validate:"gte=0"`
	Descripcion  string          `json:"descripcion"`
	CodigoBarras string          `json:"codigo_barras" validate:"omitempty,max=64"`
	ImagenURL    string          `json:"imagen_url" validate:"omitempty,url"`
}

// UpdateProductRequest edición de producto (sin stock).
type UpdateProductRequest struct {
	Nombre       *string          `json:"nombre" validate:"omitempty,min=1,max=200"`
	Marca        *string          `json:"marca"`
	CategoriaID  *string          `json:"categoria_id" validate:"omitempty,uuid"`
	Precio       *decimal.Decimal `json:"precio"`
	StockMinimo  *int             `json:"stock_minimo" validate:"omitempty,gte=0"`
	Descripcion  *string          `json:"descripcion"`
	CodigoBarras *string          `json:"codigo_barras"`
	ImagenURL    *string          `json:"imagen_url" validate:"omitempty,url"`
	Activo       *bool            `json:"activo"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Nombre       string          `json:"nombre"`
	Marca        string          `json:"marca"`
	CategoriaID  *string         `json:"categoria_id"`
	Precio       decimal.Decimal `json:"precio"`
	Stock        int             `json:"stock"`
	StockMinimo  int             `json:"stock_minimo"`
	StockBajo    bool            `json:"stock_bajo"`
	Descripcion  string          `json:"descripcion"`
	CodigoBarras string          `json:"codigo_barras"`
	ImagenURL    string          `json:"imagen_url"`
	Activo       bool            `json:"activo"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateCategoryRequest alta de categoría.
type CreateCategoryRequest struct {
	Nombre      string `json:"nombre" validate:"required,max=120"`
	Descripcion string `json:"descripcion"`
}

// CategoryResponse salida de categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion string    `json:"descripcion"`
	CreatedAt   time.Time `json:"created_at"`
}
