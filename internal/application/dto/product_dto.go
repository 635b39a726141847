package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Si Code viene vacío se genera uno.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=100"`
	Description string          `json:"description"`
	Code        string          `json:"code" validate:"omitempty,max=50"`
	Stock       int64           `json:"stock" validate:"min=0"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  *int64          `json:"category_id"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Code ni Stock).
// ClearCategory deja el producto sin categoría; tiene prioridad sobre CategoryID.
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	CategoryID    *int64           `json:"category_id"`
	ClearCategory bool             `json:"clear_category"`
}

// ProductSearchRequest filtros de búsqueda avanzada. nil = sin filtro.
type ProductSearchRequest struct {
	Name         *string
	CategoryName *string
	PriceMin     *decimal.Decimal
	PriceMax     *decimal.Decimal
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Code         string          `json:"code"`
	Stock        int64           `json:"stock"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   *int64          `json:"category_id"`
	CategoryName *string         `json:"category_name"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ProductListResponse lista de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}
