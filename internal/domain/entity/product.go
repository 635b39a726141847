package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// Stock solo cambia vía movimientos después de la creación; Code es único e inmutable.
type Product struct {
	ID           int64
	Name         string
	Description  string
	Code         string
	Stock        int64
	Price        decimal.Decimal // 2 decimales
	CategoryID   *int64          // nil si no tiene categoría
	CategoryName string          // proyección de solo lectura
	CreatedAt    time.Time
}

// HasCategory indica si el producto tiene categoría asignada.
func (p *Product) HasCategory() bool {
	return p.CategoryID != nil
}
