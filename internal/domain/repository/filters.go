package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductFilter filtros conjuntivos (AND) para búsqueda de productos.
// Un campo nil no participa en el filtro.
type ProductFilter struct {
	Name         *string          // subcadena, sin distinguir mayúsculas
	CategoryName *string          // subcadena sobre el nombre de la categoría
	PriceMin     *decimal.Decimal // inclusivo
	PriceMax     *decimal.Decimal // inclusivo
}

// MovementFilter filtros conjuntivos para búsqueda de movimientos.
// Types es un conjunto: basta con que el tipo del movimiento pertenezca a él.
type MovementFilter struct {
	ProductName *string
	Types       []string
	Quantity    *int64
	// DayStart/DayEnd delimitan el día calendario [DayStart, DayEnd) ya resuelto en la zona horaria de la app.
	DayStart *time.Time
	DayEnd   *time.Time
}

