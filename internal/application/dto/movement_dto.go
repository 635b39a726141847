package dto

import "time"

// RecordMovementRequest body para POST /api/movements.
type RecordMovementRequest struct {
	ProductID int64  `json:"product_id"`
	Type      string `json:"type"`
	Quantity  int64  `json:"quantity"`
}

// MovementSearchRequest filtros de búsqueda de movimientos. Date en formato YYYY-MM-DD.
type MovementSearchRequest struct {
	ProductName *string
	Types       []string
	Quantity    *int64
	Date        *string
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name"`
	Type        string    `json:"type"`
	Quantity    int64     `json:"quantity"`
	Date        time.Time `json:"date"`
}

// MovementListResponse lista de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Total int                `json:"total"`
}
