package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeEntry      = "entrada"
	MovementTypeExit       = "salida"
	MovementTypeAdjustment = "ajuste"
)

// Movement representa un movimiento de inventario. Es inmutable una vez creado.
type Movement struct {
	ID          int64
	ProductID   int64
	ProductName string // proyección de solo lectura
	Type        string
	Quantity    int64
	CreatedAt   time.Time
}

// IsValidMovementType indica si t es uno de los tipos conocidos (entrada, salida, ajuste).
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeEntry, MovementTypeExit, MovementTypeAdjustment:
		return true
	}
	return false
}
