package entity

import "time"

// Estados válidos para User.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema.
// IsStaff es la única capacidad privilegiada: habilita las mutaciones de catálogo y movimientos.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	IsStaff      bool
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
