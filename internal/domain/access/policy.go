// Package access implementa la compuerta de permisos por capacidad.
// No hay jerarquía de roles: un llamador es anónimo, autenticado o privilegiado (staff).
package access

import (
	"fmt"

	"github.com/jhoicas/inventory-manager/internal/domain"
)

// Principal identifica al llamador de una operación. Se pasa explícitamente a cada caso de uso.
type Principal struct {
	UserID        string
	Authenticated bool
	Privileged    bool
}

// Anonymous es el llamador sin credenciales.
var Anonymous = Principal{}

// User construye un Principal autenticado.
func User(userID string, privileged bool) Principal {
	return Principal{UserID: userID, Authenticated: true, Privileged: privileged}
}

// Action es una operación sujeta a la política.
type Action string

const (
	ProductRead     Action = "product:read"
	ProductWrite    Action = "product:write"
	MovementList    Action = "movement:list"
	MovementDetail  Action = "movement:detail"
	MovementWrite   Action = "movement:write"
	CategoryRead    Action = "category:read"
	CategoryWrite   Action = "category:write"
	StockReportRead Action = "report:stock"
	ProfileRead     Action = "profile:read"
)

// Requirement nivel mínimo exigido por una acción.
type Requirement int

const (
	RequireAuthenticated Requirement = iota + 1
	RequirePrivileged
)

// policy tabla de acción -> requisito. El detalle de movimiento exige staff,
// a diferencia del detalle de producto.
var policy = map[Action]Requirement{
	ProductRead:     RequireAuthenticated,
	ProductWrite:    RequirePrivileged,
	MovementList:    RequireAuthenticated,
	MovementDetail:  RequirePrivileged,
	MovementWrite:   RequirePrivileged,
	CategoryRead:    RequireAuthenticated,
	CategoryWrite:   RequirePrivileged,
	StockReportRead: RequireAuthenticated,
	ProfileRead:     RequireAuthenticated,
}

// RequirementFor devuelve el requisito de una acción. Acciones desconocidas exigen staff.
func RequirementFor(a Action) Requirement {
	if r, ok := policy[a]; ok {
		return r
	}
	return RequirePrivileged
}

// Authorize verifica que p pueda ejecutar a.
// Retorna domain.ErrUnauthenticated si p es anónimo y domain.ErrPermissionDenied si falta el privilegio.
func Authorize(p Principal, a Action) error {
	if !p.Authenticated {
		return fmt.Errorf("%s: %w", a, domain.ErrUnauthenticated)
	}
	if RequirementFor(a) == RequirePrivileged && !p.Privileged {
		return fmt.Errorf("%s: %w", a, domain.ErrPermissionDenied)
	}
	return nil
}
