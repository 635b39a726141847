package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventory-manager/internal/application/dto"
	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/access"
)

// RequireAction corta la petición antes del handler si el llamador no cumple la política de la acción.
// Debe usarse DESPUÉS de AuthMiddleware. Los casos de uso vuelven a verificar con la misma tabla.
//
// Comportamiento:
//   - 401 Unauthorized → sin principal autenticado.
//   - 403 Forbidden    → acción reservada a staff.
func RequireAction(action access.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := access.Authorize(GetPrincipal(c), action)
		switch {
		case err == nil:
			return c.Next()
		case errors.Is(err, domain.ErrUnauthenticated):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHENTICATED",
				Message: "autenticación requerida",
			})
		default:
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "PERMISSION_DENIED",
				Message: "la acción '" + string(action) + "' requiere un usuario staff",
			})
		}
	}
}
