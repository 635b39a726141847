package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/inventory-manager/internal/application/dto"
	"github.com/jhoicas/inventory-manager/internal/domain"
)

// writeError traduce un error de dominio a status HTTP + ErrorResponse.
// Los errores no clasificados se registran y se responden como 500 sin exponer detalles.
func writeError(c *fiber.Ctx, err error) error {
	status, code, message := classify(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error interno")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message})
}

func classify(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return fiber.StatusUnauthorized, "UNAUTHENTICATED", "autenticación requerida"
	case errors.Is(err, domain.ErrPermissionDenied):
		return fiber.StatusForbidden, "PERMISSION_DENIED", "permiso denegado"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK", err.Error()
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "DUPLICATE", err.Error()
	case errors.Is(err, domain.ErrUnsupportedMovementType):
		return fiber.StatusUnprocessableEntity, "UNSUPPORTED_MOVEMENT_TYPE", err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION", err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusServiceUnavailable, "TIMEOUT", "la operación excedió el tiempo límite"
	}
	return fiber.StatusInternalServerError, "INTERNAL", "error interno"
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}
