package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// La capa HTTP los distingue con errors.Is para elegir el código de respuesta.
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrUserNotFound            = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists      = errors.New("el email ya está registrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrDuplicate               = errors.New("recurso duplicado")
	ErrUnauthenticated         = errors.New("autenticación requerida")
	ErrUnauthorized            = errors.New("credenciales inválidas")
	ErrPermissionDenied        = errors.New("permiso denegado")
	ErrInsufficientStock       = errors.New("stock insuficiente")
	ErrUnsupportedMovementType = errors.New("tipo de movimiento no soportado")
	ErrCodeExhausted           = errors.New("no se pudo generar un código único")
)
