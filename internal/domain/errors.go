package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrOverIssue: la salida o devolución dejaría recibido > requerido (o esperado) en la línea.
	ErrOverIssue = errors.New("cantidad entregada supera la requerida")
	// ErrInvalidTransition: la máquina de estados no permite el cambio solicitado.
	ErrInvalidTransition = errors.New("transición de estado no permitida")
)
