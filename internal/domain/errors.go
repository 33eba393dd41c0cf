package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto de escritura concurrente")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrVersionMismatch   = errors.New("la cantidad cambió desde la lectura")
	ErrStoreUnavailable  = errors.New("almacén de datos no disponible")
)

// ValidationError error de validación estructural con el campo que falló.
// errors.Is(err, ErrInvalidInput) es true para cualquier ValidationError.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validación: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// InsufficientStockError rechazo por la política de stock no negativo.
// Incluye cantidad actual y solicitada para que el caller decida (HTTP 409).
type InsufficientStockError struct {
	ProductID string
	Current   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s: actual %s, salida solicitada %s",
		e.ProductID, e.Current.String(), e.Requested.String())
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
