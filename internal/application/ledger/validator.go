package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stocktrack-api/internal/domain"
	"github.com/tu-usuario/stocktrack-api/internal/domain/entity"
)

// ApplyInput solicitud de movimiento ya deserializada. Quantity es la
// magnitud; el signo del delta lo determina Type.
type ApplyInput struct {
	ProductID string
	Type      string
	Quantity  decimal.Decimal
	Notes     string
}

// ValidateMovement valida estructuralmente una solicitud de movimiento.
// Función pura, sin I/O: la existencia del producto la verifica el motor en
// su paso de lectura, no aquí. Devuelve nil si la solicitud es válida.
func ValidateMovement(in ApplyInput) *domain.ValidationError {
	if in.ProductID == "" {
		return &domain.ValidationError{Field: "product_id", Reason: "es obligatorio"}
	}
	if in.Type != entity.MovementTypeIn && in.Type != entity.MovementTypeOut {
		return &domain.ValidationError{Field: "type", Reason: "debe ser 'in' o 'out'"}
	}
	if !in.Quantity.IsPositive() {
		return &domain.ValidationError{Field: "quantity", Reason: "debe ser mayor que cero"}
	}
	return nil
}
