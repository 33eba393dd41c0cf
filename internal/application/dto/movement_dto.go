package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stocktrack-api/internal/domain/entity"
)

// CreateMovementRequest body para POST /api/stock/movements.
type CreateMovementRequest struct {
	ProductID string          `json:"product_id"`
	Type      string          `json:"type"` // in | out
	Quantity  decimal.Decimal `json:"quantity"`
	Notes     string          `json:"notes,omitempty"`
}

// MovementDTO representación HTTP de un movimiento del ledger.
type MovementDTO struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewMovementDTO mapea la entidad al DTO.
func NewMovementDTO(m *entity.StockMovement) MovementDTO {
	return MovementDTO{
		ID:        m.ID,
		ProductID: m.ProductID,
		Type:      m.Type,
		Quantity:  m.Quantity,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
	}
}

// MovementAppliedResponse respuesta 201: el movimiento anexado y el snapshot
// del producto con su nueva cantidad.
type MovementAppliedResponse struct {
	Movement MovementDTO `json:"movement"`
	Product  ProductDTO  `json:"product"`
}

// InsufficientStockResponse cuerpo del 409 por política de stock: incluye la
// cantidad actual y la solicitada para que el cliente decida.
type InsufficientStockResponse struct {
	Code              string          `json:"code"`
	Message           string          `json:"message"`
	CurrentQuantity   decimal.Decimal `json:"current_quantity"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
}

// ListMovementsRequest query params para GET /api/stock/movements.
type ListMovementsRequest struct {
	ProductID string `query:"product_id"`
	StartDate string `query:"start_date"` // RFC 3339 o YYYY-MM-DD
	EndDate   string `query:"end_date"`
	Limit     int    `query:"limit"` // 0 = sin límite
	Offset    int    `query:"offset"`
}
