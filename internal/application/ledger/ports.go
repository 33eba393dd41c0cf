package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stocktrack-api/internal/domain/entity"
)

// ListFilter filtros para consultar el historial de movimientos.
// Limit <= 0 significa sin límite (el historial completo, más reciente primero).
type ListFilter struct {
	ProductID string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// Store puerto del ledger hacia el almacén durable. Tres primitivas de
// escritura/lectura puntual más la consulta de rango:
//
//   - GetProduct: lectura puntual; (nil, nil) si el producto no existe.
//   - UpdateProductQuantity: escritura condicional; falla con
//     domain.ErrVersionMismatch si la cantidad actual ya no es expectedQty.
//     Esta condición es la única disciplina de mutación sobre quantity.
//   - InsertMovement: append inmutable del registro de movimiento.
//
// La actualización condicional detecta lost updates entre procesos; el motor
// reintenta acotadamente al recibir ErrVersionMismatch.
type Store interface {
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	UpdateProductQuantity(ctx context.Context, id string, newQty, expectedQty decimal.Decimal) error
	InsertMovement(ctx context.Context, movement *entity.StockMovement) error
	ListMovements(ctx context.Context, filter ListFilter) ([]*entity.StockMovement, error)
}
