package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeIn  = "in"  // entrada
	MovementTypeOut = "out" // salida
)

// StockMovement movimiento inmutable del ledger de stock. Una vez insertado
// nunca se actualiza ni se borra; las correcciones se registran como
// movimientos compensatorios nuevos.
type StockMovement struct {
	ID        string          // asignado por el motor al hacer append
	ProductID string
	Type      string          // in | out
	Quantity  decimal.Decimal // magnitud, siempre > 0; el signo lo da Type
	Notes     string
	CreatedAt time.Time // asignado por el motor, no por el cliente
}

// Delta devuelve el cambio con signo que el movimiento aplica a la cantidad
// del producto: +Quantity para entradas, -Quantity para salidas.
func (m *StockMovement) Delta() decimal.Decimal {
	if m.Type == MovementTypeOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
