package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// Quantity solo se muta a través del motor de ledger (ApplyMovement); el
// resto de campos son descriptivos y se editan vía CRUD normal.
type Product struct {
	ID           string
	Name         string
	SKU          string
	CategoryID   string // opcional, vacío = sin categoría
	SupplierID   string // opcional, vacío = sin proveedor
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
	Quantity     decimal.Decimal // invariante: inicial + Σ deltas de movimientos aplicados
	ReorderLevel decimal.Decimal // umbral de reposición; cero = sin umbral
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
