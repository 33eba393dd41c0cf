package entity

import "time"

// Supplier proveedor de productos. Opaco para el ledger.
type Supplier struct {
	ID           string
	Name         string
	ContactEmail string
	ContactPhone string
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
