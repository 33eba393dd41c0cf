package entity

import "time"

// Category agrupa productos. Opaca para el ledger.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
