package dto

import (
	"time"

	"github.com/tu-usuario/stocktrack-api/internal/domain/entity"
)

// SupplierRequest body para crear o actualizar un proveedor.
type SupplierRequest struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	Address      string `json:"address,omitempty"`
}

// SupplierDTO representación HTTP de un proveedor.
type SupplierDTO struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewSupplierDTO mapea la entidad al DTO.
func NewSupplierDTO(s *entity.Supplier) SupplierDTO {
	return SupplierDTO{
		ID:           s.ID,
		Name:         s.Name,
		ContactEmail: s.ContactEmail,
		ContactPhone: s.ContactPhone,
		Address:      s.Address,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
