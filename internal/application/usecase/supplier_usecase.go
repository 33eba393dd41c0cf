package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stocktrack-api/internal/application/dto"
	"github.com/tu-usuario/stocktrack-api/internal/domain"
	"github.com/tu-usuario/stocktrack-api/internal/domain/entity"
	"github.com/tu-usuario/stocktrack-api/internal/domain/repository"
)

// SupplierUseCase CRUD de proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

func validateSupplier(in dto.SupplierRequest) *domain.ValidationError {
	if in.Name == "" {
		return &domain.ValidationError{Field: "name", Reason: "es obligatorio"}
	}
	if in.ContactEmail != "" && !strings.Contains(in.ContactEmail, "@") {
		return &domain.ValidationError{Field: "contact_email", Reason: "no es un email válido"}
	}
	return nil
}

// Create valida y persiste un proveedor nuevo.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.SupplierRequest) (*entity.Supplier, error) {
	if verr := validateSupplier(in); verr != nil {
		return nil, verr
	}
	now := time.Now().UTC()
	s := &entity.Supplier{
		ID:           uuid.New().String(),
		Name:         in.Name,
		ContactEmail: in.ContactEmail,
		ContactPhone: in.ContactPhone,
		Address:      in.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID obtiene un proveedor; ErrNotFound si no existe.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// List lista proveedores paginados.
func (uc *SupplierUseCase) List(ctx context.Context, page dto.PageRequest) ([]*entity.Supplier, error) {
	page.DefaultPage()
	return uc.repo.List(ctx, page.Limit, page.Offset)
}

// Update actualiza un proveedor existente.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.SupplierRequest) (*entity.Supplier, error) {
	if verr := validateSupplier(in); verr != nil {
		return nil, verr
	}
	s, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Name = in.Name
	s.ContactEmail = in.ContactEmail
	s.ContactPhone = in.ContactPhone
	s.Address = in.Address
	s.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Delete elimina un proveedor.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}
