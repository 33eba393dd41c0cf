package repository

import (
	"context"

	"github.com/tu-usuario/stocktrack-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Update no toca Quantity: esa columna pertenece al motor de ledger.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
}
