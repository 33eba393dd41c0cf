// Package memory implementa el puerto ledger.Store en memoria. Se usa en
// tests del motor y de los handlers; replica la semántica del adaptador de
// PostgreSQL, incluida la escritura condicional de cantidad.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stocktrack-api/internal/application/ledger"
	"github.com/tu-usuario/stocktrack-api/internal/domain"
	"github.com/tu-usuario/stocktrack-api/internal/domain/entity"
)

var _ ledger.Store = (*Store)(nil)

// Store almacén en memoria: productos por id y ledger append-only.
//
// InsertHook y UpdateHook permiten inyectar fallos entre la escritura de
// cantidad y el append para los tests de atomicidad/compensación.
type Store struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	movements []*entity.StockMovement

	InsertHook func(m *entity.StockMovement) error
	UpdateHook func(id string, newQty, expectedQty decimal.Decimal) error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{products: make(map[string]*entity.Product)}
}

// SeedProduct registra un producto inicial (equivale a la creación externa).
func (s *Store) SeedProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *p
	s.products[p.ID] = &copied
}

// GetProduct devuelve una copia del producto o (nil, nil) si no existe.
func (s *Store) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

// UpdateProductQuantity escritura condicional: solo aplica si la cantidad
// actual coincide con expectedQty.
func (s *Store) UpdateProductQuantity(ctx context.Context, id string, newQty, expectedQty decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateHook != nil {
		if err := s.UpdateHook(id, newQty, expectedQty); err != nil {
			return err
		}
	}
	p, ok := s.products[id]
	if !ok {
		return domain.ErrVersionMismatch
	}
	if !p.Quantity.Equal(expectedQty) {
		return domain.ErrVersionMismatch
	}
	p.Quantity = newQty
	return nil
}

// InsertMovement append inmutable.
func (s *Store) InsertMovement(ctx context.Context, movement *entity.StockMovement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.InsertHook != nil {
		if err := s.InsertHook(movement); err != nil {
			return err
		}
	}
	copied := *movement
	s.movements = append(s.movements, &copied)
	return nil
}

// ListMovements historial filtrado, más reciente primero (desempate por id
// descendente, igual que el adaptador de PostgreSQL).
func (s *Store) ListMovements(ctx context.Context, filter ledger.ListFilter) ([]*entity.StockMovement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*entity.StockMovement
	for _, m := range s.movements {
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.StartDate != nil && m.CreatedAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && m.CreatedAt.After(*filter.EndDate) {
			continue
		}
		copied := *m
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Movements devuelve una copia del ledger completo (solo para aserciones).
func (s *Store) Movements() []*entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.StockMovement, 0, len(s.movements))
	for _, m := range s.movements {
		copied := *m
		out = append(out, &copied)
	}
	return out
}
