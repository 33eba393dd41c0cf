package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stocktrack-api/internal/application/ledger"
	"github.com/tu-usuario/stocktrack-api/internal/domain"
	"github.com/tu-usuario/stocktrack-api/internal/domain/entity"
)

var _ ledger.Store = (*LedgerStore)(nil)

// LedgerStore adaptador del motor de ledger sobre PostgreSQL. Implementa las
// primitivas del puerto: lectura puntual, actualización condicional de
// cantidad y append de movimientos. Sin SELECT FOR UPDATE ni transacciones
// exclusivas: la disciplina de mutación es la condición sobre quantity.
type LedgerStore struct {
	q Querier
}

// NewLedgerStore construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerStore(q Querier) *LedgerStore {
	return &LedgerStore{q: q}
}

// GetProduct lectura puntual; (nil, nil) si el producto no existe.
func (s *LedgerStore) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	const query = `
		SELECT id, name, COALESCE(sku, ''), COALESCE(category_id::text, ''), COALESCE(supplier_id::text, ''),
		       COALESCE(cost_price, 0), COALESCE(selling_price, 0), quantity, COALESCE(reorder_level, 0),
		       created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := s.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.SKU, &p.CategoryID, &p.SupplierID,
		&p.CostPrice, &p.SellingPrice, &p.Quantity, &p.ReorderLevel,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get product", err)
	}
	return &p, nil
}

// UpdateProductQuantity escritura condicional: solo aplica si quantity aún
// vale expectedQty. Cero filas afectadas significa que otro escritor ganó la
// carrera (o que el producto desapareció); el motor relee y decide.
func (s *LedgerStore) UpdateProductQuantity(ctx context.Context, id string, newQty, expectedQty decimal.Decimal) error {
	const query = `
		UPDATE products SET quantity = $2, updated_at = now()
		WHERE id = $1 AND quantity = $3`
	cmd, err := s.q.Exec(ctx, query, id, newQty, expectedQty)
	if err != nil {
		return wrapErr("update product quantity", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrVersionMismatch
	}
	return nil
}

// InsertMovement append inmutable. El motor asigna id y created_at antes de
// llamar; aquí se persisten tal cual.
func (s *LedgerStore) InsertMovement(ctx context.Context, m *entity.StockMovement) error {
	const query = `
		INSERT INTO stock_movements (id, product_id, type, quantity, notes, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`
	_, err := s.q.Exec(ctx, query, m.ID, m.ProductID, m.Type, m.Quantity, m.Notes, m.CreatedAt)
	if err != nil {
		return wrapErr("insert movement", err)
	}
	return nil
}

// ListMovements historial más reciente primero, con empate por id
// descendente para un orden total estable.
func (s *LedgerStore) ListMovements(ctx context.Context, filter ledger.ListFilter) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, type, quantity, COALESCE(notes, ''), created_at
		FROM stock_movements`
	var args []any
	var conds []string
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		conds = append(conds, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list movements", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
