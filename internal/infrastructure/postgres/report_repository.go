package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/stocktrack-api/internal/domain/entity"
	"github.com/tu-usuario/stocktrack-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para los reportes. Consume el ledger;
// no lo muta.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// GetDashboardTotals conteos y valoración global en una sola pasada.
// Un producto está en stock bajo cuando quantity <= reorder_level y el
// umbral está definido (> 0).
func (r *ReportRepo) GetDashboardTotals(ctx context.Context) (*repository.DashboardTotals, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM products)                                            AS products,
	    (SELECT COUNT(*) FROM categories)                                          AS categories,
	    (SELECT COUNT(*) FROM suppliers)                                           AS suppliers,
	    (SELECT COUNT(*) FROM products
	       WHERE COALESCE(reorder_level, 0) > 0 AND quantity <= reorder_level)     AS low_stock,
	    COALESCE((SELECT SUM(quantity * COALESCE(cost_price, 0))    FROM products), 0) AS inventory_value,
	    COALESCE((SELECT SUM(quantity * COALESCE(selling_price, 0)) FROM products), 0) AS potential_revenue`
	var t repository.DashboardTotals
	err := r.pool.QueryRow(ctx, query).Scan(
		&t.Products, &t.Categories, &t.Suppliers, &t.LowStockProducts,
		&t.InventoryValue, &t.PotentialRevenue,
	)
	if err != nil {
		return nil, wrapErr("reports.GetDashboardTotals", err)
	}
	return &t, nil
}

// GetRecentMovements los movimientos más recientes para el tablero.
func (r *ReportRepo) GetRecentMovements(ctx context.Context, limit int) ([]*entity.StockMovement, error) {
	const query = `
		SELECT id, product_id, type, quantity, COALESCE(notes, ''), created_at
		FROM stock_movements ORDER BY created_at DESC, id DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, wrapErr("reports.GetRecentMovements", err)
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

// GetInventoryValuation valoración por producto, ordenada por nombre.
func (r *ReportRepo) GetInventoryValuation(ctx context.Context) ([]*repository.ProductValuation, error) {
	const query = `
	SELECT
	    id, name, COALESCE(sku, ''), quantity,
	    COALESCE(cost_price, 0), COALESCE(selling_price, 0),
	    quantity * COALESCE(cost_price, 0)                                     AS total_cost,
	    quantity * COALESCE(selling_price, 0)                                  AS total_value,
	    quantity * (COALESCE(selling_price, 0) - COALESCE(cost_price, 0))      AS potential_profit
	FROM products ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, wrapErr("reports.GetInventoryValuation", err)
	}
	defer rows.Close()

	var list []*repository.ProductValuation
	for rows.Next() {
		var v repository.ProductValuation
		if err := rows.Scan(
			&v.ProductID, &v.Name, &v.SKU, &v.Quantity,
			&v.CostPrice, &v.SellingPrice, &v.TotalCost, &v.TotalValue, &v.PotentialProfit,
		); err != nil {
			return nil, fmt.Errorf("scan valuation: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// GetLowStockProducts productos en o por debajo de su umbral de reposición,
// los más críticos primero.
func (r *ReportRepo) GetLowStockProducts(ctx context.Context) ([]*entity.Product, error) {
	const query = `
		SELECT ` + productColumns + `
		FROM products
		WHERE COALESCE(reorder_level, 0) > 0 AND quantity <= reorder_level
		ORDER BY quantity ASC, name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, wrapErr("reports.GetLowStockProducts", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
