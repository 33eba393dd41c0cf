package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stocktrack-api/internal/domain/entity"
)

// DashboardTotals conteos y valoración global para el tablero.
type DashboardTotals struct {
	Products         int64
	Categories       int64
	Suppliers        int64
	LowStockProducts int64
	InventoryValue   decimal.Decimal // Σ quantity × cost_price
	PotentialRevenue decimal.Decimal // Σ quantity × selling_price
}

// ProductValuation valoración por producto para el reporte de valor de inventario.
type ProductValuation struct {
	ProductID       string
	Name            string
	SKU             string
	Quantity        decimal.Decimal
	CostPrice       decimal.Decimal
	SellingPrice    decimal.Decimal
	TotalCost       decimal.Decimal
	TotalValue      decimal.Decimal
	PotentialProfit decimal.Decimal
}

// ReportRepository consultas de solo lectura sobre productos y movimientos.
// Consume la salida del ledger; nunca la muta.
type ReportRepository interface {
	GetDashboardTotals(ctx context.Context) (*DashboardTotals, error)
	GetRecentMovements(ctx context.Context, limit int) ([]*entity.StockMovement, error)
	GetInventoryValuation(ctx context.Context) ([]*ProductValuation, error)
	GetLowStockProducts(ctx context.Context) ([]*entity.Product, error)
}
