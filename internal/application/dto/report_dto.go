package dto

import "github.com/shopspring/decimal"

// DashboardDTO métricas del tablero.
type DashboardDTO struct {
	Totals          DashboardTotalsDTO    `json:"totals"`
	Inventory       DashboardInventoryDTO `json:"inventory"`
	RecentMovements []MovementDTO         `json:"recent_movements"`
}

// DashboardTotalsDTO conteos globales.
type DashboardTotalsDTO struct {
	Products   int64 `json:"products"`
	Categories int64 `json:"categories"`
	Suppliers  int64 `json:"suppliers"`
	LowStock   int64 `json:"low_stock"`
}

// DashboardInventoryDTO valoración global del inventario.
type DashboardInventoryDTO struct {
	TotalValue       decimal.Decimal `json:"total_value"`
	PotentialRevenue decimal.Decimal `json:"potential_revenue"`
}

// ValuationRowDTO fila del reporte de valor de inventario.
type ValuationRowDTO struct {
	ProductID       string          `json:"product_id"`
	Name            string          `json:"name"`
	SKU             string          `json:"sku,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	TotalValue      decimal.Decimal `json:"total_value"`
	PotentialProfit decimal.Decimal `json:"potential_profit"`
}

// ValuationSummaryDTO totales del reporte de valor de inventario.
type ValuationSummaryDTO struct {
	TotalCost       decimal.Decimal `json:"total_cost"`
	TotalValue      decimal.Decimal `json:"total_value"`
	PotentialProfit decimal.Decimal `json:"potential_profit"`
}

// InventoryValueDTO reporte completo de valor de inventario.
type InventoryValueDTO struct {
	Report  []ValuationRowDTO   `json:"report"`
	Summary ValuationSummaryDTO `json:"summary"`
}
