package usecase

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stocktrack-api/internal/application/dto"
	"github.com/tu-usuario/stocktrack-api/internal/domain/entity"
	"github.com/tu-usuario/stocktrack-api/internal/domain/repository"
	"github.com/tu-usuario/stocktrack-api/pkg/logger"
)

// ReportCache caché cache-aside para respuestas de reportes. nil = sin caché.
type ReportCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

const dashboardCacheKey = "reports:dashboard"

// ReportUseCase reportes de solo lectura sobre el ledger. El tablero se
// cachea con TTL corto; los fallos del caché degradan a consultar la base.
type ReportUseCase struct {
	repo  repository.ReportRepository
	cache ReportCache
	log   *logger.Logger
}

// NewReportUseCase construye el caso de uso. cache puede ser nil.
func NewReportUseCase(repo repository.ReportRepository, cache ReportCache, log *logger.Logger) *ReportUseCase {
	return &ReportUseCase{repo: repo, cache: cache, log: log}
}

// Dashboard métricas del tablero: conteos, valoración y últimos movimientos.
func (uc *ReportUseCase) Dashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	if uc.cache != nil {
		var cached dto.DashboardDTO
		hit, err := uc.cache.Get(ctx, dashboardCacheKey, &cached)
		if err != nil {
			uc.log.Warn().Err(err).Msg("caché de tablero no disponible")
		} else if hit {
			return &cached, nil
		}
	}

	totals, err := uc.repo.GetDashboardTotals(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := uc.repo.GetRecentMovements(ctx, 10)
	if err != nil {
		return nil, err
	}

	out := &dto.DashboardDTO{
		Totals: dto.DashboardTotalsDTO{
			Products:   totals.Products,
			Categories: totals.Categories,
			Suppliers:  totals.Suppliers,
			LowStock:   totals.LowStockProducts,
		},
		Inventory: dto.DashboardInventoryDTO{
			TotalValue:       totals.InventoryValue,
			PotentialRevenue: totals.PotentialRevenue,
		},
		RecentMovements: make([]dto.MovementDTO, 0, len(recent)),
	}
	for _, m := range recent {
		out.RecentMovements = append(out.RecentMovements, dto.NewMovementDTO(m))
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, dashboardCacheKey, out); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo guardar el tablero en caché")
		}
	}
	return out, nil
}

// InventoryValue valoración por producto más totales.
func (uc *ReportUseCase) InventoryValue(ctx context.Context) (*dto.InventoryValueDTO, error) {
	rows, err := uc.repo.GetInventoryValuation(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.InventoryValueDTO{Report: make([]dto.ValuationRowDTO, 0, len(rows))}
	totalCost, totalValue, profit := decimal.Zero, decimal.Zero, decimal.Zero
	for _, v := range rows {
		out.Report = append(out.Report, dto.ValuationRowDTO{
			ProductID:       v.ProductID,
			Name:            v.Name,
			SKU:             v.SKU,
			Quantity:        v.Quantity,
			CostPrice:       v.CostPrice,
			SellingPrice:    v.SellingPrice,
			TotalCost:       v.TotalCost,
			TotalValue:      v.TotalValue,
			PotentialProfit: v.PotentialProfit,
		})
		totalCost = totalCost.Add(v.TotalCost)
		totalValue = totalValue.Add(v.TotalValue)
		profit = profit.Add(v.PotentialProfit)
	}
	out.Summary = dto.ValuationSummaryDTO{
		TotalCost:       totalCost,
		TotalValue:      totalValue,
		PotentialProfit: profit,
	}
	return out, nil
}

// LowStock productos en o por debajo de su umbral de reposición.
func (uc *ReportUseCase) LowStock(ctx context.Context) ([]*entity.Product, error) {
	return uc.repo.GetLowStockProducts(ctx)
}
