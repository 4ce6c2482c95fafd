package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain/inventory"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

const dashboardLatestMovements = 10

// StockSummarizer calcula los resúmenes de stock (implementado por inventory.StockQueryUseCase).
type StockSummarizer interface {
	Summaries(ctx context.Context, companyID string) ([]inventory.ProductSummary, error)
}

// DashboardUseCase genera el resumen de la pantalla inicial.
type DashboardUseCase struct {
	productRepo repository.ProductRepository
	stock       StockSummarizer
	reports     *ReportUseCase
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	productRepo repository.ProductRepository,
	stock StockSummarizer,
	reports *ReportUseCase,
) *DashboardUseCase {
	return &DashboardUseCase{productRepo: productRepo, stock: stock, reports: reports}
}

// GetSummary: total de productos, productos en estoque baixo y las últimas movimentações.
// Las tres consultas se lanzan en paralelo.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, companyID string) (*dto.DashboardResponse, error) {
	type countResult struct {
		n   int64
		err error
	}
	type summaryResult struct {
		low, critical int
		err           error
	}
	type movementsResult struct {
		page *dto.MovementReportResponse
		err  error
	}

	countCh := make(chan countResult, 1)
	summaryCh := make(chan summaryResult, 1)
	movCh := make(chan movementsResult, 1)

	go func() {
		n, err := uc.productRepo.CountByCompany(ctx, companyID)
		countCh <- countResult{n, err}
	}()
	go func() {
		summaries, err := uc.stock.Summaries(ctx, companyID)
		var res summaryResult
		res.err = err
		for _, s := range summaries {
			switch s.Health {
			case inventory.HealthCritical:
				res.critical++
				res.low++
			case inventory.HealthNearMinimum:
				res.low++
			}
		}
		summaryCh <- res
	}()
	go func() {
		page, err := uc.reports.movements(ctx, repository.LedgerFilter{CompanyID: companyID, Limit: dashboardLatestMovements})
		movCh <- movementsResult{page, err}
	}()

	count := <-countCh
	summary := <-summaryCh
	movs := <-movCh

	if count.err != nil {
		return nil, fmt.Errorf("dashboard: contagem de produtos: %w", count.err)
	}
	if summary.err != nil {
		return nil, fmt.Errorf("dashboard: estoque baixo: %w", summary.err)
	}
	if movs.err != nil {
		return nil, fmt.Errorf("dashboard: últimas movimentações: %w", movs.err)
	}
	return &dto.DashboardResponse{
		ProductCount:    count.n,
		LowStockCount:   summary.low,
		CriticalCount:   summary.critical,
		LatestMovements: movs.page.Items,
	}, nil
}
