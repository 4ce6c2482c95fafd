// Package analytics contiene los relatórios de movimentações y stock, y el resumen del dashboard.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	appinv "github.com/jhoicas/Estoque-api/internal/application/inventory"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

const (
	movementsPageSize = 15
	// ExternalLocation es el nombre mostrado cuando la movimentação no tiene origen o destino.
	ExternalLocation = "EXTERNO"
)

// StockReportPDF genera el PDF del relatório de stock por localidad (puerto; implementado con maroto).
type StockReportPDF interface {
	GenerateStockByLocation(report *dto.StockByLocationResponse, companyName string) ([]byte, error)
}

// ReportUseCase arma los relatórios a partir del histórico y de los niveles de stock.
type ReportUseCase struct {
	ledgerRepo   repository.LedgerRepository
	levelRepo    repository.StockLevelRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	makers       repository.CatalogRepository
	companyRepo  repository.CompanyRepository
	pdf          StockReportPDF
	now          func() time.Time
}

// NewReportUseCase construye el caso de uso. makers es el catálogo de fabricantes.
func NewReportUseCase(
	ledgerRepo repository.LedgerRepository,
	levelRepo repository.StockLevelRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	makers repository.CatalogRepository,
	companyRepo repository.CompanyRepository,
	pdf StockReportPDF,
) *ReportUseCase {
	return &ReportUseCase{
		ledgerRepo:   ledgerRepo,
		levelRepo:    levelRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		makers:       makers,
		companyRepo:  companyRepo,
		pdf:          pdf,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// MovementsByPeriod devuelve el histórico del período, más reciente primero.
func (uc *ReportUseCase) MovementsByPeriod(ctx context.Context, companyID string, req dto.MovementReportRequest) (*dto.MovementReportResponse, error) {
	from, to, err := parsePeriod(req.From, req.To)
	if err != nil {
		return nil, err
	}
	return uc.movements(ctx, repository.LedgerFilter{
		CompanyID: companyID, From: from, To: to, Limit: req.Limit, Offset: req.Offset,
	})
}

// MovementsByUser devuelve el histórico de movimentações realizadas por userID.
func (uc *ReportUseCase) MovementsByUser(ctx context.Context, companyID, userID string, req dto.MovementReportRequest) (*dto.MovementReportResponse, error) {
	from, to, err := parsePeriod(req.From, req.To)
	if err != nil {
		return nil, err
	}
	return uc.movements(ctx, repository.LedgerFilter{
		CompanyID: companyID, UserID: userID, From: from, To: to, Limit: req.Limit, Offset: req.Offset,
	})
}

func (uc *ReportUseCase) movements(ctx context.Context, filter repository.LedgerFilter) (*dto.MovementReportResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = movementsPageSize
	}
	entries, err := uc.ledgerRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("relatório de movimentações: %w", err)
	}
	total, err := uc.ledgerRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("relatório de movimentações: %w", err)
	}
	names, err := uc.loadNames(ctx, filter.CompanyID)
	if err != nil {
		return nil, err
	}
	return &dto.MovementReportResponse{
		Items: names.entries(entries),
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}, nil
}

// StockByLocation lista los productos con cantidad > 0 en la localidad.
func (uc *ReportUseCase) StockByLocation(ctx context.Context, companyID, locationID string) (*dto.StockByLocationResponse, error) {
	loc, err := uc.locationRepo.GetByID(ctx, companyID, locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	levels, err := uc.levelRepo.ListByLocation(ctx, companyID, locationID)
	if err != nil {
		return nil, fmt.Errorf("relatório de estoque por localidade: %w", err)
	}
	products, err := uc.productRepo.ListByCompany(ctx, companyID, 0, 0)
	if err != nil {
		return nil, err
	}
	makers, err := uc.makers.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	makerNames := make(map[string]string, len(makers))
	for _, m := range makers {
		makerNames[m.ID] = m.Name
	}

	out := &dto.StockByLocationResponse{
		LocationID:   loc.ID,
		LocationName: loc.Name,
		GeneratedAt:  uc.now(),
		Items:        make([]dto.StockByLocationRow, 0, len(levels)),
	}
	for _, l := range levels {
		if !l.Quantity.IsPositive() {
			continue
		}
		p := byID[l.ProductID]
		if p == nil {
			continue
		}
		out.Items = append(out.Items, dto.StockByLocationRow{
			ProductID:        p.ID,
			ProductName:      p.Name,
			Unit:             p.Unit,
			ManufacturerName: makerNames[p.ManufacturerID],
			Quantity:         l.Quantity,
		})
	}
	sort.Slice(out.Items, func(i, j int) bool { return out.Items[i].ProductName < out.Items[j].ProductName })
	return out, nil
}

// StockByLocationPDF genera el mismo relatório en PDF.
func (uc *ReportUseCase) StockByLocationPDF(ctx context.Context, companyID, locationID string) ([]byte, error) {
	report, err := uc.StockByLocation(ctx, companyID, locationID)
	if err != nil {
		return nil, err
	}
	companyName := ""
	if c, err := uc.companyRepo.GetByID(ctx, companyID); err == nil && c != nil {
		companyName = c.Name
	}
	return uc.pdf.GenerateStockByLocation(report, companyName)
}

// nameIndex resuelve nombres de producto y localidad para las filas del histórico.
type nameIndex struct {
	products  map[string]string
	locations map[string]string
}

func (uc *ReportUseCase) loadNames(ctx context.Context, companyID string) (*nameIndex, error) {
	products, err := uc.productRepo.ListByCompany(ctx, companyID, 0, 0)
	if err != nil {
		return nil, err
	}
	locations, err := uc.locationRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	idx := &nameIndex{
		products:  make(map[string]string, len(products)),
		locations: make(map[string]string, len(locations)),
	}
	for _, p := range products {
		idx.products[p.ID] = p.Name
	}
	for _, l := range locations {
		idx.locations[l.ID] = l.Name
	}
	return idx, nil
}

func (idx *nameIndex) location(id string) string {
	if id == "" {
		return ExternalLocation
	}
	if name, ok := idx.locations[id]; ok {
		return name
	}
	return id
}

func (idx *nameIndex) entries(in []entity.LedgerEntry) []dto.LedgerEntryResponse {
	out := make([]dto.LedgerEntryResponse, 0, len(in))
	for _, e := range in {
		row := appinv.ToLedgerEntryResponse(e)
		row.ProductName = idx.products[e.ProductID]
		row.SourceLocationName = idx.location(e.SourceLocationID)
		row.DestinationName = idx.location(e.DestinationLocationID)
		out = append(out, row)
	}
	return out
}

// parsePeriod convierte from/to (YYYY-MM-DD o RFC3339) en límites; vacío = sin límite.
// to con fecha simple es inclusivo hasta el final del día.
func parsePeriod(fromStr, toStr string) (from, to *time.Time, err error) {
	if fromStr != "" {
		t, err := parseDate(fromStr)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: from inválido", domain.ErrInvalidInput)
		}
		from = &t
	}
	if toStr != "" {
		t, err := parseDate(toStr)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: to inválido", domain.ErrInvalidInput)
		}
		if len(toStr) == len("2006-01-02") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		to = &t
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, fmt.Errorf("%w: from não pode ser posterior a to", domain.ErrInvalidInput)
	}
	return from, to, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
