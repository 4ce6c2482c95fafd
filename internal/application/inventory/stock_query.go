package inventory

import (
	"context"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/inventory"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

// StockQueryUseCase calcula vistas agregadas (total, salud, estoque baixo) desde el almacén autoritativo.
type StockQueryUseCase struct {
	productRepo  repository.ProductRepository
	levelRepo    repository.StockLevelRepository
	locationRepo repository.LocationRepository
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(
	productRepo repository.ProductRepository,
	levelRepo repository.StockLevelRepository,
	locationRepo repository.LocationRepository,
) *StockQueryUseCase {
	return &StockQueryUseCase{productRepo: productRepo, levelRepo: levelRepo, locationRepo: locationRepo}
}

// ProductStock devuelve el stock de un producto por localidad, con total y salud.
func (uc *StockQueryUseCase) ProductStock(ctx context.Context, companyID, productID string) (*dto.ProductStockResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	levels, err := uc.levelRepo.ListByProduct(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	locations, err := uc.locationRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(locations))
	for _, l := range locations {
		names[l.ID] = l.Name
	}
	return BuildProductStock(product, levels, names), nil
}

// BuildProductStock arma la respuesta de stock de un producto; names resuelve nombres de localidad.
func BuildProductStock(product *entity.Product, levels []entity.StockLevel, names map[string]string) *dto.ProductStockResponse {
	total := inventory.TotalStock(levels, product.ID)
	out := &dto.ProductStockResponse{
		ProductID:    product.ID,
		ProductName:  product.Name,
		Unit:         product.Unit,
		MinimumStock: product.MinimumStock,
		Total:        total,
		Health:       string(inventory.ClassifyHealth(total, product.MinimumStock)),
		Levels:       make([]dto.StockLevelResponse, 0, len(levels)),
	}
	for _, l := range levels {
		row := ToStockLevelResponse(l)
		row.LocationName = names[l.LocationID]
		out.Levels = append(out.Levels, row)
	}
	return out
}

// Summaries devuelve el resumen agregado de todos los productos de la empresa.
func (uc *StockQueryUseCase) Summaries(ctx context.Context, companyID string) ([]inventory.ProductSummary, error) {
	products, err := uc.productRepo.ListByCompany(ctx, companyID, 0, 0)
	if err != nil {
		return nil, err
	}
	levels, err := uc.levelRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return inventory.Summaries(products, levels), nil
}

// LowStock devuelve los productos críticos o próximos del mínimo, mayor déficit primero.
func (uc *StockQueryUseCase) LowStock(ctx context.Context, companyID string) ([]dto.StockSummaryResponse, error) {
	summaries, err := uc.Summaries(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return ToSummaryResponses(inventory.LowStock(summaries)), nil
}

// Overview devuelve el resumen de todos los productos.
func (uc *StockQueryUseCase) Overview(ctx context.Context, companyID string) ([]dto.StockSummaryResponse, error) {
	summaries, err := uc.Summaries(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return ToSummaryResponses(summaries), nil
}

// ToSummaryResponses convierte resúmenes de dominio a DTO.
func ToSummaryResponses(in []inventory.ProductSummary) []dto.StockSummaryResponse {
	out := make([]dto.StockSummaryResponse, 0, len(in))
	for _, s := range in {
		out = append(out, dto.StockSummaryResponse{
			ProductID:    s.Product.ID,
			ProductName:  s.Product.Name,
			Unit:         s.Product.Unit,
			MinimumStock: s.Product.MinimumStock,
			Total:        s.Total,
			Deficit:      s.Deficit,
			Health:       string(s.Health),
		})
	}
	return out
}
