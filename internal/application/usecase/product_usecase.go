package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/inventory"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

const defaultUnit = "unidade"

// ProductStockReader resuelve el stock por localidad de un producto (implementado por inventory.StockQueryUseCase).
type ProductStockReader interface {
	ProductStock(ctx context.Context, companyID, productID string) (*dto.ProductStockResponse, error)
}

// ProductRefs agrupa los catálogos que un producto puede referenciar.
type ProductRefs struct {
	Categories    repository.CatalogRepository
	Manufacturers repository.CatalogRepository
	Suppliers     repository.SupplierRepository
}

// ProductUseCase casos de uso CRUD para productos. El stock se maneja solo vía movimentações
// y la exclusión pasa por inventory.DeleteProductUseCase.
type ProductUseCase struct {
	repo  repository.ProductRepository
	refs  ProductRefs
	stock ProductStockReader
	audit inventory.AuditRecorder
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, refs ProductRefs, stock ProductStockReader, audit inventory.AuditRecorder) *ProductUseCase {
	return &ProductUseCase{repo: repo, refs: refs, stock: stock, audit: audit}
}

// Create crea un nuevo producto sin stock.
func (uc *ProductUseCase) Create(ctx context.Context, companyID string, actor inventory.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.MinimumStock.IsNegative() {
		return nil, fmt.Errorf("%w: estoque mínimo não pode ser negativo", domain.ErrInvalidInput)
	}
	if err := uc.checkRefs(ctx, companyID, in.CategoryID, in.ManufacturerID, in.SupplierID); err != nil {
		return nil, err
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = defaultUnit
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		PhotoURL:       in.PhotoURL,
		SerialNumber:   in.SerialNumber,
		Unit:           unit,
		Model:          in.Model,
		CategoryID:     in.CategoryID,
		ManufacturerID: in.ManufacturerID,
		SupplierID:     in.SupplierID,
		InternalNotes:  in.InternalNotes,
		Documents:      toDocuments(in.Documents),
		MinimumStock:   in.MinimumStock,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.record(ctx, product, entity.AuditProductCreate, actor, fmt.Sprintf("Produto %q criado", product.Name))
	return ToProductResponse(product), nil
}

// Get devuelve el producto con su stock por localidad, total y salud.
func (uc *ProductUseCase) Get(ctx context.Context, companyID, id string) (*dto.ProductDetailResponse, error) {
	product, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	out := &dto.ProductDetailResponse{ProductResponse: *ToProductResponse(product)}
	if uc.stock != nil {
		stock, err := uc.stock.ProductStock(ctx, companyID, id)
		if err != nil {
			return nil, err
		}
		out.Stock = *stock
	}
	return out, nil
}

// Update actualiza los campos presentes. Documents reemplaza la lista completa.
func (uc *ProductUseCase) Update(ctx context.Context, companyID, id string, actor inventory.Actor, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.PhotoURL != nil {
		product.PhotoURL = *in.PhotoURL
	}
	if in.SerialNumber != nil {
		product.SerialNumber = *in.SerialNumber
	}
	if in.Unit != nil {
		product.Unit = strings.TrimSpace(*in.Unit)
		if product.Unit == "" {
			product.Unit = defaultUnit
		}
	}
	if in.Model != nil {
		product.Model = *in.Model
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.ManufacturerID != nil {
		product.ManufacturerID = *in.ManufacturerID
	}
	if in.SupplierID != nil {
		product.SupplierID = *in.SupplierID
	}
	if in.InternalNotes != nil {
		product.InternalNotes = *in.InternalNotes
	}
	if in.Documents != nil {
		product.Documents = toDocuments(*in.Documents)
	}
	if in.MinimumStock != nil {
		if in.MinimumStock.IsNegative() {
			return nil, fmt.Errorf("%w: estoque mínimo não pode ser negativo", domain.ErrInvalidInput)
		}
		product.MinimumStock = *in.MinimumStock
	}
	if err := uc.checkRefs(ctx, companyID, product.CategoryID, product.ManufacturerID, product.SupplierID); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	uc.record(ctx, product, entity.AuditProductUpdate, actor, fmt.Sprintf("Produto %q atualizado", product.Name))
	return ToProductResponse(product), nil
}

// List lista productos por empresa con paginación.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage(50)
	list, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.CountByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// checkRefs verifica que categoría, fabricante y proveedor (si vienen) existan en la empresa.
func (uc *ProductUseCase) checkRefs(ctx context.Context, companyID, categoryID, manufacturerID, supplierID string) error {
	if categoryID != "" && uc.refs.Categories != nil {
		item, err := uc.refs.Categories.GetByID(ctx, companyID, categoryID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: categoria inexistente", domain.ErrNotFound)
		}
	}
	if manufacturerID != "" && uc.refs.Manufacturers != nil {
		item, err := uc.refs.Manufacturers.GetByID(ctx, companyID, manufacturerID)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: fabricante inexistente", domain.ErrNotFound)
		}
	}
	if supplierID != "" && uc.refs.Suppliers != nil {
		s, err := uc.refs.Suppliers.GetByID(ctx, companyID, supplierID)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("%w: fornecedor inexistente", domain.ErrNotFound)
		}
	}
	return nil
}

func (uc *ProductUseCase) record(ctx context.Context, p *entity.Product, action string, actor inventory.Actor, details string) {
	if uc.audit == nil {
		return
	}
	uc.audit.Record(ctx, entity.AuditEvent{
		CompanyID: p.CompanyID,
		Action:    action,
		Details:   details,
		UserID:    actor.UserID,
		UserEmail: actor.Email,
	})
}

func toDocuments(in []dto.ProductDocumentDTO) []entity.ProductDocument {
	out := make([]entity.ProductDocument, 0, len(in))
	for _, d := range in {
		out = append(out, entity.ProductDocument{Name: strings.TrimSpace(d.Name), Link: strings.TrimSpace(d.Link)})
	}
	return out
}

// ToProductResponse convierte la entidad en DTO.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	docs := make([]dto.ProductDocumentDTO, 0, len(p.Documents))
	for _, d := range p.Documents {
		docs = append(docs, dto.ProductDocumentDTO{Name: d.Name, Link: d.Link})
	}
	minimum := p.MinimumStock
	if minimum.IsNegative() {
		minimum = decimal.Zero
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		CompanyID:      p.CompanyID,
		Name:           p.Name,
		Description:    p.Description,
		PhotoURL:       p.PhotoURL,
		SerialNumber:   p.SerialNumber,
		Unit:           p.Unit,
		Model:          p.Model,
		CategoryID:     p.CategoryID,
		ManufacturerID: p.ManufacturerID,
		SupplierID:     p.SupplierID,
		InternalNotes:  p.InternalNotes,
		Documents:      docs,
		MinimumStock:   minimum,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
