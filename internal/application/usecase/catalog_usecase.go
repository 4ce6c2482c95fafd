package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/application/inventory"
	"github.com/jhoicas/Estoque-api/internal/domain"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

// CatalogUseCase CRUD de un catálogo simple (categorías, fabricantes o proyectos).
type CatalogUseCase struct {
	catalog string
	repo    repository.CatalogRepository
	audit   inventory.AuditRecorder
}

// NewCatalogUseCase construye el caso de uso para el catálogo dado (entity.Catalog*).
func NewCatalogUseCase(catalog string, repo repository.CatalogRepository, audit inventory.AuditRecorder) *CatalogUseCase {
	return &CatalogUseCase{catalog: catalog, repo: repo, audit: audit}
}

// Catalog devuelve el nombre del catálogo que gestiona.
func (uc *CatalogUseCase) Catalog() string { return uc.catalog }

// Create crea un ítem. Nombres repetidos en la empresa devuelven domain.ErrDuplicate (desde el adaptador).
func (uc *CatalogUseCase) Create(ctx context.Context, companyID string, actor inventory.Actor, in dto.CatalogItemRequest) (*dto.CatalogItemResponse, error) {
	now := time.Now().UTC()
	item := &entity.CatalogItem{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Catalog:   uc.catalog,
		Name:      strings.TrimSpace(in.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	uc.record(ctx, companyID, entity.AuditCatalogCreate, actor, fmt.Sprintf("%s: %q criado", uc.catalog, item.Name))
	return toCatalogResponse(item), nil
}

// Rename cambia el nombre de un ítem.
func (uc *CatalogUseCase) Rename(ctx context.Context, companyID, id string, in dto.CatalogItemRequest) (*dto.CatalogItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	item.Name = strings.TrimSpace(in.Name)
	item.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toCatalogResponse(item), nil
}

// List lista los ítems del catálogo.
func (uc *CatalogUseCase) List(ctx context.Context, companyID string) ([]dto.CatalogItemResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CatalogItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, *toCatalogResponse(it))
	}
	return out, nil
}

// Delete elimina un ítem. Los productos y localidades que lo referencian quedan sin referencia.
func (uc *CatalogUseCase) Delete(ctx context.Context, companyID, id string, actor inventory.Actor) error {
	item, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	uc.record(ctx, companyID, entity.AuditCatalogDelete, actor, fmt.Sprintf("%s: %q excluído", uc.catalog, item.Name))
	return nil
}

func (uc *CatalogUseCase) record(ctx context.Context, companyID, action string, actor inventory.Actor, details string) {
	if uc.audit == nil {
		return
	}
	uc.audit.Record(ctx, entity.AuditEvent{
		CompanyID: companyID,
		Action:    action,
		Details:   details,
		UserID:    actor.UserID,
		UserEmail: actor.Email,
	})
}

func toCatalogResponse(it *entity.CatalogItem) *dto.CatalogItemResponse {
	return &dto.CatalogItemResponse{
		ID:        it.ID,
		Name:      it.Name,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}
