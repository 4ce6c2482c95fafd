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

// SupplierUseCase casos de uso CRUD para fornecedores.
type SupplierUseCase struct {
	repo  repository.SupplierRepository
	audit inventory.AuditRecorder
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, audit inventory.AuditRecorder) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, audit: audit}
}

func (uc *SupplierUseCase) Create(ctx context.Context, companyID string, actor inventory.Actor, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	now := time.Now().UTC()
	s := &entity.Supplier{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		Name:            strings.TrimSpace(in.Name),
		ContactName:     in.ContactName,
		ContactWhatsApp: in.ContactWhatsApp,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.record(ctx, companyID, entity.AuditCatalogCreate, actor, fmt.Sprintf("Fornecedor %q criado", s.Name))
	return toSupplierResponse(s), nil
}

func (uc *SupplierUseCase) Update(ctx context.Context, companyID, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	s.Name = strings.TrimSpace(in.Name)
	s.ContactName = in.ContactName
	s.ContactWhatsApp = in.ContactWhatsApp
	s.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

func (uc *SupplierUseCase) List(ctx context.Context, companyID string) ([]dto.SupplierResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

func (uc *SupplierUseCase) Delete(ctx context.Context, companyID, id string, actor inventory.Actor) error {
	s, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	uc.record(ctx, companyID, entity.AuditCatalogDelete, actor, fmt.Sprintf("Fornecedor %q excluído", s.Name))
	return nil
}

func (uc *SupplierUseCase) record(ctx context.Context, companyID, action string, actor inventory.Actor, details string) {
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

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:              s.ID,
		Name:            s.Name,
		ContactName:     s.ContactName,
		ContactWhatsApp: s.ContactWhatsApp,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
