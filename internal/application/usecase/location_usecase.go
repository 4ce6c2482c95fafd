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

// LocationUseCase casos de uso CRUD para localidades.
type LocationUseCase struct {
	repo      repository.LocationRepository
	levelRepo repository.StockLevelRepository
	projects  repository.CatalogRepository
	audit     inventory.AuditRecorder
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(
	repo repository.LocationRepository,
	levelRepo repository.StockLevelRepository,
	projects repository.CatalogRepository,
	audit inventory.AuditRecorder,
) *LocationUseCase {
	return &LocationUseCase{repo: repo, levelRepo: levelRepo, projects: projects, audit: audit}
}

// Create crea una nueva localidad.
func (uc *LocationUseCase) Create(ctx context.Context, companyID string, actor inventory.Actor, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if err := uc.checkProject(ctx, companyID, in.ProjectID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	location := &entity.Location{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      strings.TrimSpace(in.Name),
		Color:     in.Color,
		ProjectID: in.ProjectID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	uc.record(ctx, companyID, entity.AuditLocationCreate, actor, fmt.Sprintf("Localidade %q criada", location.Name))
	return toLocationResponse(location), nil
}

// GetByID obtiene una localidad por ID.
func (uc *LocationUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	return toLocationResponse(location), nil
}

// Update actualiza nombre, color o proyecto.
func (uc *LocationUseCase) Update(ctx context.Context, companyID, id string, actor inventory.Actor, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		location.Name = strings.TrimSpace(*in.Name)
	}
	if in.Color != nil {
		location.Color = *in.Color
	}
	if in.ProjectID != nil {
		if err := uc.checkProject(ctx, companyID, *in.ProjectID); err != nil {
			return nil, err
		}
		location.ProjectID = *in.ProjectID
	}
	location.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, location); err != nil {
		return nil, err
	}
	uc.record(ctx, companyID, entity.AuditLocationUpdate, actor, fmt.Sprintf("Localidade %q atualizada", location.Name))
	return toLocationResponse(location), nil
}

// List lista las localidades de la empresa.
func (uc *LocationUseCase) List(ctx context.Context, companyID string) ([]dto.LocationResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, *toLocationResponse(l))
	}
	return out, nil
}

// Delete elimina una localidad vacía. Con stock devuelve *domain.StockNotEmptyError.
func (uc *LocationUseCase) Delete(ctx context.Context, companyID, id string, actor inventory.Actor) error {
	location, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return err
	}
	if location == nil {
		return domain.ErrNotFound
	}
	levels, err := uc.levelRepo.ListByLocation(ctx, companyID, id)
	if err != nil {
		return err
	}
	total := decimal.Zero
	for _, l := range levels {
		total = total.Add(l.Quantity)
	}
	if total.IsPositive() {
		return &domain.StockNotEmptyError{Quantity: total}
	}
	if err := uc.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	uc.record(ctx, companyID, entity.AuditLocationDelete, actor, fmt.Sprintf("Localidade %q excluída", location.Name))
	return nil
}

func (uc *LocationUseCase) checkProject(ctx context.Context, companyID, projectID string) error {
	if projectID == "" || uc.projects == nil {
		return nil
	}
	p, err := uc.projects.GetByID(ctx, companyID, projectID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: projeto inexistente", domain.ErrNotFound)
	}
	return nil
}

func (uc *LocationUseCase) record(ctx context.Context, companyID, action string, actor inventory.Actor, details string) {
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

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:        l.ID,
		CompanyID: l.CompanyID,
		Name:      l.Name,
		Color:     l.Color,
		ProjectID: l.ProjectID,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
