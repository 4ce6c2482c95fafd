package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/Estoque-api/internal/application/dto"
	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP al motor y devuelve la respuesta lista para serializar.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, companyID string, actor Actor, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	res, err := uc.RegisterMovement(ctx, MovementInput{
		CompanyID:             companyID,
		UserID:                actor.UserID,
		UserEmail:             actor.Email,
		ProductID:             in.ProductID,
		Kind:                  entity.MovementKind(strings.ToUpper(strings.TrimSpace(in.Type))),
		Quantity:              in.Quantity,
		SourceLocationID:      strings.TrimSpace(in.SourceLocationID),
		DestinationLocationID: strings.TrimSpace(in.DestinationLocationID),
	})
	if err != nil {
		return nil, err
	}
	out := &dto.MovementResponse{
		Entry:  ToLedgerEntryResponse(res.Entry),
		Levels: make([]dto.StockLevelResponse, 0, len(res.Levels)),
	}
	for _, l := range res.Levels {
		out.Levels = append(out.Levels, ToStockLevelResponse(l))
	}
	return out, nil
}

// ToLedgerEntryResponse convierte una entrada del histórico a DTO.
func ToLedgerEntryResponse(e entity.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:                    e.ID,
		ProductID:             e.ProductID,
		Type:                  string(e.Kind),
		Quantity:              e.Quantity,
		SourceLocationID:      e.SourceLocationID,
		DestinationLocationID: e.DestinationLocationID,
		UserID:                e.UserID,
		UserEmail:             e.UserEmail,
		CreatedAt:             e.CreatedAt,
	}
}

// ToStockLevelResponse convierte un nivel de stock a DTO.
func ToStockLevelResponse(l entity.StockLevel) dto.StockLevelResponse {
	return dto.StockLevelResponse{
		ProductID:  l.ProductID,
		LocationID: l.LocationID,
		Quantity:   l.Quantity,
		UpdatedAt:  l.UpdatedAt,
	}
}
