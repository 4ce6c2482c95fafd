package repository

import (
	"context"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Product, error)
	// GetForUpdate bloquea el producto en exclusiva dentro de la tx (guardián de exclusión).
	// nil, nil si no existe.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error)
	// GetForShare bloquea el producto contra el borrado dentro de la tx (motor de movimentações).
	// nil, nil si no existe.
	GetForShare(ctx context.Context, companyID, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error)
	CountByCompany(ctx context.Context, companyID string) (int64, error)
	// Delete elimina solo la fila del producto; el borrado en cascada lo orquesta el caso de uso.
	Delete(ctx context.Context, companyID, id string) error
}
