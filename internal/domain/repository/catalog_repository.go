package repository

import (
	"context"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// CatalogRepository define el puerto para categorías, fabricantes y proyectos.
// El catálogo concreto se fija al construir el adaptador.
type CatalogRepository interface {
	Create(ctx context.Context, item *entity.CatalogItem) error
	GetByID(ctx context.Context, companyID, id string) (*entity.CatalogItem, error)
	Update(ctx context.Context, item *entity.CatalogItem) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.CatalogItem, error)
	Delete(ctx context.Context, companyID, id string) error
}

// SupplierRepository define el puerto para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Supplier, error)
	Delete(ctx context.Context, companyID, id string) error
}
