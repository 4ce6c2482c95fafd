package repository

import (
	"context"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// StockLevelRepository define el puerto para los niveles de stock por localidad.
// Solo el motor de movimentações y el guardián de exclusión escriben aquí.
type StockLevelRepository interface {
	// GetForUpdate bloquea la fila (product, location) dentro de la transacción.
	// Devuelve nil, nil si la fila no existe.
	GetForUpdate(ctx context.Context, companyID, productID, locationID string) (*entity.StockLevel, error)
	// LockByProduct bloquea todas las filas del producto.
	LockByProduct(ctx context.Context, companyID, productID string) ([]entity.StockLevel, error)
	// Save inserta (Version == 0) o actualiza comprobando la versión leída.
	// Un choque concurrente devuelve domain.ErrConcurrencyConflict. Incrementa Version.
	Save(ctx context.Context, level *entity.StockLevel) error
	ListByProduct(ctx context.Context, companyID, productID string) ([]entity.StockLevel, error)
	ListByCompany(ctx context.Context, companyID string) ([]entity.StockLevel, error)
	ListByLocation(ctx context.Context, companyID, locationID string) ([]entity.StockLevel, error)
	DeleteByProduct(ctx context.Context, companyID, productID string) (int64, error)
}
