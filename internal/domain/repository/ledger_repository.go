package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// LedgerFilter acota las consultas del histórico. Campos vacíos no filtran.
type LedgerFilter struct {
	CompanyID  string
	ProductID  string
	UserID     string
	LocationID string // coincide como origen o destino
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// LedgerRepository define el puerto del histórico de movimentações (append-only).
type LedgerRepository interface {
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	// List devuelve las entradas más recientes primero.
	List(ctx context.Context, filter LedgerFilter) ([]entity.LedgerEntry, error)
	Count(ctx context.Context, filter LedgerFilter) (int64, error)
	DeleteByProduct(ctx context.Context, companyID, productID string) (int64, error)
}
