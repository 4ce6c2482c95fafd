package inventory

import (
	"context"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error hace Rollback; si no, Commit. Conflictos de concurrencia
// (incluidos los del Commit) se devuelven como domain.ErrConcurrencyConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		levelRepo repository.StockLevelRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error
}

// AuditRecorder recibe eventos de auditoría sin bloquear ni fallar al llamador.
type AuditRecorder interface {
	Record(ctx context.Context, event entity.AuditEvent)
}

// MovementObserver recibe métricas del motor (implementado por pkg/metrics).
type MovementObserver interface {
	ObserveMovement(kind, outcome string)
	IncConflictRetry(operation string)
}

// Actor identifica al usuario autenticado que ejecuta la operación.
type Actor struct {
	UserID string
	Email  string
}
