package repository

import (
	"context"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
)

// AuditRepository persiste eventos de auditoría (Postgres o MongoDB).
type AuditRepository interface {
	Insert(ctx context.Context, event *entity.AuditEvent) error
	// List devuelve los eventos más recientes primero.
	List(ctx context.Context, companyID string, limit, offset int) ([]entity.AuditEvent, error)
}
