package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Estoque-api/internal/domain/entity"
	"github.com/jhoicas/Estoque-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo guarda la auditoría en la tabla audit_log.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

func (r *AuditRepo) Insert(ctx context.Context, e *entity.AuditEvent) error {
	query := `
		INSERT INTO audit_log (id, company_id, action, details, user_id, user_email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, e.ID, e.CompanyID, e.Action, e.Details, e.UserID, e.UserEmail, e.CreatedAt); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// List devuelve los eventos más recientes primero.
func (r *AuditRepo) List(ctx context.Context, companyID string, limit, offset int) ([]entity.AuditEvent, error) {
	query := `
		SELECT id::text, company_id::text, action, details, user_id, user_email, created_at
		FROM audit_log WHERE company_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()
	var list []entity.AuditEvent
	for rows.Next() {
		var e entity.AuditEvent
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.Action, &e.Details, &e.UserID, &e.UserEmail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
