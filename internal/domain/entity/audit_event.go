package entity

import "time"

// Acciones de auditoría registradas por el sistema.
const (
	AuditStockMovement  = "MOVIMENTACAO_ESTOQUE"
	AuditProductCreate  = "CRIACAO_PRODUTO"
	AuditProductUpdate  = "EDICAO_PRODUTO"
	AuditProductDelete  = "EXCLUSAO_PRODUTO"
	AuditLocationCreate = "CRIACAO_LOCALIDADE"
	AuditLocationUpdate = "EDICAO_LOCALIDADE"
	AuditLocationDelete = "EXCLUSAO_LOCALIDADE"
	AuditCatalogCreate  = "CRIACAO_CADASTRO"
	AuditCatalogDelete  = "EXCLUSAO_CADASTRO"
	AuditUserCreate     = "CRIACAO_USUARIO"
)

// AuditEvent es un registro append-only de una acción relevante.
type AuditEvent struct {
	ID        string
	CompanyID string
	Action    string
	Details   string
	UserID    string
	UserEmail string
	CreatedAt time.Time
}
