package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementReportRequest filtros de GET /api/reports/movements.
type MovementReportRequest struct {
	From   string `query:"from"` // RFC3339 o YYYY-MM-DD
	To     string `query:"to"`
	Limit  int    `query:"limit" validate:"min=0,max=100"`
	Offset int    `query:"offset" validate:"min=0"`
}

// MovementReportResponse página del histórico con nombres resueltos.
type MovementReportResponse struct {
	Items []LedgerEntryResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// StockByLocationRow fila del relatório de stock por localidad.
type StockByLocationRow struct {
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Unit             string          `json:"unit"`
	ManufacturerName string          `json:"manufacturer_name,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
}

// StockByLocationResponse stock con cantidad > 0 en una localidad.
type StockByLocationResponse struct {
	LocationID   string               `json:"location_id"`
	LocationName string               `json:"location_name"`
	GeneratedAt  time.Time            `json:"generated_at"`
	Items        []StockByLocationRow `json:"items"`
}

// DashboardResponse respuesta de GET /api/dashboard.
type DashboardResponse struct {
	ProductCount    int64                 `json:"product_count"`
	LowStockCount   int                   `json:"low_stock_count"`
	CriticalCount   int                   `json:"critical_count"`
	LatestMovements []LedgerEntryResponse `json:"latest_movements"`
}

// AuditEventResponse un evento de auditoría.
type AuditEventResponse struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	UserID    string    `json:"user_id"`
	UserEmail string    `json:"user_email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditListResponse página de eventos de auditoría.
type AuditListResponse struct {
	Items []AuditEventResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
