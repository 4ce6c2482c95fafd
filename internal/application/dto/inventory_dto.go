package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/stock/movements.
// Las reglas por tipo (origen/destino) se validan en el dominio.
type RegisterMovementRequest struct {
	ProductID             string          `json:"product_id" validate:"required"`
	Type                  string          `json:"type"` // ENTRADA, SAIDA, TRANSFERENCIA
	Quantity              decimal.Decimal `json:"quantity"`
	SourceLocationID      string          `json:"source_location_id,omitempty"`
	DestinationLocationID string          `json:"destination_location_id,omitempty"`
}

// StockLevelResponse cantidad de un producto en una localidad.
type StockLevelResponse struct {
	ProductID    string          `json:"product_id"`
	LocationID   string          `json:"location_id"`
	LocationName string          `json:"location_name,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// LedgerEntryResponse una entrada del histórico.
type LedgerEntryResponse struct {
	ID                    string          `json:"id"`
	ProductID             string          `json:"product_id"`
	ProductName           string          `json:"product_name,omitempty"`
	Type                  string          `json:"type"`
	Quantity              decimal.Decimal `json:"quantity"`
	SourceLocationID      string          `json:"source_location_id,omitempty"`
	SourceLocationName    string          `json:"source_location_name,omitempty"`
	DestinationLocationID string          `json:"destination_location_id,omitempty"`
	DestinationName       string          `json:"destination_location_name,omitempty"`
	UserID                string          `json:"user_id"`
	UserEmail             string          `json:"user_email,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
}

// MovementResponse resultado de una movimentação confirmada.
type MovementResponse struct {
	Entry  LedgerEntryResponse  `json:"entry"`
	Levels []StockLevelResponse `json:"levels"`
}

// ProductStockResponse stock de un producto por localidad, con total y salud.
type ProductStockResponse struct {
	ProductID    string               `json:"product_id"`
	ProductName  string               `json:"product_name"`
	Unit         string               `json:"unit"`
	MinimumStock decimal.Decimal      `json:"minimum_stock"`
	Total        decimal.Decimal      `json:"total"`
	Health       string               `json:"health"` // healthy, near_minimum, critical
	Levels       []StockLevelResponse `json:"levels"`
}

// StockSummaryResponse resumen agregado de un producto (dashboard, estoque baixo).
type StockSummaryResponse struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Unit         string          `json:"unit"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
	Total        decimal.Decimal `json:"total"`
	Deficit      decimal.Decimal `json:"deficit"`
	Health       string          `json:"health"`
}
