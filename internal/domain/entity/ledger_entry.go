package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind es el tipo de movimentação.
type MovementKind string

const (
	MovementEntrada       MovementKind = "ENTRADA"
	MovementSaida         MovementKind = "SAIDA"
	MovementTransferencia MovementKind = "TRANSFERENCIA"
)

// IsValid indica si el tipo es uno de los tres soportados.
func (k MovementKind) IsValid() bool {
	switch k {
	case MovementEntrada, MovementSaida, MovementTransferencia:
		return true
	}
	return false
}

// LedgerEntry es el registro histórico inmutable de una movimentação.
// SourceLocationID vacío = origen externo; DestinationLocationID vacío = destino externo.
type LedgerEntry struct {
	ID                    string
	CompanyID             string
	ProductID             string
	Kind                  MovementKind
	Quantity              decimal.Decimal
	SourceLocationID      string
	DestinationLocationID string
	UserID                string
	UserEmail             string
	CreatedAt             time.Time
}
