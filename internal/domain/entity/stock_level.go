package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel es la cantidad de un producto en una localidad.
// Existe a lo sumo una fila por (ProductID, LocationID); Quantity nunca es negativa.
// Version se incrementa en cada escritura (concurrencia optimista).
type StockLevel struct {
	CompanyID  string
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal
	Version    int64
	UpdatedAt  time.Time
}

// IsNew indica que la fila aún no existe en almacenamiento.
func (s *StockLevel) IsNew() bool { return s.Version == 0 }
