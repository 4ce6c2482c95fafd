package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductDocument es un enlace a un documento externo (manual, ficha técnica).
type ProductDocument struct {
	Name string `json:"nome"`
	Link string `json:"link"`
}

// Product representa un ítem del catálogo. El stock vive en StockLevel, por localidad.
type Product struct {
	ID             string
	CompanyID      string
	Name           string
	Description    string
	PhotoURL       string
	SerialNumber   string
	Unit           string // unidad de medida mostrada al usuario (un, cx, m)
	Model          string
	CategoryID     string // vacío = sin categoría
	ManufacturerID string
	SupplierID     string
	InternalNotes  string
	Documents      []ProductDocument
	MinimumStock   decimal.Decimal // estoqueMinimo; cero desactiva la alerta
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
