package entity

import "time"

// Supplier representa un proveedor (fornecedor) con datos de contacto.
type Supplier struct {
	ID              string
	CompanyID       string
	Name            string
	ContactName     string
	ContactWhatsApp string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
