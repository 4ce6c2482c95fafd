package entity

import "time"

// Company representa una organización/tenant del sistema.
// Todo dato de inventario pertenece exactamente a una Company.
type Company struct {
	ID        string
	Name      string
	Document  string // CNPJ u otro identificador fiscal, opcional
	Email     string
	Status    string // active, suspended
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	CompanyStatusActive    = "active"
	CompanyStatusSuspended = "suspended"
)
