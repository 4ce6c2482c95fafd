package entity

import "time"

// Location representa una localidad física donde se guarda stock (almoxarifado, obra, sala).
type Location struct {
	ID        string
	CompanyID string
	Name      string
	Color     string // color hex usado por el frontend
	ProjectID string // vacío si no está vinculada a un proyecto
	CreatedAt time.Time
	UpdatedAt time.Time
}
