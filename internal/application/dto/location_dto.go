package dto

import "time"

// CreateLocationRequest entrada para crear una localidad.
type CreateLocationRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Color     string `json:"color" validate:"omitempty,hexcolor"`
	ProjectID string `json:"project_id"`
}

// UpdateLocationRequest entrada para actualizar una localidad.
type UpdateLocationRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	Color     *string `json:"color" validate:"omitempty,hexcolor"`
	ProjectID *string `json:"project_id"`
}

// LocationResponse salida de una localidad.
type LocationResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	ProjectID string    `json:"project_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
