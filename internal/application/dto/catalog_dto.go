package dto

import "time"

// CatalogItemRequest entrada para crear o renombrar una categoría, fabricante o proyecto.
type CatalogItemRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// CatalogItemResponse salida de un ítem de catálogo.
type CatalogItemResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SupplierRequest entrada para crear o actualizar un proveedor.
type SupplierRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=200"`
	ContactName     string `json:"contact_name" validate:"max=200"`
	ContactWhatsApp string `json:"contact_whatsapp" validate:"max=30"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	ContactName     string    `json:"contact_name,omitempty"`
	ContactWhatsApp string    `json:"contact_whatsapp,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
