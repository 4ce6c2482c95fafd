package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductDocumentDTO enlace a un documento del producto.
type ProductDocumentDTO struct {
	Name string `json:"name" validate:"required,max=200"`
	Link string `json:"link" validate:"required,url"`
}

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name           string               `json:"name" validate:"required,min=1,max=200"`
	Description    string               `json:"description"`
	PhotoURL       string               `json:"photo_url" validate:"omitempty,url"`
	SerialNumber   string               `json:"serial_number" validate:"max=100"`
	Unit           string               `json:"unit" validate:"max=20"`
	Model          string               `json:"model" validate:"max=100"`
	CategoryID     string               `json:"category_id"`
	ManufacturerID string               `json:"manufacturer_id"`
	SupplierID     string               `json:"supplier_id"`
	InternalNotes  string               `json:"internal_notes"`
	Documents      []ProductDocumentDTO `json:"documents" validate:"omitempty,max=50,dive"`
	MinimumStock   decimal.Decimal      `json:"minimum_stock"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
// Documents reemplaza la lista completa cuando viene presente.
type UpdateProductRequest struct {
	Name           *string               `json:"name" validate:"omitempty,min=1,max=200"`
	Description    *string               `json:"description"`
	PhotoURL       *string               `json:"photo_url" validate:"omitempty,url"`
	SerialNumber   *string               `json:"serial_number" validate:"omitempty,max=100"`
	Unit           *string               `json:"unit" validate:"omitempty,max=20"`
	Model          *string               `json:"model" validate:"omitempty,max=100"`
	CategoryID     *string               `json:"category_id"`
	ManufacturerID *string               `json:"manufacturer_id"`
	SupplierID     *string               `json:"supplier_id"`
	InternalNotes  *string               `json:"internal_notes"`
	Documents      *[]ProductDocumentDTO `json:"documents" validate:"omitempty,max=50,dive"`
	MinimumStock   *decimal.Decimal      `json:"minimum_stock"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string               `json:"id"`
	CompanyID      string               `json:"company_id"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	PhotoURL       string               `json:"photo_url,omitempty"`
	SerialNumber   string               `json:"serial_number,omitempty"`
	Unit           string               `json:"unit"`
	Model          string               `json:"model,omitempty"`
	CategoryID     string               `json:"category_id,omitempty"`
	ManufacturerID string               `json:"manufacturer_id,omitempty"`
	SupplierID     string               `json:"supplier_id,omitempty"`
	InternalNotes  string               `json:"internal_notes,omitempty"`
	Documents      []ProductDocumentDTO `json:"documents"`
	MinimumStock   decimal.Decimal      `json:"minimum_stock"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// ProductDetailResponse producto con su stock por localidad.
type ProductDetailResponse struct {
	ProductResponse
	Stock ProductStockResponse `json:"stock"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
