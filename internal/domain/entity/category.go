package entity

import "time"

// Tablas de catálogos simples (nombre único por empresa).
const (
	CatalogCategories    = "categories"
	CatalogManufacturers = "manufacturers"
	CatalogProjects      = "projects"
)

// CatalogItem representa una categoría, un fabricante o un proyecto.
// Las tres comparten forma; Catalog indica a cuál pertenece.
type CatalogItem struct {
	ID        string
	CompanyID string
	Catalog   string // ver constantes Catalog*
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsValidCatalog indica si el nombre corresponde a un catálogo soportado.
func IsValidCatalog(name string) bool {
	switch name {
	case CatalogCategories, CatalogManufacturers, CatalogProjects:
		return true
	}
	return false
}
