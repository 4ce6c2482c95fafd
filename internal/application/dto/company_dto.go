package dto

import "time"

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document,omitempty"`
	Email     string    `json:"email,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterCompanyResponse empresa creada junto con el token del master.
type RegisterCompanyResponse struct {
	Company CompanyResponse `json:"company"`
	Login   LoginResponse   `json:"login"`
}
