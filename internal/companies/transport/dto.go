// Package transport defines the wire-level shapes for the companies module.
package transport

import (
	"time"

	"leadpilot_backend/internal/companies/repository"
)

// CreateCompanyRequest provisions a tenant and its first contractor login.
type CreateCompanyRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	Slug            string `json:"slug" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone"`
	ContractorName  string `json:"contractorName" validate:"required,max=200"`
	ContractorEmail string `json:"contractorEmail" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
}

// CompanyResponse is the admin view of a company.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

// BrandingResponse is the public intake-form view of a company. Contact
// details stay private.
type BrandingResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// FromCompany converts a company row to its admin response shape.
func FromCompany(company *repository.Company) CompanyResponse {
	return CompanyResponse{
		ID:        company.ID.String(),
		Name:      company.Name,
		Slug:      company.Slug,
		Email:     company.Email,
		Phone:     company.Phone,
		CreatedAt: company.CreatedAt,
	}
}
