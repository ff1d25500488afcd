// Package transport defines the wire-level shapes for the auth module.
package transport

import (
	"time"

	"leadpilot_backend/internal/auth/service"
)

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

type AuthResponse struct {
	AccessToken string          `json:"accessToken"`
	User        ProfileResponse `json:"user"`
}

type ProfileResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	CompanyID   *string   `json:"companyId,omitempty"`
	CompanySlug *string   `json:"companySlug,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromProfile converts a service profile to its response shape.
func FromProfile(profile *service.Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:          profile.ID.String(),
		Email:       profile.Email,
		Name:        profile.Name,
		Role:        profile.Role,
		CompanySlug: profile.CompanySlug,
		CreatedAt:   profile.CreatedAt,
	}
	if profile.CompanyID != nil {
		id := profile.CompanyID.String()
		resp.CompanyID = &id
	}
	return resp
}
