package dto

import "PROFILES_BACK-END/internal/models"

// ProfileCreateRequest documents the POST body. Any additional field is
// stored on the profile as sent.
type ProfileCreateRequest struct {
	FirstName string `json:"firstname" example:"Ada"`
	LastName  string `json:"lastname" example:"Lovelace"`
	Email     string `json:"email" example:"ada@example.com"`
}

// ProfileUpdateRequest documents the PUT body; every field is optional and
// unknown fields are merged in as sent.
type ProfileUpdateRequest struct {
	FirstName *string `json:"firstname,omitempty"`
	LastName  *string `json:"lastname,omitempty" example:"Updated"`
	Email     *string `json:"email,omitempty"`
}

// ProfileResponse wraps a single profile
type ProfileResponse struct {
	Success bool           `json:"success" example:"true"`
	Data    models.Profile `json:"data"`
}

// ProfileListResponse wraps the whole collection
type ProfileListResponse struct {
	Success bool             `json:"success" example:"true"`
	Data    []models.Profile `json:"data"`
}

// MessageResponse is returned by operations without a payload
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Profile deleted successfully"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"Profile not found"`
}
