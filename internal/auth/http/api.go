package http

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cardiag/workshop/internal/auth/domain"
)

// validate is shared by all handlers; validator instances are safe for
// concurrent use and cache struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

type LoginRequest struct {
	Email  string `json:"email"    validate:"required,email"`
	Secret string `json:"password" validate:"required"`
}

type CreateAccountRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Secret      string `json:"password"     validate:"required,min=6"`
	DisplayName string `json:"name"         validate:"required"`
	PhoneNumber string `json:"phone"        validate:"omitempty,e164"`
	AvatarURL   string `json:"avatar_url"   validate:"omitempty,url"`
	Role        string `json:"role"         validate:"required"`
	IsActive    *bool  `json:"is_active"    validate:"omitempty"`
}

type UpdateAccountRequest struct {
	Email       *string `json:"email"      validate:"omitempty,email"`
	DisplayName *string `json:"name"       validate:"omitempty,min=1"`
	PhoneNumber *string `json:"phone"      validate:"omitempty,e164"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,url"`
	Role        *string `json:"role"`
	IsActive    *bool   `json:"is_active"`
}

type ChangePasswordRequest struct {
	OldSecret string `json:"old_password" validate:"required"`
	NewSecret string `json:"new_password" validate:"required,min=6"`
}

type AccountResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"name"`
	PhoneNumber string     `json:"phone,omitempty"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type SessionResponse struct {
	Token   string          `json:"token,omitempty"`
	Account AccountResponse `json:"account"`
}

type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

type RoleResponse struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}

func toAccountResponse(a domain.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		PhoneNumber: a.PhoneNumber,
		AvatarURL:   a.AvatarURL,
		Role:        string(a.Role),
		IsActive:    a.IsActive,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
	}
}
