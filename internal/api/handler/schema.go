package handler

import (
	"time"

	"github.com/vidvault/video-vault/internal/core/domain"
	"github.com/vidvault/video-vault/internal/core/ports"
)

// --- Auth ---

// loginRequest carries the single opaque secret. The client never declares
// whether it is an access code or a password; the server decides.
type loginRequest struct {
	Secret string `json:"secret" validate:"required"`
}

type loginResponse struct {
	Token              string       `json:"token"`
	User               *domain.User `json:"user"`
	MustChangePassword bool         `json:"must_change_password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"required"`
}

type passwordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type passwordResetConfirmRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Token       string `json:"token"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Admin: users ---

type createUserRequest struct {
	Email                     string `json:"email" validate:"omitempty,email"`
	Name                      string `json:"name"`
	Role                      string `json:"role"  validate:"required,oneof=USER ADMIN"`
	Password                  string `json:"password"`
	GenerateTemporaryPassword bool   `json:"generate_temporary_password"`
}

type updateUserRequest struct {
	Email *string `json:"email" validate:"omitempty,email"`
	Name  *string `json:"name"`
	Role  *string `json:"role"  validate:"omitempty,oneof=USER ADMIN"`
}

type setPasswordRequest struct {
	Password           string `json:"password"`
	GenerateTemporary  bool   `json:"generate_temporary"`
	MustChangePassword bool   `json:"must_change_password"`
}

// setPasswordResponse surfaces a generated temporary password exactly once;
// it is never persisted in plaintext or retrievable again.
type setPasswordResponse struct {
	User              *domain.User `json:"user"`
	TemporaryPassword string       `json:"temporary_password,omitempty"`
}

type deleteUserResponse struct {
	Message string                `json:"message"`
	Deleted ports.DeletionSummary `json:"deleted"`
}

// --- Admin: access codes ---

type createAccessCodeRequest struct {
	Code        string     `json:"code"        validate:"required,min=4"`
	Type        string     `json:"type"        validate:"required,oneof=USER ADMIN"`
	Description string     `json:"description"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// --- Videos ---

type updateVideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsPublished *bool   `json:"is_published"`
}

type playbackURLResponse struct {
	URL string `json:"url"`
}
