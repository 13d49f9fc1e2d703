package dto

import (
	"time"

	"github.com/videotube/backend/internal/model"
)

// UserResponse is the sanitized user projection. The password hash and the
// refresh token are structurally absent; no read path can leak them.
type UserResponse struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewUserResponse projects the model onto the outward shape. Password and
// refresh token have no field to land in.
func NewUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FullName:   user.FullName,
		Avatar:     user.Avatar,
		CoverImage: user.CoverImage,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// UpdateAccountRequest updates whichever fields are present; at least one is
// required, which the service checks after binding.
type UpdateAccountRequest struct {
	FullName string `json:"fullName" binding:"omitempty"`
	Email    string `json:"email" binding:"omitempty,email"`
}
