package http

import (
	"time"

	"github.com/yennietran/AIDD-Final-Project/internal/user"
)

// RegisterBody deliberately has no role field: every registration creates a
// student, and only admins can promote accounts afterwards.
type RegisterBody struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	Department string `json:"department"`
}

type LoginBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SuspendBody struct {
	Suspended *bool `json:"suspended" binding:"required"`
}

type RoleBody struct {
	Role string `json:"role" binding:"required,oneof=student staff admin"`
}

type UserResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Department  *string    `json:"department,omitempty"`
	IsSuspended bool       `json:"is_suspended"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		Department:  u.Department,
		IsSuspended: u.IsSuspended,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}
