package authValidator

import (
	"coachhub/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func Login() fiber.Handler {
	return validators.Body[LoginRequest]("validatedLogin")
}

func ChangePassword() fiber.Handler {
	return validators.Body[ChangePasswordRequest]("validatedPassword")
}
