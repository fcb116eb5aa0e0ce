package request

type RegisterRequest struct {
	FullName string  `json:"full_name" validate:"required,min=1,max=120"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=120"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}
