package accountsdk

import "time"

// RegisterRequest is the payload for POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name,omitempty" validate:"max=100"`
}

// RegisterResponse confirms a created account.
type RegisterResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
	Email   string `json:"email"`
}

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public projection of a user. It never includes the
// password hash.
type UserResponse struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name,omitempty"`
	Role          string     `json:"role"`
	AvatarURL     string     `json:"avatar,omitempty"`
	EmailVerified *time.Time `json:"emailVerified,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// LoginResponse is returned by login and refresh. Tokens travel only in
// HttpOnly cookies, never in the body.
type LoginResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// MessageResponse is a generic acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ForgotPasswordRequest is the payload for POST /api/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the payload for POST /api/auth/reset-password.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UpdateProfileRequest is the payload for PATCH /api/users/profile. Nil
// fields are left unchanged.
type UpdateProfileRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,max=100"`
	AvatarURL *string `json:"avatar,omitempty" validate:"omitempty,url"`
	Password  *string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
}

// HealthChecks reports the status of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the livez and readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// UserListResponse is the paginated admin user listing.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Pages int            `json:"pages"`
}
