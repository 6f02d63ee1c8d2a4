package dto

import "stockdesk/internal/domain"

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Message string             `json:"message"`
	User    domain.UserSummary `json:"user"`
}

// MessageResponse is the body every auth endpoint uses for plain outcomes
type MessageResponse struct {
	Message string `json:"message"`
}
