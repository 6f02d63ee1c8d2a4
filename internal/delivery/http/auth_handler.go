package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"stockdesk/internal/delivery/http/dto"
	"stockdesk/internal/domain"
	"stockdesk/pkg/logger"
)

// AuthHandler handles authentication-related requests.
// Every auth response carries a {"message": ...} body.
type AuthHandler struct {
	authService domain.AuthService
	log         *logger.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService domain.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log.Named("auth_handler"),
	}
}

// Signup handles user registration
// POST /api/auth/signup
func (h *AuthHandler) Signup(c echo.Context) error {
	var req dto.SignupRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "All fields are required")
	}

	_, err := h.authService.Signup(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return h.authError(c, err)
	}

	return message(c, http.StatusCreated, "User created successfully")
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "Email and password are required")
	}

	user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.authError(c, err)
	}

	return c.JSON(http.StatusOK, dto.LoginResponse{
		Message: "Login successful",
		User:    user.Summary(),
	})
}

// Logout handles user logout. Sessions live on the client, so there is nothing to clear.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	return message(c, http.StatusOK, "Logged out")
}

func (h *AuthHandler) authError(c echo.Context, err error) error {
	var validationErr *domain.ValidationError

	switch {
	case errors.As(err, &validationErr):
		return message(c, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, domain.ErrEmailTaken):
		return message(c, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return message(c, http.StatusBadRequest, "Invalid email or password")
	default:
		h.log.Error("Auth request failed", requestFields(c, err)...)
		return message(c, http.StatusInternalServerError, "Internal server error")
	}
}

func message(c echo.Context, status int, msg string) error {
	return c.JSON(status, dto.MessageResponse{Message: msg})
}
