package handlers

import (
	"errors"
	"fmt"
	"strings"

	"authapi/internal/config"
	"authapi/internal/logging"
	"authapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	log         logging.Logger
	loginField  string
	production  bool // suppress error details in production
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, cfg *config.Config, log logging.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		log:         log,
		loginField:  cfg.LoginField,
		production:  cfg.IsProduction(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
// authRequired gates the protected route; it must run before the handler.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Post("/register", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
	router.Get("/protected", authRequired, h.HandleProtected)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginRequest represents the request body for login. Which identifier field
// is consulted depends on the configured login field.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

// HandleRegister handles new user registration. The created user's public
// fields are returned; no token is issued (registration is not a login).
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return h.respondError(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	// Normalize before validation so length and syntax rules apply to what
	// will actually be stored.
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if details, ok := h.validateStruct(req); !ok {
		return h.respondError(c, fiber.StatusBadRequest, "Validation failed", details)
	}

	user, err := h.authService.Register(services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateUser) {
			return h.respondError(c, fiber.StatusBadRequest, "User already exists", nil)
		}
		h.log.Error("registration failed", "method", c.Method(), "path", c.Path(), "error", err)
		return h.respondError(c, fiber.StatusInternalServerError, "Internal server error", nil)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return h.respondError(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	details, ok := h.validateStruct(req)
	if !ok {
		return h.respondError(c, fiber.StatusBadRequest, "Validation failed", details)
	}

	identifier := req.Username
	if h.loginField == config.LoginFieldEmail {
		identifier = req.Email
	}
	if identifier == "" {
		return h.respondError(c, fiber.StatusBadRequest, "Validation failed",
			map[string]string{h.loginField: fmt.Sprintf("Field '%s' is required", h.loginField)})
	}

	token, err := h.authService.Login(identifier, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return h.respondError(c, fiber.StatusUnauthorized, "Invalid credentials", nil)
		}
		h.log.Error("login failed", "method", c.Method(), "path", c.Path(), "error", err)
		return h.respondError(c, fiber.StatusInternalServerError, "Internal server error", nil)
	}

	return c.JSON(fiber.Map{
		"token": token,
	})
}

// HandleProtected responds with the identity established by the auth gate.
func (h *AuthHandler) HandleProtected(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "This is a protected route",
		"user": fiber.Map{
			"id":       c.Locals("user_id"),
			"username": c.Locals("username"),
		},
	})
}

// validateStruct runs the validator and flattens failures into a
// field-to-message map.
func (h *AuthHandler) validateStruct(s interface{}) (map[string]string, bool) {
	if err := h.validate.Struct(s); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		details := make(map[string]string)
		for _, e := range validationErrors {
			details[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' rule", e.Field(), e.Tag())
		}
		return details, false
	}
	return nil, true
}

// respondError writes the uniform {error:{message,details?}} envelope.
// details are only exposed outside production.
func (h *AuthHandler) respondError(c *fiber.Ctx, status int, message string, details interface{}) error {
	body := fiber.Map{"message": message}
	if details != nil && !h.production {
		body["details"] = details
	}
	return c.Status(status).JSON(fiber.Map{"error": body})
}
