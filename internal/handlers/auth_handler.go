package handlers

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/mahfuz-7148/recipes-app/internal/middleware"
	"github.com/mahfuz-7148/recipes-app/internal/services"
)

// AuthHandler handles HTTP requests for signup, login and user profiles.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the account routes with the Fiber app. The auth
// middleware guards the profile photo route only.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/signup", h.HandleSignup)
	router.Post("/login", h.HandleLogin)
	router.Get("/user/:id", h.HandleGetUser)
	router.Put("/user/photo", auth, h.HandleUpdatePhoto)
}

// SignupRequest represents the multipart signup fields.
type SignupRequest struct {
	Name     string `validate:"omitempty,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// HandleSignup handles new user registration from a multipart form with an
// optional profile photo.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	req := SignupRequest{
		Name:     c.FormValue("name"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	photo, contentType, err := readImageFile(c, "photo", maxProfilePhotoSize)
	if err != nil {
		return respondError(c, "Invalid profile photo", err)
	}

	token, user, err := h.authService.Register(c.Context(), services.RegisterInput{
		Name:             req.Name,
		Email:            req.Email,
		Password:         req.Password,
		Photo:            photo,
		PhotoContentType: contentType,
	})
	if err != nil {
		log.Printf("Error registering user: %v", err)
		return respondError(c, "Registration failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "signup successful",
		"data": fiber.Map{
			"token": token,
			"user":  user,
		},
	})
}

// LoginRequest represents the JSON request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	token, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return respondError(c, "Authentication failed", err)
	}

	return c.JSON(fiber.Map{
		"message": "login successful",
		"data": fiber.Map{
			"token": token,
			"user":  user,
		},
	})
}

// HandleGetUser returns the public profile for a user id.
func (h *AuthHandler) HandleGetUser(c *fiber.Ctx) error {
	userID := c.Params("id")
	user, err := h.authService.GetUser(userID)
	if err != nil {
		log.Printf("Error getting user %s: %v", userID, err)
		return respondError(c, "Could not retrieve user", err)
	}

	return c.JSON(fiber.Map{
		"message": "user fetched successfully",
		"data":    user,
	})
}

// HandleUpdatePhoto replaces the authenticated user's profile photo.
func (h *AuthHandler) HandleUpdatePhoto(c *fiber.Ctx) error {
	photo, contentType, err := readImageFile(c, "photo", maxProfilePhotoSize)
	if err != nil {
		return respondError(c, "Invalid profile photo", err)
	}
	if len(photo) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "a photo file is required",
		})
	}

	user, err := h.authService.UpdateProfilePhoto(c.Context(), middleware.UserID(c), photo, contentType)
	if err != nil {
		log.Printf("Error updating profile photo: %v", err)
		return respondError(c, "Could not update profile photo", err)
	}

	return c.JSON(fiber.Map{
		"message": "profile photo updated successfully",
		"data":    user,
	})
}
