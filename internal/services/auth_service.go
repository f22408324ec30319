package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/mahfuz-7148/recipes-app/internal/models"
	"github.com/mahfuz-7148/recipes-app/internal/repositories"
	"github.com/mahfuz-7148/recipes-app/pkg/imagestore"
)

const profilePhotoFolder = "profiles"

// AuthService handles business logic for accounts and authentication.
type AuthService struct {
	userRepo   repositories.UserRepository
	images     imagestore.Store
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, images imagestore.Store, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		images:     images,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 7 * 24 * time.Hour, // Token valid for 7 days
	}
}

// RegisterInput carries a signup request into the service.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	// Optional profile photo; empty Photo means none was submitted.
	Photo            []byte
	PhotoContentType string
}

// Register validates the password policy, checks email uniqueness, hashes
// the password and persists the user, uploading the optional profile photo
// first. Returns the signed token and the stored user.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, *models.User, error) {
	if err := checkPasswordPolicy(in.Password); err != nil {
		return "", nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return "", nil, fmt.Errorf("%w: %s", models.ErrEmailExists, email)
	} else if err != nil && !errors.Is(err, models.ErrNotFound) {
		return "", nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: string(hashedPassword),
	}

	if len(in.Photo) > 0 {
		uploaded, err := s.images.Upload(ctx, in.Photo, in.PhotoContentType, profilePhotoFolder)
		if err != nil {
			return "", nil, fmt.Errorf("failed to upload profile photo: %w", err)
		}
		user.ProfilePhotoURL = uploaded.URL
		user.ProfilePhotoID = uploaded.Handle
	}

	if err := s.userRepo.Create(user); err != nil {
		// The photo is already hosted; remove it so it is not orphaned.
		s.deleteImage(ctx, user.ProfilePhotoID)
		return "", nil, fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login authenticates a user and returns a JWT token plus the user record.
// Unknown email and wrong password produce the same error so callers cannot
// enumerate accounts.
func (s *AuthService) Login(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, models.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GetUser returns the stored user for id. Sensitive fields are excluded by
// the model's JSON tags.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// UpdateProfilePhoto replaces the user's hosted profile photo. The new photo
// is uploaded first; the previous one is removed best-effort after the record
// is persisted.
func (s *AuthService) UpdateProfilePhoto(ctx context.Context, userID string, photo []byte, contentType string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	uploaded, err := s.images.Upload(ctx, photo, contentType, profilePhotoFolder)
	if err != nil {
		return nil, fmt.Errorf("failed to upload profile photo: %w", err)
	}

	oldHandle := user.ProfilePhotoID
	user.ProfilePhotoURL = uploaded.URL
	user.ProfilePhotoID = uploaded.Handle

	if err := s.userRepo.Update(user); err != nil {
		s.deleteImage(ctx, uploaded.Handle)
		return nil, fmt.Errorf("failed to update profile photo: %w", err)
	}

	s.deleteImage(ctx, oldHandle)
	return user, nil
}

// issueToken produces a signed token embedding the user's email and id.
func (s *AuthService) issueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": user.Email,
		"id":    user.ID,
		"exp":   time.Now().Add(s.tokenDurat).Unix(),
		"iat":   time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
// Expired, malformed and not-yet-valid tokens all surface the same way.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// deleteImage removes a hosted image best-effort; failures are only logged.
func (s *AuthService) deleteImage(ctx context.Context, handle string) {
	if handle == "" {
		return
	}
	if err := s.images.Delete(ctx, handle); err != nil {
		log.Printf("Warning: failed to delete hosted image %s: %v", handle, err)
	}
}

// specialRunes matches the password policy of the signup form.
const specialRunes = `!@#$%^&*(),.?":{}|<>`

// checkPasswordPolicy enforces minimum length 6 with at least one uppercase
// letter, one digit and one special character.
func checkPasswordPolicy(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", models.ErrValidation)
	}
	var hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialRunes, r):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasDigit || !hasSpecial {
		return fmt.Errorf("%w: password must contain at least one uppercase letter, one number, and one special character", models.ErrValidation)
	}
	return nil
}
