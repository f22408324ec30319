package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/mahfuz-7148/recipes-app/internal/models"
	"github.com/mahfuz-7148/recipes-app/internal/services"
	"github.com/mahfuz-7148/recipes-app/pkg/imagestore"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// fakeImageStore is an in-memory imagestore.Store recording uploads and deletes.
type fakeImageStore struct {
	mu         sync.Mutex
	uploads    int
	deleted    []string
	failUpload bool
	failDelete bool
}

func (f *fakeImageStore) Upload(_ context.Context, data []byte, _, folder string) (*imagestore.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpload {
		return nil, errors.New("image host unavailable")
	}
	if len(data) == 0 {
		return nil, errors.New("empty image buffer")
	}
	f.uploads++
	handle := fmt.Sprintf("%s/img-%d", folder, f.uploads)
	return &imagestore.UploadResult{
		URL:    "http://images.local/" + handle,
		Handle: handle,
	}, nil
}

func (f *fakeImageStore) Delete(_ context.Context, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errors.New("image host unavailable")
	}
	f.deleted = append(f.deleted, handle)
	return nil
}

func (f *fakeImageStore) deletedHandles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

const testJWTSecret = "test_jwt_secret"

func notFoundErr(email string) error {
	return fmt.Errorf("user with email %s: %w", email, models.ErrNotFound)
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	images := &fakeImageStore{}
	authService := services.NewAuthService(mockRepo, images, testJWTSecret)

	mockRepo.On("GetByEmail", "test@example.com").Return(nil, notFoundErr("test@example.com")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	token, user, err := authService.Register(context.Background(), services.RegisterInput{
		Name:     "Test User",
		Email:    "Test@Example.com",
		Password: "Secret1!",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "test@example.com", user.Email)
	// The stored password is a hash of the submitted one
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Secret1!")))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, &fakeImageStore{}, testJWTSecret)

	// Lookup happens on the lowercased email regardless of submitted casing.
	mockRepo.On("GetByEmail", "taken@example.com").Return(&models.User{ID: "user-1"}, nil).Once()

	_, _, err := authService.Register(context.Background(), services.RegisterInput{
		Email:    "TAKEN@Example.com",
		Password: "Secret1!",
	})
	assert.Error(t, err)
	assert.ErrorIs(t, err, models.ErrEmailExists)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_RegisterPasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"too short", "Ab1!"},
		{"no uppercase", "secret1!"},
		{"no digit", "Secrets!"},
		{"no special character", "Secret12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			authService := services.NewAuthService(mockRepo, &fakeImageStore{}, testJWTSecret)

			_, _, err := authService.Register(context.Background(), services.RegisterInput{
				Email:    "new@example.com",
				Password: tt.password,
			})
			assert.Error(t, err)
			assert.ErrorIs(t, err, models.ErrValidation)
			// Nothing persisted for a rejected password
			mockRepo.AssertNotCalled(t, "Create", mock.Anything)
		})
	}
}

func TestAuthService_RegisterWithPhoto(t *testing.T) {
	mockRepo := new(MockUserRepository)
	images := &fakeImageStore{}
	authService := services.NewAuthService(mockRepo, images, testJWTSecret)

	mockRepo.On("GetByEmail", "pic@example.com").Return(nil, notFoundErr("pic@example.com")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	_, user, err := authService.Register(context.Background(), services.RegisterInput{
		Email:            "pic@example.com",
		Password:         "Secret1!",
		Photo:            []byte("fake-image-bytes"),
		PhotoContentType: "image/png",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ProfilePhotoURL)
	assert.NotEmpty(t, user.ProfilePhotoID)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterCompensatesPhotoOnStoreFailure(t *testing.T) {
	mockRepo := new(MockUserRepository)
	images := &fakeImageStore{}
	authService := services.NewAuthService(mockRepo, images, testJWTSecret)

	mockRepo.On("GetByEmail", "pic@example.com").Return(nil, notFoundErr("pic@example.com")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(errors.New("store unreachable")).Once()

	_, _, err := authService.Register(context.Background(), services.RegisterInput{
		Email:            "pic@example.com",
		Password:         "Secret1!",
		Photo:            []byte("fake-image-bytes"),
		PhotoContentType: "image/png",
	})
	assert.Error(t, err)
	// The uploaded photo was removed so it is not orphaned
	assert.Equal(t, []string{"profiles/img-1"}, images.deletedHandles())
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, &fakeImageStore{}, testJWTSecret)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Secret1!"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "user-123",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	// Successful login
	mockRepo.On("GetByEmail", "test@example.com").Return(user, nil).Once()
	token, loggedIn, err := authService.Login("test@example.com", "Secret1!")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["id"])
	assert.Equal(t, user.Email, claims["email"])
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByEmail", "test@example.com").Return(user, nil).Once()
	token, _, err = authService.Login("test@example.com", "wrongpassword")
	assert.Error(t, err)
	assert.Empty(t, token)
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	// Unknown email yields the same error as a wrong password
	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, notFoundErr("nobody@example.com")).Once()
	_, _, unknownErr := authService.Login("nobody@example.com", "Secret1!")
	assert.ErrorIs(t, unknownErr, models.ErrInvalidCredentials)
	assert.Equal(t, err.Error(), unknownErr.Error())
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), &fakeImageStore{}, testJWTSecret)

	// Valid token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    "user-123",
		"email": "test@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	claims, err := authService.ValidateToken(validTokenString)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["id"])
	assert.Equal(t, "test@example.com", claims["email"])

	// Malformed token
	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)

	// Expired token
	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    "user-123",
		"email": "test@example.com",
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	assert.Error(t, err)

	// Token signed with another secret
	foreignToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	foreignTokenString, _ := foreignToken.SignedString([]byte("another_secret"))
	_, err = authService.ValidateToken(foreignTokenString)
	assert.Error(t, err)
}

func TestAuthService_UpdateProfilePhoto(t *testing.T) {
	mockRepo := new(MockUserRepository)
	images := &fakeImageStore{}
	authService := services.NewAuthService(mockRepo, images, testJWTSecret)

	user := &models.User{
		ID:              "user-123",
		Email:           "test@example.com",
		ProfilePhotoURL: "http://images.local/profiles/old",
		ProfilePhotoID:  "profiles/old",
	}
	mockRepo.On("GetByID", "user-123").Return(user, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once()

	updated, err := authService.UpdateProfilePhoto(context.Background(), "user-123", []byte("new-bytes"), "image/jpeg")
	assert.NoError(t, err)
	assert.Equal(t, "profiles/img-1", updated.ProfilePhotoID)
	// Previous hosted photo removed best-effort after the record was saved
	assert.Equal(t, []string{"profiles/old"}, images.deletedHandles())
	mockRepo.AssertExpectations(t)
}

func TestUserJSONNeverLeaksPassword(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Secret1!"), bcrypt.DefaultCost)
	user := models.User{
		ID:             "user-123",
		Name:           "Test User",
		Email:          "test@example.com",
		Password:       string(hashedPassword),
		ProfilePhotoID: "profiles/img-1",
	}

	data, err := json.Marshal(user)
	assert.NoError(t, err)
	assert.NotContains(t, string(data), "password")
	assert.NotContains(t, string(data), string(hashedPassword))
	assert.NotContains(t, string(data), "profiles/img-1")
}
