package handlers

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/mahfuz-7148/recipes-app/internal/models"
)

// Maximum accepted upload sizes.
const (
	maxProfilePhotoSize = 5 << 20  // 5MB
	maxRecipeImageSize  = 10 << 20 // 10MB
)

// allowedImageTypes restricts uploads to common web image formats.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// statusForError maps service errors onto the normalized HTTP taxonomy.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrEmailExists):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, models.ErrNotOwner):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the failure envelope. Internal errors get a generic
// detail so store or host internals never reach clients.
func respondError(c *fiber.Ctx, message string, err error) error {
	status := statusForError(err)
	detail := err.Error()
	if status == fiber.StatusInternalServerError {
		detail = "internal server error"
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   detail,
	})
}

// readImageFile reads an uploaded image from the named multipart field.
// A missing field returns nil data and no error; size and mime-type
// violations return a validation error.
func readImageFile(c *fiber.Ctx, field string, maxSize int64) ([]byte, string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		// Field absent from the form.
		return nil, "", nil
	}

	if fileHeader.Size > maxSize {
		return nil, "", fmt.Errorf("%w: %s exceeds the %dMB limit", models.ErrValidation, field, maxSize>>20)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return nil, "", fmt.Errorf("%w: %s must be a jpeg, png, gif or webp image", models.ErrValidation, field)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open uploaded %s: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read uploaded %s: %w", field, err)
	}
	return data, contentType, nil
}
