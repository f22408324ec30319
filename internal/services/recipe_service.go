package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mahfuz-7148/recipes-app/internal/models"
	"github.com/mahfuz-7148/recipes-app/internal/repositories"
	"github.com/mahfuz-7148/recipes-app/pkg/imagestore"
	"github.com/mahfuz-7148/recipes-app/pkg/rabbitmq"
)

const recipeImageFolder = "recipes"

// RecipeService handles business logic related to recipes, coordinating the
// store with the image host and best-effort event publishing.
type RecipeService struct {
	recipeRepo repositories.RecipeRepository
	images     imagestore.Store
	mqClient   *rabbitmq.Client
}

// NewRecipeService creates a new RecipeService. mqClient may be nil, in which
// case event publication is skipped.
func NewRecipeService(recipeRepo repositories.RecipeRepository, images imagestore.Store, mqClient *rabbitmq.Client) *RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		images:     images,
		mqClient:   mqClient,
	}
}

// GetAllRecipes retrieves all recipes, newest first.
func (s *RecipeService) GetAllRecipes() ([]models.Recipe, error) {
	return s.recipeRepo.GetAll()
}

// GetRecipeByID retrieves a single recipe by its ID.
func (s *RecipeService) GetRecipeByID(id string) (*models.Recipe, error) {
	return s.recipeRepo.GetByID(id)
}

// CreateRecipeInput carries a recipe submission into the service.
type CreateRecipeInput struct {
	UserID           string
	Title            string
	Time             string
	Ingredients      []string
	Instructions     string
	Image            []byte
	ImageContentType string
}

// CreateRecipe validates the submission, uploads the cover image and persists
// the recipe owned by the caller. If the record write fails after the upload,
// the uploaded image is removed so it is not orphaned.
func (s *RecipeService) CreateRecipe(ctx context.Context, in CreateRecipeInput) (*models.Recipe, error) {
	if in.Title == "" || in.Instructions == "" || len(in.Ingredients) == 0 {
		return nil, fmt.Errorf("%w: title, ingredients and instructions are required", models.ErrValidation)
	}
	if len(in.Image) == 0 {
		return nil, fmt.Errorf("%w: a cover image is required", models.ErrValidation)
	}

	uploaded, err := s.images.Upload(ctx, in.Image, in.ImageContentType, recipeImageFolder)
	if err != nil {
		return nil, fmt.Errorf("failed to upload cover image: %w", err)
	}

	recipe := &models.Recipe{
		Title:         in.Title,
		Time:          in.Time,
		Ingredients:   in.Ingredients,
		Instructions:  in.Instructions,
		CoverImageURL: uploaded.URL,
		CoverImageID:  uploaded.Handle,
		CreatedBy:     in.UserID,
	}

	if err := s.recipeRepo.Create(recipe); err != nil {
		s.deleteImage(ctx, uploaded.Handle)
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	s.publishEvent("recipe.created", recipe)
	return recipe, nil
}

// UpdateRecipeInput carries a partial recipe update. Nil fields keep the
// stored value.
type UpdateRecipeInput struct {
	Title            *string
	Time             *string
	Ingredients      []string
	Instructions     *string
	Image            []byte
	ImageContentType string
}

// UpdateRecipe merges the supplied fields into the stored recipe. Only the
// owner may update. A new image replaces the hosted one: the new upload is
// persisted first and the previous image removed best-effort afterwards.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id, userID string, in UpdateRecipeInput) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if recipe.CreatedBy != userID {
		return nil, fmt.Errorf("%w: recipe %s belongs to another user", models.ErrNotOwner, id)
	}

	if in.Title != nil {
		recipe.Title = *in.Title
	}
	if in.Time != nil {
		recipe.Time = *in.Time
	}
	if in.Ingredients != nil {
		recipe.Ingredients = in.Ingredients
	}
	if in.Instructions != nil {
		recipe.Instructions = *in.Instructions
	}
	if recipe.Title == "" || recipe.Instructions == "" || len(recipe.Ingredients) == 0 {
		return nil, fmt.Errorf("%w: title, ingredients and instructions must not be empty", models.ErrValidation)
	}

	oldHandle := ""
	if len(in.Image) > 0 {
		uploaded, err := s.images.Upload(ctx, in.Image, in.ImageContentType, recipeImageFolder)
		if err != nil {
			return nil, fmt.Errorf("failed to upload cover image: %w", err)
		}
		oldHandle = recipe.CoverImageID
		recipe.CoverImageURL = uploaded.URL
		recipe.CoverImageID = uploaded.Handle
	}

	if err := s.recipeRepo.Update(recipe); err != nil {
		if len(in.Image) > 0 {
			s.deleteImage(ctx, recipe.CoverImageID)
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	s.deleteImage(ctx, oldHandle)
	return recipe, nil
}

// DeleteRecipe removes the recipe and then its hosted image. The record is
// deleted first so a failure leaves at worst a dangling image, never a record
// pointing at a deleted image. Returns the deleted recipe.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id, userID string) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if recipe.CreatedBy != userID {
		return nil, fmt.Errorf("%w: recipe %s belongs to another user", models.ErrNotOwner, id)
	}

	if err := s.recipeRepo.Delete(id); err != nil {
		return nil, err
	}

	s.deleteImage(ctx, recipe.CoverImageID)
	s.publishEvent("recipe.deleted", recipe)
	return recipe, nil
}

// deleteImage removes a hosted image best-effort; failures are only logged.
func (s *RecipeService) deleteImage(ctx context.Context, handle string) {
	if handle == "" {
		return
	}
	if err := s.images.Delete(ctx, handle); err != nil {
		log.Printf("Warning: failed to delete hosted image %s: %v", handle, err)
	}
}

// publishEvent sends a recipe lifecycle event best-effort.
func (s *RecipeService) publishEvent(event string, recipe *models.Recipe) {
	if s.mqClient == nil {
		return
	}
	payload := map[string]interface{}{
		"recipeID": recipe.ID,
		"title":    recipe.Title,
		"userID":   recipe.CreatedBy,
	}
	if err := s.mqClient.PublishRecipeEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event for recipe %s: %v", event, recipe.ID, err)
	}
}

// NormalizeIngredients turns submitted ingredient values into an ordered list
// of trimmed, non-empty strings. Each value may itself be a comma-joined
// list, so both repeated fields and a single delimited string are accepted.
func NormalizeIngredients(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
