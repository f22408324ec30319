package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mahfuz-7148/recipes-app/internal/models"
)

// GORMRecipeRepository is a GORM implementation of RecipeRepository.
type GORMRecipeRepository struct {
	db *gorm.DB
}

// NewGORMRecipeRepository creates a new instance of GORMRecipeRepository.
func NewGORMRecipeRepository(db *gorm.DB) *GORMRecipeRepository {
	return &GORMRecipeRepository{
		db: db,
	}
}

// GetAll retrieves all recipes ordered by creation time descending.
func (r *GORMRecipeRepository) GetAll() ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := r.db.Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to get all recipes: %w", err)
	}
	return recipes, nil
}

// GetByID retrieves a single recipe by its ID from the database.
func (r *GORMRecipeRepository) GetByID(id string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recipe with ID %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get recipe by ID %s: %w", id, err)
	}
	return &recipe, nil
}

// Create creates a new recipe in the database.
func (r *GORMRecipeRepository) Create(recipe *models.Recipe) error {
	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	if err := r.db.Create(recipe).Error; err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

// Update persists all fields of an existing recipe.
func (r *GORMRecipeRepository) Update(recipe *models.Recipe) error {
	res := r.db.Save(recipe)
	if res.Error != nil {
		return fmt.Errorf("failed to update recipe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Save does not return ErrRecordNotFound for a missing row,
		// so we check RowsAffected.
		return fmt.Errorf("recipe with ID %s: %w", recipe.ID, models.ErrNotFound)
	}
	return nil
}

// Delete deletes a recipe by its ID from the database.
func (r *GORMRecipeRepository) Delete(id string) error {
	res := r.db.Delete(&models.Recipe{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete recipe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("recipe with ID %s: %w", id, models.ErrNotFound)
	}
	return nil
}
