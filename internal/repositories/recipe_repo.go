package repositories

import "github.com/mahfuz-7148/recipes-app/internal/models"

// RecipeRepository defines the interface for recipe data access.
type RecipeRepository interface {
	// GetAll returns every recipe ordered newest-first.
	GetAll() ([]models.Recipe, error)
	GetByID(id string) (*models.Recipe, error)
	Create(recipe *models.Recipe) error
	Update(recipe *models.Recipe) error
	Delete(id string) error
}
