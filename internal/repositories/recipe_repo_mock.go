package repositories

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mahfuz-7148/recipes-app/internal/models"
)

// MockRecipeRepository is an in-memory implementation of RecipeRepository.
type MockRecipeRepository struct {
	recipes map[string]models.Recipe
	mu      sync.RWMutex
}

// NewMockRecipeRepository creates a new instance of MockRecipeRepository.
func NewMockRecipeRepository() *MockRecipeRepository {
	return &MockRecipeRepository{
		recipes: make(map[string]models.Recipe),
	}
}

// GetAll returns all recipes ordered by creation time descending.
func (r *MockRecipeRepository) GetAll() ([]models.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipeList := make([]models.Recipe, 0, len(r.recipes))
	for _, recipe := range r.recipes {
		recipeList = append(recipeList, recipe)
	}
	sort.Slice(recipeList, func(i, j int) bool {
		return recipeList[i].CreatedAt.After(recipeList[j].CreatedAt)
	})
	return recipeList, nil
}

// GetByID returns a recipe by its ID.
func (r *MockRecipeRepository) GetByID(id string) (*models.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipe, ok := r.recipes[id]
	if !ok {
		return nil, fmt.Errorf("recipe with ID %s: %w", id, models.ErrNotFound)
	}
	return &recipe, nil
}

// Create adds a new recipe.
func (r *MockRecipeRepository) Create(recipe *models.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	r.recipes[recipe.ID] = *recipe
	return nil
}

// Update modifies an existing recipe.
func (r *MockRecipeRepository) Update(recipe *models.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.recipes[recipe.ID]
	if !ok {
		return fmt.Errorf("recipe with ID %s: %w", recipe.ID, models.ErrNotFound)
	}
	r.recipes[recipe.ID] = *recipe
	return nil
}

// Delete removes a recipe by its ID.
func (r *MockRecipeRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.recipes[id]
	if !ok {
		return fmt.Errorf("recipe with ID %s: %w", id, models.ErrNotFound)
	}
	delete(r.recipes, id)
	return nil
}
