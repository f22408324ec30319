package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/mahfuz-7148/recipes-app/internal/middleware"
	"github.com/mahfuz-7148/recipes-app/internal/services"
)

// RecipeHandler handles HTTP requests for recipes.
type RecipeHandler struct {
	service *services.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(service *services.RecipeService) *RecipeHandler {
	return &RecipeHandler{
		service: service,
	}
}

// RegisterRoutes registers the recipe routes with the Fiber app. Reads are
// public; mutations require the auth middleware.
func (h *RecipeHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	recipeRoutes := router.Group("/recipe")
	recipeRoutes.Get("/", h.HandleGetRecipes)
	recipeRoutes.Get("/:id", h.HandleGetRecipe)
	recipeRoutes.Post("/", auth, h.HandleCreateRecipe)
	recipeRoutes.Put("/:id", auth, h.HandleUpdateRecipe)
	recipeRoutes.Delete("/:id", auth, h.HandleDeleteRecipe)
}

// HandleGetRecipes retrieves all recipes, newest first.
func (h *RecipeHandler) HandleGetRecipes(c *fiber.Ctx) error {
	recipes, err := h.service.GetAllRecipes()
	if err != nil {
		log.Printf("Error getting all recipes: %v", err)
		return respondError(c, "Could not retrieve recipes", err)
	}
	return c.JSON(fiber.Map{
		"message": "recipes fetched successfully",
		"data":    recipes,
	})
}

// HandleGetRecipe retrieves a single recipe by its ID.
func (h *RecipeHandler) HandleGetRecipe(c *fiber.Ctx) error {
	recipeID := c.Params("id")
	recipe, err := h.service.GetRecipeByID(recipeID)
	if err != nil {
		log.Printf("Error getting recipe %s: %v", recipeID, err)
		return respondError(c, "Could not retrieve recipe", err)
	}
	return c.JSON(fiber.Map{
		"message": "recipe fetched successfully",
		"data":    recipe,
	})
}

// HandleCreateRecipe creates a recipe from a multipart form with a mandatory
// cover image in the "file" field.
func (h *RecipeHandler) HandleCreateRecipe(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	image, contentType, err := readImageFile(c, "file", maxRecipeImageSize)
	if err != nil {
		return respondError(c, "Invalid cover image", err)
	}

	recipe, err := h.service.CreateRecipe(c.Context(), services.CreateRecipeInput{
		UserID:           middleware.UserID(c),
		Title:            c.FormValue("title"),
		Time:             c.FormValue("time"),
		Ingredients:      services.NormalizeIngredients(form.Value["ingredients"]),
		Instructions:     c.FormValue("instructions"),
		Image:            image,
		ImageContentType: contentType,
	})
	if err != nil {
		log.Printf("Error creating recipe: %v", err)
		return respondError(c, "Could not create recipe", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "recipe created successfully",
		"data":    recipe,
	})
}

// HandleUpdateRecipe updates the fields present in the multipart form;
// omitted fields keep their stored values.
func (h *RecipeHandler) HandleUpdateRecipe(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	image, contentType, err := readImageFile(c, "file", maxRecipeImageSize)
	if err != nil {
		return respondError(c, "Invalid cover image", err)
	}

	in := services.UpdateRecipeInput{
		Image:            image,
		ImageContentType: contentType,
	}
	if values, ok := form.Value["title"]; ok && len(values) > 0 {
		in.Title = &values[0]
	}
	if values, ok := form.Value["time"]; ok && len(values) > 0 {
		in.Time = &values[0]
	}
	if values, ok := form.Value["instructions"]; ok && len(values) > 0 {
		in.Instructions = &values[0]
	}
	if values, ok := form.Value["ingredients"]; ok {
		in.Ingredients = services.NormalizeIngredients(values)
		if in.Ingredients == nil {
			// Present but unparseable: let the service reject it rather
			// than silently keeping the stored list.
			in.Ingredients = []string{}
		}
	}

	recipeID := c.Params("id")
	recipe, err := h.service.UpdateRecipe(c.Context(), recipeID, middleware.UserID(c), in)
	if err != nil {
		log.Printf("Error updating recipe %s: %v", recipeID, err)
		return respondError(c, "Could not update recipe", err)
	}

	return c.JSON(fiber.Map{
		"message": "recipe updated successfully",
		"data":    recipe,
	})
}

// HandleDeleteRecipe deletes a recipe and returns the deleted record.
func (h *RecipeHandler) HandleDeleteRecipe(c *fiber.Ctx) error {
	recipeID := c.Params("id")
	recipe, err := h.service.DeleteRecipe(c.Context(), recipeID, middleware.UserID(c))
	if err != nil {
		log.Printf("Error deleting recipe %s: %v", recipeID, err)
		return respondError(c, "Could not delete recipe", err)
	}

	return c.JSON(fiber.Map{
		"message": "recipe deleted successfully",
		"data":    recipe,
	})
}
