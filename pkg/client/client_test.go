package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mahfuz-7148/recipes-app/internal/models"
	"github.com/mahfuz-7148/recipes-app/pkg/client"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func TestClientLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["email"] != "test@example.com" || req["password"] != "Secret1!" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"message": "Authentication failed",
				"error":   "invalid credentials",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "login successful",
			"data": map[string]interface{}{
				"token": "tok-1",
				"user":  models.User{ID: "user-1", Email: "test@example.com"},
			},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := client.New(server.URL)

	session, err := c.Login(context.Background(), "test@example.com", "Secret1!")
	assert.NoError(t, err)
	assert.Equal(t, "tok-1", session.Token)
	assert.Equal(t, "user-1", session.User.ID)
	// Token is stored for protected calls
	assert.Equal(t, "tok-1", c.Token())

	_, err = c.Login(context.Background(), "test@example.com", "wrong")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestClientSignupSendsMultipart(t *testing.T) {
	var gotName, gotEmail string
	var gotPhotoType string

	mux := http.NewServeMux()
	mux.HandleFunc("POST /signup", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(16<<20))
		gotName = r.FormValue("name")
		gotEmail = r.FormValue("email")
		if _, header, err := r.FormFile("photo"); err == nil {
			gotPhotoType = header.Header.Get("Content-Type")
		}
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "signup successful",
			"data": map[string]interface{}{
				"token": "tok-2",
				"user":  models.User{ID: "user-2", Email: gotEmail},
			},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := client.New(server.URL)
	session, err := c.Signup(context.Background(), client.SignupInput{
		Name:             "Test User",
		Email:            "test@example.com",
		Password:         "Secret1!",
		Photo:            []byte("fake-photo-bytes"),
		PhotoContentType: "image/png",
	})
	assert.NoError(t, err)
	assert.Equal(t, "tok-2", session.Token)
	assert.Equal(t, "Test User", gotName)
	assert.Equal(t, "test@example.com", gotEmail)
	assert.Equal(t, "image/png", gotPhotoType)
}

func TestClientRecipeCRUD(t *testing.T) {
	var gotAuth, gotTitle, gotIngredients, gotFileType string

	mux := http.NewServeMux()
	mux.HandleFunc("POST /recipe", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.NoError(t, r.ParseMultipartForm(16<<20))
		gotTitle = r.FormValue("title")
		gotIngredients = r.FormValue("ingredients")
		if _, header, err := r.FormFile("file"); err == nil {
			gotFileType = header.Header.Get("Content-Type")
		}
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "recipe created successfully",
			"data":    models.Recipe{ID: "recipe-1", Title: gotTitle},
		})
	})
	mux.HandleFunc("GET /recipe", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "recipes fetched successfully",
			"data": []models.Recipe{
				{ID: "recipe-2", Title: "newest"},
				{ID: "recipe-1", Title: "older"},
			},
		})
	})
	mux.HandleFunc("GET /recipe/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "recipe-1" {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"message": "Could not retrieve recipe",
				"error":   "recipe not found",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "recipe fetched successfully",
			"data":    models.Recipe{ID: "recipe-1", Title: "Tea"},
		})
	})
	mux.HandleFunc("DELETE /recipe/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "recipe deleted successfully",
			"data":    models.Recipe{ID: r.PathValue("id"), Title: "Tea"},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := client.New(server.URL)
	c.SetToken("tok-1")

	created, err := c.CreateRecipe(context.Background(), client.RecipeInput{
		Title:            "Tea",
		Ingredients:      []string{"water", "tea leaves"},
		Instructions:     "Boil.",
		Image:            []byte("fake-image-bytes"),
		ImageContentType: "image/jpeg",
	})
	assert.NoError(t, err)
	assert.Equal(t, "recipe-1", created.ID)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "Tea", gotTitle)
	assert.Equal(t, "water,tea leaves", gotIngredients)
	assert.Equal(t, "image/jpeg", gotFileType)

	recipes, err := c.Recipes(context.Background())
	assert.NoError(t, err)
	assert.Len(t, recipes, 2)
	assert.Equal(t, "newest", recipes[0].Title)

	recipe, err := c.Recipe(context.Background(), "recipe-1")
	assert.NoError(t, err)
	assert.Equal(t, "Tea", recipe.Title)

	_, err = c.Recipe(context.Background(), "no-such-id")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "recipe not found")

	deleted, err := c.DeleteRecipe(context.Background(), "recipe-1")
	assert.NoError(t, err)
	assert.Equal(t, "recipe-1", deleted.ID)
}
