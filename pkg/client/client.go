// Package client is a Go client for the recipes API. It mirrors the browser
// application's behavior: it talks to the HTTP API, keeps the issued token,
// and stores favorites, follows and cooked marks locally (see State).
package client

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mahfuz-7148/recipes-app/internal/models"
)

// Client calls the recipes API over HTTP.
type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

// New creates a Client for the given API base URL.
func New(baseURL string) *Client {
	cli := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(15 * time.Second)

	return &Client{http: cli}
}

// SetToken stores the bearer token used on protected routes.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = strings.TrimSpace(token)
}

// Token returns the currently stored bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if token := c.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// Session is the result of a successful signup or login.
type Session struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type sessionEnvelope struct {
	Message string  `json:"message"`
	Data    Session `json:"data"`
	Error   string  `json:"error"`
}

type userEnvelope struct {
	Message string      `json:"message"`
	Data    models.User `json:"data"`
	Error   string      `json:"error"`
}

type recipeEnvelope struct {
	Message string        `json:"message"`
	Data    models.Recipe `json:"data"`
	Error   string        `json:"error"`
}

type recipesEnvelope struct {
	Message string          `json:"message"`
	Data    []models.Recipe `json:"data"`
	Error   string          `json:"error"`
}

// apiError turns a non-2xx response into an error carrying the server's
// message.
func apiError(resp *resty.Response, message, detail string) error {
	if detail != "" {
		return fmt.Errorf("%s: %s (status %d)", message, detail, resp.StatusCode())
	}
	return fmt.Errorf("%s: status %d", message, resp.StatusCode())
}

// SignupInput carries a registration request. Photo is optional.
type SignupInput struct {
	Name             string
	Email            string
	Password         string
	Photo            []byte
	PhotoContentType string
}

// Signup registers a new account and stores the returned token.
func (c *Client) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	var env sessionEnvelope
	req := c.request(ctx).
		SetMultipartFormData(map[string]string{
			"name":     in.Name,
			"email":    in.Email,
			"password": in.Password,
		}).
		SetResult(&env).
		SetError(&env)
	if len(in.Photo) > 0 {
		req.SetMultipartField("photo", "photo", in.PhotoContentType, bytes.NewReader(in.Photo))
	}

	resp, err := req.Post("/signup")
	if err != nil {
		return nil, fmt.Errorf("signup request failed: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp, "signup failed", env.Error)
	}

	c.SetToken(env.Data.Token)
	return &env.Data, nil
}

// Login authenticates and stores the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var env sessionEnvelope
	resp, err := c.request(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&env).
		SetError(&env).
		Post("/login")
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp, "login failed", env.Error)
	}

	c.SetToken(env.Data.Token)
	return &env.Data, nil
}

// User fetches the public profile for a user id.
func (c *Client) User(ctx context.Context, id string) (*models.User, error) {
	var env userEnvelope
	resp, err := c.request(ctx).
		SetResult(&env).
		SetError(&env).
		Get("/user/" + id)
	if err != nil {
		return nil, fmt.Errorf("user request failed: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp, "fetching user failed", env.Error)
	}
	return &env.Data, nil
}

// UpdateProfilePhoto replaces the authenticated user's profile photo.
func (c *Client) UpdateProfilePhoto(ctx context.Context, photo []byte, contentType string) (*models.User, error) {
	var env userEnvelope
	resp, err := c.request(ctx).
		SetMultipartField("photo", "photo", contentType, bytes.NewReader(photo)).
		SetResult(&env).
		SetError(&env).
		Put("/user/photo")
	if err != nil {
		return nil, fmt.Errorf("photo update request failed: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp, "updating photo failed", env.Error)
	}
	return &env.Data, nil
}

// Recipes lists all recipes, newest first.
func (c *Client) Recipes(ctx context.Context) ([]models.Recipe, error) {
	var env recipesEnvelope
	resp, err := c.request(ctx).
		SetResult(&env).
		SetError(&env).
		Get("/recipe")
	if err != nil {
		return nil, fmt.Errorf("recipes request failed: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp, "fetching recipes failed", env.Error)
	}
	return env.Data, nil
}

// Recipe fetches a single recipe by id.
func (c *Client) Recipe(ctx context.Context, id string) (*models.Recipe, error) {
	var env recipeEnvelope
	resp, err := c.request(ctx).
		SetResult(&env).
		SetError(&env).
		Get("/recipe/" + id)
	if err != nil {
		return nil, fmt.Errorf("recipe request failed: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp, "fetching recipe failed", env.Error)
	}
	return &env.Data, nil
}

// RecipeInput carries a recipe create or update. Zero-valued fields are
// omitted from the form, so on update they keep their stored values.
// Ingredients are sent comma-joined; the server normalizes them.
type RecipeInput struct {
	Title            string
	Time             string
	Ingredients      []string
	Instructions     string
	Image            []byte
	ImageContentType string
}

func (in RecipeInput) fields() map[string]string {
	fields := make(map[string]string)
	if in.Title != "" {
		fields["title"] = in.Title
	}
	if in.Time != "" {
		fields["time"] = in.Time
	}
	if len(in.Ingredients) > 0 {
		fields["ingredients"] = strings.Join(in.Ingredients, ",")
	}
	if in.Instructions != "" {
		fields["instructions"] = in.Instructions
	}
	return fields
}

// CreateRecipe submits a new recipe with its cover image.
func (c *Client) CreateRecipe(ctx context.Context, in RecipeInput) (*models.Recipe, error) {
	var env recipeEnvelope
	req := c.request(ctx).
		SetMultipartFormData(in.fields()).
		SetResult(&env).
		SetError(&env)
	if len(in.Image) > 0 {
		req.SetMultipartField("file", "cover", in.ImageContentType, bytes.NewReader(in.Image))
	}

	resp, err := req.Post("/recipe")
	if err != nil {
		return nil, fmt.Errorf("create recipe request failed: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp, "creating recipe failed", env.Error)
	}
	return &env.Data, nil
}

// UpdateRecipe sends the supplied fields for an existing recipe.
func (c *Client) UpdateRecipe(ctx context.Context, id string, in RecipeInput) (*models.Recipe, error) {
	var env recipeEnvelope
	req := c.request(ctx).
		SetMultipartFormData(in.fields()).
		SetResult(&env).
		SetError(&env)
	if len(in.Image) > 0 {
		req.SetMultipartField("file", "cover", in.ImageContentType, bytes.NewReader(in.Image))
	}

	resp, err := req.Put("/recipe/" + id)
	if err != nil {
		return nil, fmt.Errorf("update recipe request failed: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp, "updating recipe failed", env.Error)
	}
	return &env.Data, nil
}

// DeleteRecipe deletes a recipe and returns the deleted record.
func (c *Client) DeleteRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	var env recipeEnvelope
	resp, err := c.request(ctx).
		SetResult(&env).
		SetError(&env).
		Delete("/recipe/" + id)
	if err != nil {
		return nil, fmt.Errorf("delete recipe request failed: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp, "deleting recipe failed", env.Error)
	}
	return &env.Data, nil
}
