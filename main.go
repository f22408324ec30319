package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mahfuz-7148/recipes-app/internal/handlers"
	"github.com/mahfuz-7148/recipes-app/internal/middleware"
	"github.com/mahfuz-7148/recipes-app/internal/models"
	"github.com/mahfuz-7148/recipes-app/internal/repositories"
	"github.com/mahfuz-7148/recipes-app/internal/services"
	"github.com/mahfuz-7148/recipes-app/pkg/imagestore"
	"github.com/mahfuz-7148/recipes-app/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "recipes.db")
	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("S3_ENDPOINT", "http://localhost:9000")
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("S3_BUCKET", "recipes")
	viper.SetDefault("S3_ACCESS_KEY", "")
	viper.SetDefault("S3_SECRET_KEY", "")
	viper.AutomaticEnv() // Load environment variables

	appPort := viper.GetString("APP_PORT")

	// --- Database (opened once, shared by all handlers) ---
	db, err := openDatabase(viper.GetString("DATABASE_DSN"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Recipe{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Image Host Client ---
	images, err := imagestore.New(context.Background(), imagestore.Config{
		Endpoint:  viper.GetString("S3_ENDPOINT"),
		Region:    viper.GetString("S3_REGION"),
		Bucket:    viper.GetString("S3_BUCKET"),
		AccessKey: viper.GetString("S3_ACCESS_KEY"),
		SecretKey: viper.GetString("S3_SECRET_KEY"),
	})
	if err != nil {
		log.Fatalf("Failed to initialize image store client: %v", err)
	}

	// --- Optional RabbitMQ Client ---
	// An empty RABBITMQ_URL disables event publishing entirely.
	var mqClient *rabbitmq.Client
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	} else {
		log.Println("RABBITMQ_URL not set, recipe events disabled")
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	recipeRepo := repositories.NewGORMRecipeRepository(db)

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, images, viper.GetString("JWT_SECRET"))
	recipeService := services.NewRecipeService(recipeRepo, images, mqClient)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	recipeHandler := handlers.NewRecipeHandler(recipeService)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		BodyLimit: 12 << 20, // recipe images may be up to 10MB plus form overhead
	})

	// --- Middleware ---
	app.Use(logger.New()) // Request logger
	authRequired := middleware.AuthRequired(authService)

	// --- API Routes ---
	authHandler.RegisterRoutes(app, authRequired)
	recipeHandler.RegisterRoutes(app, authRequired)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start RabbitMQ Consumer in a Goroutine ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for recipe events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received recipe event (Tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil // Return nil to acknowledge
			}
			if consumerErr := mqClient.ConsumeRecipeEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// openDatabase opens the store handle. A postgres-style DSN selects the
// postgres driver; anything else is treated as a sqlite path.
func openDatabase(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "host=") || strings.HasPrefix(dsn, "postgres://") {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}
