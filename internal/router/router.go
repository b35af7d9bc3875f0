package router

import (
	"log"
	"os"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/CantWait1/PrivatePacks-sub000/internal/handlers"
	"github.com/CantWait1/PrivatePacks-sub000/internal/middleware"
	"github.com/CantWait1/PrivatePacks-sub000/internal/models"
	"github.com/CantWait1/PrivatePacks-sub000/internal/moderation"
	"github.com/CantWait1/PrivatePacks-sub000/internal/ratelimit"
	"github.com/CantWait1/PrivatePacks-sub000/internal/repositories"
	"github.com/CantWait1/PrivatePacks-sub000/internal/services"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client, limiter ratelimit.Limiter) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Comment{},
		&models.Vote{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	packRepo := repositories.NewMongoPackRepository(mgClient.Database("privatepacks"))
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	voteRepo := repositories.NewPostgresVoteRepository(pgdb)

	// --- Initialize the comment service with its collaborators ---
	filter := moderation.NewWordListFilter(bannedWordsFromEnv(), 3)
	commentService := services.NewCommentService(commentRepo, voteRepo, packRepo, filter, limiter)

	// --- Public routes (identity optional, used for viewer annotation) ---
	public := e.Group("/api/v1")
	public.Use(middleware.OptionalFirebaseAuthMiddleware(firebaseAuthClient))

	// --- Protected routes (require a Firebase identity) ---
	protected := e.Group("/api/v1")
	protected.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient))
	log.Println("Firebase authentication middleware applied to protected routes.")

	// User registration and profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(public, protected)
	log.Println("User routes configured.")

	// Pack catalog routes
	packHandler := handlers.NewPackHandler(packRepo, userRepo)
	packHandler.RegisterPackRoutes(public, protected)
	log.Println("Pack routes configured.")

	// Comment and vote routes
	commentHandler := handlers.NewCommentHandler(commentService, userRepo)
	commentHandler.RegisterPublicCommentRoutes(public)
	commentHandler.RegisterCommentRoutes(protected)
	log.Println("Comment routes configured.")

	log.Println("All routes configured.")
}

// bannedWordsFromEnv reads the comma-separated banned word list for the
// content policy filter.
func bannedWordsFromEnv() []string {
	raw := os.Getenv("BANNED_WORDS")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
