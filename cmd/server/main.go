package main

import (
	"context"
	"log"

	"github.com/CantWait1/PrivatePacks-sub000/internal/ratelimit"
	"github.com/CantWait1/PrivatePacks-sub000/internal/router"
	"github.com/CantWait1/PrivatePacks-sub000/pkg/config"
	"github.com/CantWait1/PrivatePacks-sub000/pkg/firebase"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Submission rate limiter shares the Redis connection
	limiter := ratelimit.NewRedisLimiterWithClient(db.Redis)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, firebaseApp.AuthClient, limiter)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
