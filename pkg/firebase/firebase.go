package firebase

import (
	"context"
	"fmt"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/CantWait1/PrivatePacks-sub000/pkg/config"
	"google.golang.org/api/option"
)

// App bundles the Firebase app with the auth client the middleware uses to
// verify ID tokens.
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
}

// InitFirebase initializes Firebase from the service account credentials named
// in the configuration and returns the token-verification client.
func InitFirebase(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg.FirebaseCredentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not configured")
	}
	if _, err := os.Stat(cfg.FirebaseCredentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", cfg.FirebaseCredentialsPath)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cfg.FirebaseCredentialsPath))
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("get firebase auth client: %w", err)
	}

	log.Println("Firebase app and auth client initialized.")
	return &App{FirebaseApp: app, AuthClient: authClient}, nil
}
