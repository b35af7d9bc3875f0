package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

// ContextUIDKey is the echo context key holding the verified Firebase UID.
const ContextUIDKey = "firebaseUID"

// FirebaseAuthMiddleware creates an Echo middleware to verify Firebase ID
// tokens. Requests without a valid token are rejected.
func FirebaseAuthMiddleware(authClient *auth.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken, ok := bearerToken(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}

			token, err := authClient.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}

			c.Set(ContextUIDKey, token.UID)
			return next(c)
		}
	}
}

// OptionalFirebaseAuthMiddleware verifies a Firebase ID token when one is
// present but lets anonymous requests through. Read endpoints use it so
// signed-in viewers get their own votes annotated while anonymous viewers
// still see the thread.
func OptionalFirebaseAuthMiddleware(authClient *auth.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken, ok := bearerToken(c)
			if !ok {
				return next(c)
			}

			token, err := authClient.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				// An invalid token on a read degrades to anonymous.
				return next(c)
			}

			c.Set(ContextUIDKey, token.UID)
			return next(c)
		}
	}
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header
func bearerToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}
