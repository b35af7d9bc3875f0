package handlers

import (
	"net/http"
	"strconv"

	"github.com/CantWait1/PrivatePacks-sub000/internal/middleware"
	"github.com/CantWait1/PrivatePacks-sub000/internal/models"
	"github.com/CantWait1/PrivatePacks-sub000/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// UserHandler handles HTTP requests related to user accounts
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterUserRoutes registers user routes. Registration and the own profile
// require a verified identity; looking up another user by ID is public.
func (h *UserHandler) RegisterUserRoutes(public, protected *echo.Group) {
	protected.POST("/users", h.Register)
	protected.GET("/profile", h.GetProfile)
	public.GET("/users/:id", h.GetUser)
}

// Register creates the user row for the authenticated Firebase identity.
// Clients call this once after sign-up; commenting and voting resolve the
// caller through this row.
func (h *UserHandler) Register(c echo.Context) error {
	firebaseUID, ok := c.Get(middleware.ContextUIDKey).(string)
	if !ok || firebaseUID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing authenticated identity")
	}

	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.userRepository.GetUserByFirebaseUID(firebaseUID); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "User already registered")
	} else if err != gorm.ErrRecordNotFound {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user := &models.User{
		Name:        req.Name,
		Email:       req.Email,
		FirebaseUID: firebaseUID,
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, user)
}

// GetProfile retrieves the authenticated user's own row
func (h *UserHandler) GetProfile(c echo.Context) error {
	firebaseUID, ok := c.Get(middleware.ContextUIDKey).(string)
	if !ok || firebaseUID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing authenticated identity")
	}

	user, err := h.userRepository.GetUserByFirebaseUID(firebaseUID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

// GetUser retrieves a user's public profile by ID
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	user, err := h.userRepository.GetUserByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}
