package handlers

import (
	"net/http"
	"strconv"

	"github.com/CantWait1/PrivatePacks-sub000/internal/middleware"
	"github.com/CantWait1/PrivatePacks-sub000/internal/models"
	"github.com/CantWait1/PrivatePacks-sub000/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// PackHandler handles HTTP requests related to the texture pack catalog
type PackHandler struct {
	packRepository repositories.PackRepository
	userRepository repositories.UserRepository
}

// NewPackHandler creates a new PackHandler
func NewPackHandler(packRepo repositories.PackRepository, userRepo repositories.UserRepository) *PackHandler {
	return &PackHandler{
		packRepository: packRepo,
		userRepository: userRepo,
	}
}

// RegisterPackRoutes registers pack routes; browse endpoints are public,
// publishing requires authentication.
func (h *PackHandler) RegisterPackRoutes(public, protected *echo.Group) {
	public.GET("/packs", h.ListPacks)
	public.GET("/packs/:id", h.GetPack)
	public.POST("/packs/:id/download", h.Download)
	protected.POST("/packs", h.CreatePack)
}

// ListPacks retrieves packs with skip/limit pagination
func (h *PackHandler) ListPacks(c echo.Context) error {
	skip := int64(0)
	if s := c.QueryParam("skip"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n >= 0 {
			skip = n
		}
	}
	limit := int64(20)
	if l := c.QueryParam("limit"); l != "" {
		if n, err := strconv.ParseInt(l, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	packs, err := h.packRepository.GetAllPacks(c.Request().Context(), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, packs)
}

// GetPack retrieves a single pack by ID
func (h *PackHandler) GetPack(c echo.Context) error {
	pack, err := h.packRepository.GetPackByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Pack not found")
	}
	return c.JSON(http.StatusOK, pack)
}

// Download records a download of a pack
func (h *PackHandler) Download(c echo.Context) error {
	packID := c.Param("id")
	if _, err := h.packRepository.GetPackByID(c.Request().Context(), packID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Pack not found")
	}
	if err := h.packRepository.IncrementDownloads(c.Request().Context(), packID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// CreatePack publishes a new pack to the catalog
func (h *PackHandler) CreatePack(c echo.Context) error {
	uid, ok := c.Get(middleware.ContextUIDKey).(string)
	if !ok || uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing authenticated identity")
	}
	user, err := h.userRepository.GetUserByFirebaseUID(uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Authenticated user not found in database")
	}

	var req models.CreatePackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pack := &models.Pack{
		AuthorID:    user.ID,
		Name:        req.Name,
		Description: req.Description,
		Resolution:  req.Resolution,
		Tags:        req.Tags,
	}
	if err := h.packRepository.CreatePack(c.Request().Context(), pack); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, pack)
}
