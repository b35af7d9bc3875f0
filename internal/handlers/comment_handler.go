package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/CantWait1/PrivatePacks-sub000/internal/middleware"
	"github.com/CantWait1/PrivatePacks-sub000/internal/models"
	"github.com/CantWait1/PrivatePacks-sub000/internal/repositories"
	"github.com/CantWait1/PrivatePacks-sub000/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments and votes
type CommentHandler struct {
	commentService *services.CommentService
	userRepository repositories.UserRepository // To resolve Firebase UIDs to user rows
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService *services.CommentService, userRepo repositories.UserRepository) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		userRepository: userRepo,
	}
}

// RegisterCommentRoutes registers comment routes on the protected group,
// RegisterPublicCommentRoutes on the group with optional identity.
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/packs/:pack_id/comments", h.CreateComment)
	g.PUT("/comments/:id/vote", h.SetVote)
	g.DELETE("/comments/:id", h.DeleteComment)
}

func (h *CommentHandler) RegisterPublicCommentRoutes(g *echo.Group) {
	g.GET("/packs/:pack_id/comments", h.ListComments)
}

// viewerID resolves the optional authenticated viewer to a user ID, returning
// 0 for anonymous requests.
func (h *CommentHandler) viewerID(c echo.Context) uint {
	uid, ok := c.Get(middleware.ContextUIDKey).(string)
	if !ok || uid == "" {
		return 0
	}
	user, err := h.userRepository.GetUserByFirebaseUID(uid)
	if err != nil {
		return 0
	}
	return user.ID
}

// requireUser resolves the authenticated caller to a user row
func (h *CommentHandler) requireUser(c echo.Context) (*models.User, error) {
	uid, ok := c.Get(middleware.ContextUIDKey).(string)
	if !ok || uid == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Missing authenticated identity")
	}
	user, err := h.userRepository.GetUserByFirebaseUID(uid)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Authenticated user not found in database")
	}
	return user, nil
}

// httpError maps a service DomainError onto the HTTP response, carrying any
// machine-readable details (e.g. rate-limit retry guidance) along.
func httpError(err error) error {
	var de *services.DomainError
	if errors.As(err, &de) {
		if de.Details != nil {
			return echo.NewHTTPError(de.Status, echo.Map{"message": de.Message, "details": de.Details})
		}
		return echo.NewHTTPError(de.Status, de.Message)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// ListComments retrieves an ordered page of comments for a pack. Passing
// parent_id returns that comment's full reply list instead of a page.
func (h *CommentHandler) ListComments(c echo.Context) error {
	packID := c.Param("pack_id")

	sort, ok := services.ParseSortMode(c.QueryParam("sort"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Sort must be one of recent, popular")
	}

	// page and limit stay 0 when absent; the service fills in the defaults.
	// An explicit value below 1 is rejected here, not defaulted.
	page := 0
	if p := c.QueryParam("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "Page must be a number of at least 1")
		}
		page = n
	}

	limit := 0
	if l := c.QueryParam("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "Limit must be a number of at least 1")
		}
		limit = n
	}

	var parentID *uint
	if p := c.QueryParam("parent_id"); p != "" {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid parent ID")
		}
		id := uint(n)
		parentID = &id
	}

	result, err := h.commentService.ListComments(c.Request().Context(), services.ListCommentsInput{
		PackID:   packID,
		ParentID: parentID,
		Sort:     sort,
		Page:     page,
		Limit:    limit,
		ViewerID: h.viewerID(c),
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// CreateComment creates a new comment or reply on a pack
func (h *CommentHandler) CreateComment(c echo.Context) error {
	user, err := h.requireUser(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.commentService.CreateComment(c.Request().Context(), services.CreateCommentInput{
		PackID:   c.Param("pack_id"),
		AuthorID: user.ID,
		Body:     req.Body,
		ParentID: req.ParentID,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, view)
}

// SetVote sets, changes or retracts the caller's vote on a comment and
// returns the authoritative counts
func (h *CommentHandler) SetVote(c echo.Context) error {
	user, err := h.requireUser(c)
	if err != nil {
		return err
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	var req models.SetVoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	direction, ok := models.ParseDirection(req.Direction)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Direction must be one of up, down, none")
	}

	result, err := h.commentService.SetVote(c.Request().Context(), uint(commentID), user.ID, direction)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// DeleteComment deletes a comment, its replies and their votes. Only the
// comment's author or a moderator may delete it.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	user, err := h.requireUser(c)
	if err != nil {
		return err
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	view, err := h.commentService.GetComment(c.Request().Context(), uint(commentID), 0)
	if err != nil {
		return httpError(err)
	}

	if view.AuthorID != user.ID && !user.Moderator {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this comment")
	}

	if err := h.commentService.DeleteComment(c.Request().Context(), uint(commentID)); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
