package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/CantWait1/PrivatePacks-sub000/internal/models"
	"github.com/CantWait1/PrivatePacks-sub000/internal/moderation"
	"github.com/CantWait1/PrivatePacks-sub000/internal/ratelimit"
	"github.com/CantWait1/PrivatePacks-sub000/internal/repositories"
	"github.com/CantWait1/PrivatePacks-sub000/internal/services"
	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Comment{}, &models.Vote{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// stubPackRepo treats every pack ID as existing.
type stubPackRepo struct{}

func (stubPackRepo) CreatePack(ctx context.Context, pack *models.Pack) error {
	return nil
}

func (stubPackRepo) GetPackByID(ctx context.Context, id string) (*models.Pack, error) {
	return &models.Pack{Name: id}, nil
}

func (stubPackRepo) GetAllPacks(ctx context.Context, skip, limit int64) ([]models.Pack, error) {
	return nil, nil
}

func (stubPackRepo) DeletePack(ctx context.Context, id string) error {
	return nil
}

func (stubPackRepo) IncrementDownloads(ctx context.Context, id string) error {
	return nil
}

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(ctx context.Context, identity string, policy ratelimit.Policy) (ratelimit.Decision, error) {
	return ratelimit.Decision{
		Allowed:   true,
		Remaining: policy.Limit - 1,
		ResetAt:   time.Now().Add(policy.Window),
	}, nil
}

// newTestHandlers wires comment and user handlers over one in-memory database.
func newTestHandlers(t *testing.T) (*CommentHandler, *UserHandler) {
	t.Helper()

	db := openTestDB(t)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	voteRepo := repositories.NewPostgresVoteRepository(db)
	userRepo := repositories.NewPostgresUserRepository(db)

	filter := moderation.NewWordListFilter(nil, 0)
	commentService := services.NewCommentService(commentRepo, voteRepo, stubPackRepo{}, filter, allowAllLimiter{})

	return NewCommentHandler(commentService, userRepo), NewUserHandler(userRepo)
}

// newJSONContext builds an echo context for a request with a JSON body.
func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req = httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
