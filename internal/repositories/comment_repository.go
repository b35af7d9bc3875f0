package repositories

import (
	"github.com/CantWait1/PrivatePacks-sub000/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentPage(packID string, parentID *uint, offset, limit int) ([]models.Comment, int64, error)
	GetCommentsByParent(packID string, parentID *uint) ([]models.Comment, error)
	CountReplies(commentID uint) (int64, error)
	CountRepliesByParent(parentIDs []uint) (map[uint]int64, error)
	DeleteComment(id uint) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// parentScope filters on an exact parent: nil selects top-level comments only.
func parentScope(parentID *uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if parentID == nil {
			return db.Where("parent_id IS NULL")
		}
		return db.Where("parent_id = ?", *parentID)
	}
}

// GetCommentPage retrieves one window of comments matching the pack and exact
// parent, newest first with ID as the tie-break, plus the total matching count.
func (r *PostgresCommentRepository) GetCommentPage(packID string, parentID *uint, offset, limit int) ([]models.Comment, int64, error) {
	var total int64
	if err := r.db.Model(&models.Comment{}).
		Where("pack_id = ?", packID).
		Scopes(parentScope(parentID)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	if err := r.db.
		Where("pack_id = ?", packID).
		Scopes(parentScope(parentID)).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// GetCommentsByParent retrieves all comments matching the pack and exact
// parent without a page window, newest first.
func (r *PostgresCommentRepository) GetCommentsByParent(packID string, parentID *uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.
		Where("pack_id = ?", packID).
		Scopes(parentScope(parentID)).
		Order("created_at DESC, id DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// CountReplies counts the comments whose parent is the given comment
func (r *PostgresCommentRepository) CountReplies(commentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("parent_id = ?", commentID).Count(&count).Error
	return count, err
}

// CountRepliesByParent counts replies for a batch of parents in one query.
// Parents without replies are absent from the returned map.
func (r *PostgresCommentRepository) CountRepliesByParent(parentIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(parentIDs))
	if len(parentIDs) == 0 {
		return counts, nil
	}

	type countRow struct {
		ParentID uint
		Count    int64
	}
	var rows []countRow
	if err := r.db.Model(&models.Comment{}).
		Select("parent_id, COUNT(*) as count").
		Where("parent_id IN ?", parentIDs).
		Group("parent_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.ParentID] = row.Count
	}
	return counts, nil
}

// DeleteComment deletes a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) DeleteComment(id uint) error {
	res := r.db.Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
