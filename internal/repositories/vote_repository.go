package repositories

import (
	"github.com/CantWait1/PrivatePacks-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteRepository defines the interface for the vote ledger. Each row is keyed
// by (comment_id, user_id); absence of a row means the user holds no vote.
type VoteRepository interface {
	SetVote(commentID, userID uint, value int) error
	ClearVote(commentID, userID uint) error
	GetUserVote(commentID, userID uint) (int, error)
	CountVotes(commentID uint) (models.VoteCounts, error)
	CountVotesByComment(commentIDs []uint) (map[uint]models.VoteCounts, error)
	GetUserVotesByComment(commentIDs []uint, userID uint) (map[uint]int, error)
	DeleteVotesForComments(commentIDs []uint) error
}

// PostgresVoteRepository implements VoteRepository for PostgreSQL
type PostgresVoteRepository struct {
	db *gorm.DB
}

// NewPostgresVoteRepository creates a new PostgresVoteRepository
func NewPostgresVoteRepository(db *gorm.DB) *PostgresVoteRepository {
	return &PostgresVoteRepository{db: db}
}

// SetVote upserts the (commentID, userID) row with the given value. The
// unique index on the pair serializes concurrent writes for the same pair;
// the last write wins.
func (r *PostgresVoteRepository) SetVote(commentID, userID uint, value int) error {
	vote := models.Vote{
		CommentID: commentID,
		UserID:    userID,
		Value:     value,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "comment_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&vote).Error
}

// ClearVote deletes the (commentID, userID) row. Clearing a vote that does
// not exist is a no-op, not an error.
func (r *PostgresVoteRepository) ClearVote(commentID, userID uint) error {
	return r.db.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.Vote{}).Error
}

// GetUserVote returns the user's stored value for the comment: 1, -1, or 0
// when no row exists.
func (r *PostgresVoteRepository) GetUserVote(commentID, userID uint) (int, error) {
	var vote models.Vote
	err := r.db.Where("comment_id = ? AND user_id = ?", commentID, userID).First(&vote).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return vote.Value, nil
}

// CountVotes recomputes the aggregate counts for a comment from the ledger rows
func (r *PostgresVoteRepository) CountVotes(commentID uint) (models.VoteCounts, error) {
	var counts models.VoteCounts
	if err := r.db.Model(&models.Vote{}).
		Where("comment_id = ? AND value = ?", commentID, models.VoteValueUp).
		Count(&counts.UpvoteCount).Error; err != nil {
		return counts, err
	}
	if err := r.db.Model(&models.Vote{}).
		Where("comment_id = ? AND value = ?", commentID, models.VoteValueDown).
		Count(&counts.DownvoteCount).Error; err != nil {
		return counts, err
	}
	return counts, nil
}

// CountVotesByComment recomputes aggregate counts for a batch of comments in
// one query. Comments without votes are absent from the returned map.
func (r *PostgresVoteRepository) CountVotesByComment(commentIDs []uint) (map[uint]models.VoteCounts, error) {
	counts := make(map[uint]models.VoteCounts, len(commentIDs))
	if len(commentIDs) == 0 {
		return counts, nil
	}

	type countRow struct {
		CommentID uint
		Value     int
		Count     int64
	}
	var rows []countRow
	if err := r.db.Model(&models.Vote{}).
		Select("comment_id, value, COUNT(*) as count").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id, value").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		c := counts[row.CommentID]
		switch row.Value {
		case models.VoteValueUp:
			c.UpvoteCount = row.Count
		case models.VoteValueDown:
			c.DownvoteCount = row.Count
		}
		counts[row.CommentID] = c
	}
	return counts, nil
}

// GetUserVotesByComment returns the user's stored values for a batch of
// comments. Comments the user has not voted on are absent from the map.
func (r *PostgresVoteRepository) GetUserVotesByComment(commentIDs []uint, userID uint) (map[uint]int, error) {
	values := make(map[uint]int, len(commentIDs))
	if len(commentIDs) == 0 {
		return values, nil
	}

	var votes []models.Vote
	if err := r.db.
		Where("comment_id IN ? AND user_id = ?", commentIDs, userID).
		Find(&votes).Error; err != nil {
		return nil, err
	}
	for _, v := range votes {
		values[v.CommentID] = v.Value
	}
	return values, nil
}

// DeleteVotesForComments removes all votes on the given comments. Used when a
// comment and its replies are deleted.
func (r *PostgresVoteRepository) DeleteVotesForComments(commentIDs []uint) error {
	if len(commentIDs) == 0 {
		return nil
	}
	return r.db.Where("comment_id IN ?", commentIDs).Delete(&models.Vote{}).Error
}
