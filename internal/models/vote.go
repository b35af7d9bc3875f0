package models

import "time"

// Direction is a viewer-facing vote direction. DirectionNone means the user
// holds no vote on the comment; it is never stored as a row.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionNone Direction = "none"
)

// Vote values as stored in the ledger.
const (
	VoteValueUp   = 1
	VoteValueDown = -1
)

// Vote represents one user's vote on one comment. The unique index on
// (comment_id, user_id) guarantees at most one row per pair and makes the
// upsert the serialization point for concurrent writes.
type Vote struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CommentID uint      `json:"comment_id" gorm:"index;uniqueIndex:idx_comment_user_vote"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_comment_user_vote"`
	Value     int       `json:"value" gorm:"not null"` // 1 or -1
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VoteCounts holds the recomputed aggregate counts for a comment.
type VoteCounts struct {
	UpvoteCount   int64 `json:"upvote_count"`
	DownvoteCount int64 `json:"downvote_count"`
}

// VoteResult is returned after a vote mutation: authoritative counts plus the
// caller's resulting vote state, so clients can reconcile optimistic updates.
type VoteResult struct {
	VoteCounts
	ViewerVote Direction `json:"viewer_vote"`
}

// DirectionFromValue maps a stored ledger value to its Direction.
func DirectionFromValue(value int) Direction {
	switch value {
	case VoteValueUp:
		return DirectionUp
	case VoteValueDown:
		return DirectionDown
	default:
		return DirectionNone
	}
}

// ParseDirection validates a wire-format direction string.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case DirectionUp, DirectionDown, DirectionNone:
		return Direction(s), true
	}
	return DirectionNone, false
}
