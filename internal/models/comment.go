package models

import "time"

// Comment represents a comment on a texture pack. Replies reference their
// parent comment through ParentID; top-level comments have a nil ParentID.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PackID    string    `json:"pack_id" gorm:"index:idx_pack_parent_created;not null"` // ID of the pack the comment belongs to (MongoDB ObjectID as string)
	ParentID  *uint     `json:"parent_id" gorm:"index:idx_pack_parent_created"`        // Nullable for top-level comments
	AuthorID  uint      `json:"author_id" gorm:"index"`                                // ID of the user who wrote the comment
	Body      string    `json:"body" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_pack_parent_created"`
}

// CommentView is a Comment joined with its read-time derived fields. Vote and
// reply counts are never stored on the row; they are recomputed from the vote
// ledger and the comment table on every read.
type CommentView struct {
	ID            uint      `json:"id"`
	PackID        string    `json:"pack_id"`
	ParentID      *uint     `json:"parent_id"`
	AuthorID      uint      `json:"author_id"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"created_at"`
	UpvoteCount   int64     `json:"upvote_count"`
	DownvoteCount int64     `json:"downvote_count"`
	ReplyCount    int64     `json:"reply_count"`
	ViewerVote    Direction `json:"viewer_vote"`
}

// CommentPage is one page of comments plus pagination metadata.
type CommentPage struct {
	Items      []CommentView `json:"items"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Body     string `json:"body" validate:"required,max=500"`
	ParentID *uint  `json:"parent_id,omitempty"`
}

// SetVoteRequest defines the request body for voting on a comment
type SetVoteRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down none"`
}
