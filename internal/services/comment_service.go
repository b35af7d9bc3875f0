package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/CantWait1/PrivatePacks-sub000/internal/models"
	"github.com/CantWait1/PrivatePacks-sub000/internal/moderation"
	"github.com/CantWait1/PrivatePacks-sub000/internal/ratelimit"
	"github.com/CantWait1/PrivatePacks-sub000/internal/repositories"
	"gorm.io/gorm"
)

const (
	// MaxBodyLength is the comment body bound in characters, counted after
	// trimming surrounding whitespace.
	MaxBodyLength = 500

	// DefaultPageLimit is the page size for top-level comment listings.
	DefaultPageLimit = 5
)

// DefaultSubmissionPolicy bounds how many comments one identity may submit
// inside a single window.
var DefaultSubmissionPolicy = ratelimit.Policy{Limit: 5, Window: 60 * time.Second}

// CommentService orchestrates comment submission, retrieval, voting and
// deletion over the comment store, vote ledger, pack catalog, content policy
// filter and submission rate limiter. All collaborators are injected.
type CommentService struct {
	comments repositories.CommentRepository
	votes    repositories.VoteRepository
	packs    repositories.PackRepository
	filter   moderation.Filter
	limiter  ratelimit.Limiter
	ranker   *Ranker
	policy   ratelimit.Policy
}

// NewCommentService creates a CommentService with the default submission policy
func NewCommentService(
	comments repositories.CommentRepository,
	votes repositories.VoteRepository,
	packs repositories.PackRepository,
	filter moderation.Filter,
	limiter ratelimit.Limiter,
) *CommentService {
	return &CommentService{
		comments: comments,
		votes:    votes,
		packs:    packs,
		filter:   filter,
		limiter:  limiter,
		ranker:   NewRanker(comments, votes),
		policy:   DefaultSubmissionPolicy,
	}
}

// ListCommentsInput are the parameters for a comment listing. ViewerID of 0
// means anonymous. A non-nil ParentID selects one reply subtree, which is
// returned in full rather than paginated.
type ListCommentsInput struct {
	PackID   string
	ParentID *uint
	Sort     SortMode
	Page     int
	Limit    int
	ViewerID uint
}

// CreateCommentInput are the parameters for a comment submission.
type CreateCommentInput struct {
	PackID   string
	AuthorID uint
	Body     string
	ParentID *uint
}

// ListComments returns an ordered, annotated page of comments for a pack.
func (s *CommentService) ListComments(ctx context.Context, in ListCommentsInput) (*models.CommentPage, error) {
	if in.PackID == "" {
		return nil, invalidArgument("Pack ID is required")
	}

	mode := in.Sort
	if mode == "" {
		mode = SortRecent
	}

	// Reply subtrees are loaded lazily but whole: one call per parent.
	if in.ParentID != nil {
		return s.ranker.ListAll(in.PackID, in.ParentID, mode, in.ViewerID)
	}

	page := in.Page
	if page == 0 {
		page = 1
	}
	limit := in.Limit
	if limit == 0 {
		limit = DefaultPageLimit
	}

	return s.ranker.ListPage(in.PackID, nil, mode, page, limit, in.ViewerID)
}

// CreateComment runs the submission pipeline: identity, field validation,
// parent resolution, content policy, rate limit, persist. Steps run in that
// order and the first failure short-circuits the rest, so a policy-flagged
// comment never consumes a rate-limit slot and a rate-limited one is never
// persisted.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.CommentView, error) {
	if in.AuthorID == 0 {
		return nil, unauthorized("You must be signed in to comment")
	}
	if in.PackID == "" {
		return nil, invalidArgument("Pack ID is required")
	}

	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, invalidArgument("Comment cannot be empty")
	}
	if utf8.RuneCountInString(body) > MaxBodyLength {
		return nil, invalidArgument(fmt.Sprintf("Comment is too long (max %d characters)", MaxBodyLength))
	}

	if _, err := s.packs.GetPackByID(ctx, in.PackID); err != nil {
		if errors.Is(err, repositories.ErrPackNotFound) {
			return nil, notFound("Pack not found")
		}
		return nil, internalError("Failed to verify pack")
	}

	if in.ParentID != nil {
		parent, err := s.comments.GetCommentByID(*in.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFound("Parent comment not found")
			}
			return nil, internalError("Failed to load parent comment")
		}
		if parent.PackID != in.PackID {
			return nil, notFound("Parent comment not found")
		}
		if parent.ParentID != nil {
			return nil, invalidArgument("Replies cannot be nested")
		}
	}

	// A flagged result rejects the comment; a filter failure does not. The
	// filter is a secondary safeguard and discussion availability wins over
	// a broken filter.
	result, err := s.filter.Check(body)
	if err != nil {
		log.Printf("content filter error, submitting unfiltered: %v", err)
	} else {
		if result.Flagged {
			return nil, invalidArgument(result.Reason)
		}
		body = strings.TrimSpace(result.Sanitized)
		if body == "" {
			return nil, invalidArgument("Comment cannot be empty")
		}
	}

	// The rate limiter is fail-closed: if it cannot be consulted the
	// submission is rejected rather than granted a free pass.
	decision, err := s.limiter.Allow(ctx, fmt.Sprintf("comment:%d", in.AuthorID), s.policy)
	if err != nil {
		log.Printf("rate limiter error, rejecting submission: %v", err)
		return nil, internalError("Unable to verify submission quota, please try again")
	}
	if !decision.Allowed {
		return nil, rateLimited("Rate limit exceeded. Please try again later.", decision.Remaining, decision.ResetAt)
	}

	comment := &models.Comment{
		PackID:   in.PackID,
		ParentID: in.ParentID,
		AuthorID: in.AuthorID,
		Body:     body,
	}
	if err := s.comments.CreateComment(comment); err != nil {
		return nil, internalError("Failed to save comment")
	}

	// A fresh comment has no votes and no replies; the parent's reply count
	// is derived, so it updates on the parent's next read without any write.
	return &models.CommentView{
		ID:         comment.ID,
		PackID:     comment.PackID,
		ParentID:   comment.ParentID,
		AuthorID:   comment.AuthorID,
		Body:       comment.Body,
		CreatedAt:  comment.CreatedAt,
		ViewerVote: models.DirectionNone,
	}, nil
}

// SetVote moves the caller's vote on a comment to the requested direction.
// Every transition is legal, including a self-transition, which changes
// nothing. The returned counts are recomputed from the ledger after the
// change.
func (s *CommentService) SetVote(ctx context.Context, commentID, userID uint, direction models.Direction) (*models.VoteResult, error) {
	if userID == 0 {
		return nil, unauthorized("You must be signed in to vote")
	}

	if _, err := s.comments.GetCommentByID(commentID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFound("Comment not found")
		}
		return nil, internalError("Failed to load comment")
	}

	var err error
	switch direction {
	case models.DirectionUp:
		err = s.votes.SetVote(commentID, userID, models.VoteValueUp)
	case models.DirectionDown:
		err = s.votes.SetVote(commentID, userID, models.VoteValueDown)
	case models.DirectionNone:
		err = s.votes.ClearVote(commentID, userID)
	default:
		return nil, invalidArgument("Direction must be one of up, down, none")
	}
	if err != nil {
		return nil, internalError("Failed to record vote")
	}

	counts, err := s.votes.CountVotes(commentID)
	if err != nil {
		return nil, internalError("Failed to count votes")
	}

	return &models.VoteResult{
		VoteCounts: counts,
		ViewerVote: direction,
	}, nil
}

// DeleteComment removes a comment together with its direct replies and every
// vote on them. Owner-or-moderator authorization happens before this call;
// the service only performs the deletion. Votes go first so a partial failure
// cannot leave vote rows pointing at deleted comments.
func (s *CommentService) DeleteComment(ctx context.Context, commentID uint) error {
	comment, err := s.comments.GetCommentByID(commentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return notFound("Comment not found")
		}
		return internalError("Failed to load comment")
	}

	replies, err := s.comments.GetCommentsByParent(comment.PackID, &comment.ID)
	if err != nil {
		return internalError("Failed to load replies")
	}

	ids := make([]uint, 0, len(replies)+1)
	ids = append(ids, comment.ID)
	for _, reply := range replies {
		ids = append(ids, reply.ID)
	}

	if err := s.votes.DeleteVotesForComments(ids); err != nil {
		return internalError("Failed to delete votes")
	}
	for _, reply := range replies {
		if err := s.comments.DeleteComment(reply.ID); err != nil {
			return internalError("Failed to delete replies")
		}
	}
	if err := s.comments.DeleteComment(comment.ID); err != nil {
		return internalError("Failed to delete comment")
	}
	return nil
}

// GetComment returns a single annotated comment.
func (s *CommentService) GetComment(ctx context.Context, commentID, viewerID uint) (*models.CommentView, error) {
	comment, err := s.comments.GetCommentByID(commentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFound("Comment not found")
		}
		return nil, internalError("Failed to load comment")
	}

	views, err := s.ranker.Annotate([]models.Comment{*comment}, viewerID)
	if err != nil {
		return nil, internalError("Failed to load comment counts")
	}
	return &views[0], nil
}
