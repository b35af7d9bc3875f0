package services

import (
	"math"
	"sort"

	"github.com/CantWait1/PrivatePacks-sub000/internal/models"
	"github.com/CantWait1/PrivatePacks-sub000/internal/repositories"
)

// SortMode selects the ordering of a comment listing.
type SortMode string

const (
	SortRecent  SortMode = "recent"
	SortPopular SortMode = "popular"
)

// ParseSortMode validates a wire-format sort mode, defaulting to recent for
// an empty string.
func ParseSortMode(s string) (SortMode, bool) {
	switch SortMode(s) {
	case "":
		return SortRecent, true
	case SortRecent, SortPopular:
		return SortMode(s), true
	}
	return SortRecent, false
}

// Ranker produces ordered, paginated comment listings with per-viewer
// annotation. It owns no state: vote counts are recomputed from the ledger on
// every call because votes are mutable and no cached counter exists.
type Ranker struct {
	comments repositories.CommentRepository
	votes    repositories.VoteRepository
}

// NewRanker creates a Ranker over the comment store and vote ledger
func NewRanker(comments repositories.CommentRepository, votes repositories.VoteRepository) *Ranker {
	return &Ranker{comments: comments, votes: votes}
}

// ListPage returns one page of comments under the given pack and parent
// filter. viewerID of 0 means anonymous: every ViewerVote comes back none.
func (r *Ranker) ListPage(packID string, parentID *uint, mode SortMode, page, limit int, viewerID uint) (*models.CommentPage, error) {
	if limit < 1 {
		return nil, invalidArgument("Limit must be at least 1")
	}
	if page < 1 {
		return nil, invalidArgument("Page must be at least 1")
	}

	offset := (page - 1) * limit

	var (
		window []models.Comment
		total  int64
		err    error
	)
	switch mode {
	case SortPopular:
		window, total, err = r.popularPage(packID, parentID, offset, limit)
	default:
		window, total, err = r.comments.GetCommentPage(packID, parentID, offset, limit)
	}
	if err != nil {
		return nil, internalError("Failed to load comments")
	}

	items, err := r.Annotate(window, viewerID)
	if err != nil {
		return nil, internalError("Failed to load comment counts")
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	return &models.CommentPage{
		Items:      items,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// ListAll returns every comment under the given pack and parent filter in one
// unpaginated result. Reply subtrees are fetched this way.
func (r *Ranker) ListAll(packID string, parentID *uint, mode SortMode, viewerID uint) (*models.CommentPage, error) {
	all, err := r.comments.GetCommentsByParent(packID, parentID)
	if err != nil {
		return nil, internalError("Failed to load comments")
	}

	if mode == SortPopular {
		if err := r.sortByPopularity(all); err != nil {
			return nil, internalError("Failed to load vote counts")
		}
	}

	items, err := r.Annotate(all, viewerID)
	if err != nil {
		return nil, internalError("Failed to load comment counts")
	}

	totalPages := 1
	if len(items) == 0 {
		totalPages = 0
	}

	return &models.CommentPage{
		Items:      items,
		Total:      int64(len(items)),
		Page:       1,
		TotalPages: totalPages,
	}, nil
}

// popularPage fetches the full candidate set, ranks it by recomputed vote
// counts, and slices out the requested window. Popularity cannot be paged in
// the database because counts are derived, not stored.
func (r *Ranker) popularPage(packID string, parentID *uint, offset, limit int) ([]models.Comment, int64, error) {
	all, err := r.comments.GetCommentsByParent(packID, parentID)
	if err != nil {
		return nil, 0, err
	}
	if err := r.sortByPopularity(all); err != nil {
		return nil, 0, err
	}

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// sortByPopularity orders comments by upvote count descending, breaking ties
// by recency and finally by ID so pagination stays a total order even when
// timestamps collide.
func (r *Ranker) sortByPopularity(comments []models.Comment) error {
	ids := commentIDs(comments)
	counts, err := r.votes.CountVotesByComment(ids)
	if err != nil {
		return err
	}

	sort.SliceStable(comments, func(i, j int) bool {
		ci, cj := counts[comments[i].ID], counts[comments[j].ID]
		if ci.UpvoteCount != cj.UpvoteCount {
			return ci.UpvoteCount > cj.UpvoteCount
		}
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.After(comments[j].CreatedAt)
		}
		return comments[i].ID > comments[j].ID
	})
	return nil
}

// Annotate joins vote counts, reply counts and the viewer's own votes onto a
// slice of comments.
func (r *Ranker) Annotate(comments []models.Comment, viewerID uint) ([]models.CommentView, error) {
	views := make([]models.CommentView, 0, len(comments))
	if len(comments) == 0 {
		return views, nil
	}

	ids := commentIDs(comments)

	voteCounts, err := r.votes.CountVotesByComment(ids)
	if err != nil {
		return nil, err
	}
	replyCounts, err := r.comments.CountRepliesByParent(ids)
	if err != nil {
		return nil, err
	}

	viewerVotes := map[uint]int{}
	if viewerID != 0 {
		viewerVotes, err = r.votes.GetUserVotesByComment(ids, viewerID)
		if err != nil {
			return nil, err
		}
	}

	for _, c := range comments {
		counts := voteCounts[c.ID]
		views = append(views, models.CommentView{
			ID:            c.ID,
			PackID:        c.PackID,
			ParentID:      c.ParentID,
			AuthorID:      c.AuthorID,
			Body:          c.Body,
			CreatedAt:     c.CreatedAt,
			UpvoteCount:   counts.UpvoteCount,
			DownvoteCount: counts.DownvoteCount,
			ReplyCount:    replyCounts[c.ID],
			ViewerVote:    models.DirectionFromValue(viewerVotes[c.ID]),
		})
	}
	return views, nil
}

func commentIDs(comments []models.Comment) []uint {
	ids := make([]uint, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	return ids
}
