package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/CantWait1/PrivatePacks-sub000/internal/models"
	"github.com/CantWait1/PrivatePacks-sub000/internal/moderation"
	"github.com/CantWait1/PrivatePacks-sub000/internal/ratelimit"
	"github.com/CantWait1/PrivatePacks-sub000/internal/repositories"
	"gorm.io/gorm"
)

// memCommentRepo is a slice-backed CommentRepository mirroring the Postgres
// implementation's ordering: created_at descending with ID as the tie-break.
// getByIDErr, when set, simulates a store failure on lookups.
type memCommentRepo struct {
	nextID     uint
	comments   []models.Comment
	getByIDErr error
}

func newMemCommentRepo() *memCommentRepo {
	return &memCommentRepo{nextID: 1}
}

func (m *memCommentRepo) CreateComment(c *models.Comment) error {
	c.ID = m.nextID
	m.nextID++
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	m.comments = append(m.comments, *c)
	return nil
}

func (m *memCommentRepo) GetCommentByID(id uint) (*models.Comment, error) {
	if m.getByIDErr != nil {
		return nil, m.getByIDErr
	}
	for i := range m.comments {
		if m.comments[i].ID == id {
			c := m.comments[i]
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func sameParent(c models.Comment, parentID *uint) bool {
	if parentID == nil {
		return c.ParentID == nil
	}
	return c.ParentID != nil && *c.ParentID == *parentID
}

func (m *memCommentRepo) matching(packID string, parentID *uint) []models.Comment {
	var out []models.Comment
	for _, c := range m.comments {
		if c.PackID == packID && sameParent(c, parentID) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *memCommentRepo) GetCommentPage(packID string, parentID *uint, offset, limit int) ([]models.Comment, int64, error) {
	all := m.matching(packID, parentID)
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

func (m *memCommentRepo) GetCommentsByParent(packID string, parentID *uint) ([]models.Comment, error) {
	return m.matching(packID, parentID), nil
}

func (m *memCommentRepo) CountReplies(commentID uint) (int64, error) {
	var count int64
	for _, c := range m.comments {
		if c.ParentID != nil && *c.ParentID == commentID {
			count++
		}
	}
	return count, nil
}

func (m *memCommentRepo) CountRepliesByParent(parentIDs []uint) (map[uint]int64, error) {
	counts := map[uint]int64{}
	for _, id := range parentIDs {
		for _, c := range m.comments {
			if c.ParentID != nil && *c.ParentID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (m *memCommentRepo) DeleteComment(id uint) error {
	for i := range m.comments {
		if m.comments[i].ID == id {
			m.comments = append(m.comments[:i], m.comments[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type voteKey struct {
	commentID uint
	userID    uint
}

// memVoteRepo is a map-backed VoteRepository; one entry per (comment, user)
// pair, matching the ledger's unique index.
type memVoteRepo struct {
	votes map[voteKey]int
}

func newMemVoteRepo() *memVoteRepo {
	return &memVoteRepo{votes: map[voteKey]int{}}
}

func (m *memVoteRepo) SetVote(commentID, userID uint, value int) error {
	m.votes[voteKey{commentID, userID}] = value
	return nil
}

func (m *memVoteRepo) ClearVote(commentID, userID uint) error {
	delete(m.votes, voteKey{commentID, userID})
	return nil
}

func (m *memVoteRepo) GetUserVote(commentID, userID uint) (int, error) {
	return m.votes[voteKey{commentID, userID}], nil
}

func (m *memVoteRepo) CountVotes(commentID uint) (models.VoteCounts, error) {
	var counts models.VoteCounts
	for k, v := range m.votes {
		if k.commentID != commentID {
			continue
		}
		if v == models.VoteValueUp {
			counts.UpvoteCount++
		} else {
			counts.DownvoteCount++
		}
	}
	return counts, nil
}

func (m *memVoteRepo) CountVotesByComment(commentIDs []uint) (map[uint]models.VoteCounts, error) {
	out := map[uint]models.VoteCounts{}
	for _, id := range commentIDs {
		counts, _ := m.CountVotes(id)
		if counts.UpvoteCount != 0 || counts.DownvoteCount != 0 {
			out[id] = counts
		}
	}
	return out, nil
}

func (m *memVoteRepo) GetUserVotesByComment(commentIDs []uint, userID uint) (map[uint]int, error) {
	out := map[uint]int{}
	for _, id := range commentIDs {
		if v, ok := m.votes[voteKey{id, userID}]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func (m *memVoteRepo) DeleteVotesForComments(commentIDs []uint) error {
	for _, id := range commentIDs {
		for k := range m.votes {
			if k.commentID == id {
				delete(m.votes, k)
			}
		}
	}
	return nil
}

// fakePackRepo recognizes a fixed set of pack IDs. getErr, when set, simulates
// a catalog store failure.
type fakePackRepo struct {
	ids    map[string]bool
	getErr error
}

func newFakePackRepo(ids ...string) *fakePackRepo {
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return &fakePackRepo{ids: known}
}

func (f *fakePackRepo) CreatePack(ctx context.Context, pack *models.Pack) error {
	return nil
}

func (f *fakePackRepo) GetPackByID(ctx context.Context, id string) (*models.Pack, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if !f.ids[id] {
		return nil, repositories.ErrPackNotFound
	}
	return &models.Pack{Name: id}, nil
}

func (f *fakePackRepo) GetAllPacks(ctx context.Context, skip, limit int64) ([]models.Pack, error) {
	return nil, nil
}

func (f *fakePackRepo) DeletePack(ctx context.Context, id string) error {
	return nil
}

func (f *fakePackRepo) IncrementDownloads(ctx context.Context, id string) error {
	return nil
}

// fakeFilter delegates to checkFunc and counts calls. The zero-value behavior
// passes everything through unchanged.
type fakeFilter struct {
	checkFunc func(text string) (moderation.Result, error)
	calls     int
}

func (f *fakeFilter) Check(text string) (moderation.Result, error) {
	f.calls++
	if f.checkFunc != nil {
		return f.checkFunc(text)
	}
	return moderation.Result{Sanitized: text}, nil
}

// fakeLimiter delegates to allowFunc and counts calls. The zero-value behavior
// allows everything.
type fakeLimiter struct {
	allowFunc func(identity string, policy ratelimit.Policy) (ratelimit.Decision, error)
	calls     int
}

func (f *fakeLimiter) Allow(ctx context.Context, identity string, policy ratelimit.Policy) (ratelimit.Decision, error) {
	f.calls++
	if f.allowFunc != nil {
		return f.allowFunc(identity, policy)
	}
	return ratelimit.Decision{
		Allowed:   true,
		Remaining: policy.Limit - 1,
		ResetAt:   time.Now().Add(policy.Window),
	}, nil
}

type serviceFixture struct {
	service  *CommentService
	comments *memCommentRepo
	votes    *memVoteRepo
	packs    *fakePackRepo
	filter   *fakeFilter
	limiter  *fakeLimiter
}

func newServiceFixture(packIDs ...string) *serviceFixture {
	f := &serviceFixture{
		comments: newMemCommentRepo(),
		votes:    newMemVoteRepo(),
		packs:    newFakePackRepo(packIDs...),
		filter:   &fakeFilter{},
		limiter:  &fakeLimiter{},
	}
	f.service = NewCommentService(f.comments, f.votes, f.packs, f.filter, f.limiter)
	return f
}

func asDomainError(err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return nil
}

func uintPtr(v uint) *uint {
	return &v
}
