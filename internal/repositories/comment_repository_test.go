package repositories

import (
	"testing"
	"time"

	"github.com/CantWait1/PrivatePacks-sub000/internal/models"
	"gorm.io/gorm"
)

func seedComment(t *testing.T, repo *PostgresCommentRepository, packID string, parentID *uint, authorID uint, body string, createdAt time.Time) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		PackID:    packID,
		ParentID:  parentID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: createdAt,
	}
	if err := repo.CreateComment(comment); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	return comment
}

func TestGetCommentPageOrderAndTotal(t *testing.T) {
	repo := NewPostgresCommentRepository(openTestDB(t))

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	first := seedComment(t, repo, "pack-1", nil, 1, "first", base)
	second := seedComment(t, repo, "pack-1", nil, 2, "second", base.Add(time.Minute))
	third := seedComment(t, repo, "pack-1", nil, 3, "third", base.Add(2*time.Minute))
	// A reply and a comment on another pack must not appear in the page.
	seedComment(t, repo, "pack-1", uintPtr(first.ID), 2, "reply", base.Add(3*time.Minute))
	seedComment(t, repo, "pack-2", nil, 1, "other pack", base.Add(4*time.Minute))

	comments, total, err := repo.GetCommentPage("pack-1", nil, 0, 2)
	if err != nil {
		t.Fatalf("GetCommentPage failed: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments in window, got %d", len(comments))
	}
	if comments[0].ID != third.ID || comments[1].ID != second.ID {
		t.Errorf("expected newest-first order [%d %d], got [%d %d]", third.ID, second.ID, comments[0].ID, comments[1].ID)
	}

	comments, total, err = repo.GetCommentPage("pack-1", nil, 2, 2)
	if err != nil {
		t.Fatalf("GetCommentPage failed: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(comments) != 1 || comments[0].ID != first.ID {
		t.Errorf("expected final window [%d], got %v", first.ID, comments)
	}
}

func TestGetCommentPageTiebreakOnEqualTimestamps(t *testing.T) {
	repo := NewPostgresCommentRepository(openTestDB(t))

	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	a := seedComment(t, repo, "pack-1", nil, 1, "a", at)
	b := seedComment(t, repo, "pack-1", nil, 2, "b", at)
	c := seedComment(t, repo, "pack-1", nil, 3, "c", at)

	// Concatenating windows of size 1 must yield every comment exactly once,
	// in a stable order, even though all timestamps collide.
	want := []uint{c.ID, b.ID, a.ID}
	var got []uint
	for offset := 0; offset < 3; offset++ {
		comments, _, err := repo.GetCommentPage("pack-1", nil, offset, 1)
		if err != nil {
			t.Fatalf("GetCommentPage failed: %v", err)
		}
		if len(comments) != 1 {
			t.Fatalf("expected 1 comment at offset %d, got %d", offset, len(comments))
		}
		got = append(got, comments[0].ID)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected ID-descending tiebreak %v, got %v", want, got)
		}
	}
}

func TestGetCommentPageBeyondEnd(t *testing.T) {
	repo := NewPostgresCommentRepository(openTestDB(t))
	seedComment(t, repo, "pack-1", nil, 1, "only", time.Now())

	comments, total, err := repo.GetCommentPage("pack-1", nil, 10, 5)
	if err != nil {
		t.Fatalf("GetCommentPage failed: %v", err)
	}
	if total != 1 {
		t.Errorf("expected total 1, got %d", total)
	}
	if len(comments) != 0 {
		t.Errorf("expected empty window, got %d comments", len(comments))
	}
}

func TestGetCommentsByParent(t *testing.T) {
	repo := NewPostgresCommentRepository(openTestDB(t))

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	parent := seedComment(t, repo, "pack-1", nil, 1, "parent", base)
	r1 := seedComment(t, repo, "pack-1", uintPtr(parent.ID), 2, "reply 1", base.Add(time.Minute))
	r2 := seedComment(t, repo, "pack-1", uintPtr(parent.ID), 3, "reply 2", base.Add(2*time.Minute))
	seedComment(t, repo, "pack-1", nil, 4, "unrelated", base.Add(3*time.Minute))

	replies, err := repo.GetCommentsByParent("pack-1", uintPtr(parent.ID))
	if err != nil {
		t.Fatalf("GetCommentsByParent failed: %v", err)
	}
	if len(replies) != 2 {
		t.Fatalf("expected 2 replies, got %d", len(replies))
	}
	if replies[0].ID != r2.ID || replies[1].ID != r1.ID {
		t.Errorf("expected newest-first replies [%d %d], got [%d %d]", r2.ID, r1.ID, replies[0].ID, replies[1].ID)
	}
}

func TestCountReplies(t *testing.T) {
	repo := NewPostgresCommentRepository(openTestDB(t))

	base := time.Now()
	parentA := seedComment(t, repo, "pack-1", nil, 1, "a", base)
	parentB := seedComment(t, repo, "pack-1", nil, 2, "b", base)
	seedComment(t, repo, "pack-1", uintPtr(parentA.ID), 3, "r1", base)
	seedComment(t, repo, "pack-1", uintPtr(parentA.ID), 4, "r2", base)

	count, err := repo.CountReplies(parentA.ID)
	if err != nil {
		t.Fatalf("CountReplies failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 replies, got %d", count)
	}

	counts, err := repo.CountRepliesByParent([]uint{parentA.ID, parentB.ID})
	if err != nil {
		t.Fatalf("CountRepliesByParent failed: %v", err)
	}
	if counts[parentA.ID] != 2 {
		t.Errorf("expected 2 replies for parent A, got %d", counts[parentA.ID])
	}
	if counts[parentB.ID] != 0 {
		t.Errorf("expected 0 replies for parent B, got %d", counts[parentB.ID])
	}
}

func TestDeleteComment(t *testing.T) {
	repo := NewPostgresCommentRepository(openTestDB(t))
	comment := seedComment(t, repo, "pack-1", nil, 1, "bye", time.Now())

	if err := repo.DeleteComment(comment.ID); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	if _, err := repo.GetCommentByID(comment.ID); err != gorm.ErrRecordNotFound {
		t.Errorf("expected ErrRecordNotFound after delete, got %v", err)
	}
	if err := repo.DeleteComment(comment.ID); err != gorm.ErrRecordNotFound {
		t.Errorf("expected ErrRecordNotFound for repeated delete, got %v", err)
	}
}
