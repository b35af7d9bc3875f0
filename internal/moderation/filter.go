// Package moderation provides the content policy check run on comment bodies
// before they are persisted.
package moderation

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Result is the outcome of a policy check. Sanitized carries the text with
// HTML stripped; a flagged result must not be persisted.
type Result struct {
	Flagged   bool
	Reason    string
	Sanitized string
}

// Filter checks a comment body against the content policy. An error from
// Check means the filter itself failed, not that the text was flagged; the
// caller decides how to treat infrastructure failures.
type Filter interface {
	Check(text string) (Result, error)
}

// WordListFilter flags comments containing banned words or too many links,
// and strips any HTML markup from the body.
type WordListFilter struct {
	policy      *bluemonday.Policy
	bannedWords []string
	maxLinks    int
}

// NewWordListFilter creates a WordListFilter with the given banned words.
// maxLinks bounds how many URLs a comment may contain before it is treated
// as link spam; 0 disables the link check.
func NewWordListFilter(bannedWords []string, maxLinks int) *WordListFilter {
	lowered := make([]string, 0, len(bannedWords))
	for _, w := range bannedWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			lowered = append(lowered, w)
		}
	}
	return &WordListFilter{
		policy:      bluemonday.StrictPolicy(),
		bannedWords: lowered,
		maxLinks:    maxLinks,
	}
}

// Check strips HTML from the text and flags banned words and link spam
func (f *WordListFilter) Check(text string) (Result, error) {
	sanitized := f.policy.Sanitize(text)
	lowered := strings.ToLower(sanitized)

	for _, word := range f.bannedWords {
		if strings.Contains(lowered, word) {
			return Result{
				Flagged:   true,
				Reason:    "Comment contains prohibited language",
				Sanitized: sanitized,
			}, nil
		}
	}

	if f.maxLinks > 0 {
		links := strings.Count(lowered, "http://") + strings.Count(lowered, "https://")
		if links > f.maxLinks {
			return Result{
				Flagged:   true,
				Reason:    fmt.Sprintf("Comment contains too many links (max %d)", f.maxLinks),
				Sanitized: sanitized,
			}, nil
		}
	}

	return Result{Sanitized: sanitized}, nil
}
