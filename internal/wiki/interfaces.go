package wiki

import (
	"context"
	"time"
)

// Fetcher retrieves a page over the network.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// SessionStore owns per-user session state.
type SessionStore interface {
	Snapshot(user UserID) Session
	Language(user UserID) Language
	SetLanguage(user UserID, lang Language)
	IncrementSearches(user UserID) int
	AddBookmark(user UserID, text string) BookmarkStatus
	ClearBookmarks(user UserID)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
