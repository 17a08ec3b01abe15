package wiki

// UserID identifies a chat user.
type UserID int64

// Session is the per-user state kept for the lifetime of the process.
type Session struct {
	Language  Language
	Bookmarks []string
	Searches  int
}

// NewSession returns the defaults assigned on first contact.
func NewSession() Session {
	return Session{
		Language:  DefaultLanguage,
		Bookmarks: []string{},
	}
}

// Clone returns a deep copy.
func (s Session) Clone() Session {
	cp := s
	cp.Bookmarks = append([]string{}, s.Bookmarks...)
	return cp
}

// BookmarkStatus reports the outcome of adding a bookmark.
type BookmarkStatus int

// Bookmark outcomes.
const (
	BookmarkAdded BookmarkStatus = iota
	BookmarkExists
)
