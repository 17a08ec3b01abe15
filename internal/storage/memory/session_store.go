// Package memory provides in-process state stores.
package memory

import (
	"slices"
	"sync"

	"github.com/JakeFAU/wiki-scraper/internal/wiki"
)

// SessionStore keeps per-user sessions for the lifetime of the process.
// The map lock is only held to find or create an entry; each entry carries its
// own lock so operations for different users never contend.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[wiki.UserID]*sessionEntry
}

type sessionEntry struct {
	mu      sync.Mutex
	session wiki.Session
}

// NewSessionStore constructs an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[wiki.UserID]*sessionEntry)}
}

func (s *SessionStore) entry(user wiki.UserID) *sessionEntry {
	s.mu.RLock()
	e, ok := s.sessions[user]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.sessions[user]; ok {
		return e
	}
	e = &sessionEntry{session: wiki.NewSession()}
	s.sessions[user] = e
	return e
}

// Snapshot returns a copy of the user's session.
func (s *SessionStore) Snapshot(user wiki.UserID) wiki.Session {
	e := s.entry(user)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone()
}

// Language returns the user's language preference.
func (s *SessionStore) Language(user wiki.UserID) wiki.Language {
	e := s.entry(user)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Language
}

// SetLanguage replaces the user's language preference.
func (s *SessionStore) SetLanguage(user wiki.UserID, lang wiki.Language) {
	e := s.entry(user)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Language = lang
}

// IncrementSearches bumps the search counter and returns the new value.
func (s *SessionStore) IncrementSearches(user wiki.UserID) int {
	e := s.entry(user)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Searches++
	return e.session.Searches
}

// AddBookmark appends text unless it is already bookmarked.
func (s *SessionStore) AddBookmark(user wiki.UserID, text string) wiki.BookmarkStatus {
	e := s.entry(user)
	e.mu.Lock()
	defer e.mu.Unlock()
	if slices.Contains(e.session.Bookmarks, text) {
		return wiki.BookmarkExists
	}
	e.session.Bookmarks = append(e.session.Bookmarks, text)
	return wiki.BookmarkAdded
}

// ClearBookmarks removes every bookmark.
func (s *SessionStore) ClearBookmarks(user wiki.UserID) {
	e := s.entry(user)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Bookmarks = []string{}
}

// Len reports how many users have been seen.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
