package site

import (
	"net/http"
	"sync"
	"time"

	"github.com/louisbranch/umsra/internal/platform/id"
	"github.com/louisbranch/umsra/internal/platform/timeouts"
)

const (
	flashCookieName      = "umsra_flash"
	flashCleanupInterval = time.Minute
)

type flashEntry struct {
	messages  []string
	expiresAt time.Time
}

// flashStore keeps queued messages keyed by a short-lived cookie value.
type flashStore struct {
	mu          sync.Mutex
	entries     map[string]flashEntry
	lastCleanup time.Time
	now         func() time.Time
}

func newFlashStore() *flashStore {
	return &flashStore{entries: make(map[string]flashEntry), now: time.Now}
}

func (s *flashStore) newKey() (string, error) {
	return id.NewID()
}

// Add appends a message for key and extends its lifetime.
func (s *flashStore) Add(key string, text string) {
	if s == nil || key == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.cleanupLocked(now)
	entry := s.entries[key]
	if now.After(entry.expiresAt) {
		entry.messages = nil
	}
	entry.messages = append(entry.messages, text)
	entry.expiresAt = now.Add(timeouts.FlashTTL)
	s.entries[key] = entry
}

// Pop returns and clears the messages queued for key.
func (s *flashStore) Pop(key string) []string {
	if s == nil || key == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.cleanupLocked(now)
	entry, ok := s.entries[key]
	if !ok {
		return nil
	}
	delete(s.entries, key)
	if now.After(entry.expiresAt) {
		return nil
	}
	return entry.messages
}

func (s *flashStore) cleanupLocked(now time.Time) {
	if now.Sub(s.lastCleanup) < flashCleanupInterval {
		return
	}
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
	s.lastCleanup = now
}

func flashKeyFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || !id.Valid(cookie.Value) {
		return ""
	}
	return cookie.Value
}

func setFlashCookie(w http.ResponseWriter, key string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    key,
		Path:     "/",
		MaxAge:   int(timeouts.FlashTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
