package handler

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	mid "github.com/hwalton/wildtubs-configurator/internal/middleware"
	"github.com/hwalton/wildtubs-configurator/internal/service"
	"github.com/hwalton/wildtubs-configurator/internal/utils"
)

const (
	sessionCookie = "configurator_session"
	sessionTTL    = 12 * time.Hour
	maxSessions   = 10000
)

type sessionEntry struct {
	mu       sync.Mutex
	ws       *service.Workspace
	lastSeen time.Time
}

// sessionStore keeps one Workspace per browser (or per API subject) in memory.
type sessionStore struct {
	catalogs map[string]*service.Catalog

	mu      sync.Mutex
	entries map[string]*sessionEntry
	max     int
	now     func() time.Time
}

func newSessionStore(catalogs map[string]*service.Catalog) *sessionStore {
	return &sessionStore{catalogs: catalogs, entries: map[string]*sessionEntry{}, max: maxSessions, now: time.Now}
}

// get returns the entry for key, creating it when missing.
func (s *sessionStore) get(key string) *sessionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if e, ok := s.entries[key]; ok {
		e.lastSeen = now
		return e
	}
	s.pruneLocked(now)
	if len(s.entries) >= s.max {
		s.evictOldestLocked()
	}
	e := &sessionEntry{ws: service.NewWorkspace(s.catalogs), lastSeen: now}
	s.entries[key] = e
	return e
}

func (s *sessionStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok
}

func (s *sessionStore) drop(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

func (s *sessionStore) evictOldestLocked() {
	var oldest string
	var seen time.Time
	for k, e := range s.entries {
		if oldest == "" || e.lastSeen.Before(seen) {
			oldest, seen = k, e.lastSeen
		}
	}
	delete(s.entries, oldest)
}

func (s *sessionStore) pruneLocked(now time.Time) {
	for k, e := range s.entries {
		if now.Sub(e.lastSeen) > sessionTTL {
			delete(s.entries, k)
		}
	}
}

// sessionKey identifies the caller: the token subject for API clients,
// otherwise the browser cookie, issued here on first visit.
func (h *Handler) sessionKey(w http.ResponseWriter, r *http.Request) string {
	if sub := mid.Subject(r.Context()); sub != "" {
		return "sub:" + sub
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil && h.sessions.has("cookie:"+c.Value) {
			return "cookie:" + c.Value
		}
	}
	id := uuid.NewString()
	utils.SetCookie(w, r, sessionCookie, id, time.Now().Add(sessionTTL))
	return "cookie:" + id
}

// withSession runs fn on the caller's session for kind, holding the
// workspace lock for the duration.
func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, kind string, fn func(*service.Session)) error {
	if _, ok := h.catalog(kind); !ok {
		return fmt.Errorf("%w: %s", service.ErrUnknownKind, kind)
	}
	e := h.sessions.get(h.sessionKey(w, r))
	e.mu.Lock()
	defer e.mu.Unlock()
	sess, err := e.ws.Switch(kind)
	if err != nil {
		return err
	}
	fn(sess)
	return nil
}

func logSelectErr(kind string, err error) {
	log.Printf("configurator %s: %v", kind, err)
}
