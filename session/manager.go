// Package session keeps one game controller per browser session.
//
// Sessions live in memory only; an idle session is evicted once it has not
// been touched for the configured TTL.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"agi_race/metrics"
	"agi_race/story"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CookieName carries the session id.
const CookieName = "agi_session"

// Session is one player's controller plus bookkeeping.
type Session struct {
	ID         string
	Controller *story.Controller

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Manager hands out sessions keyed by cookie.
type Manager struct {
	narrator story.Narrator
	ttl      time.Duration
	metrics  *metrics.Metrics
	log      zerolog.Logger
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager builds a manager whose controllers narrate through n.
func NewManager(n story.Narrator, ttl time.Duration, m *metrics.Metrics, log zerolog.Logger) *Manager {
	return &Manager{
		narrator: n,
		ttl:      ttl,
		metrics:  m,
		log:      log.With().Str("component", "session").Logger(),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session named by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		s.touch(m.now())
	}
	return s, ok
}

// Create starts a fresh session at the initial game state.
func (m *Manager) Create() *Session {
	id := uuid.NewString()
	s := &Session{
		ID:         id,
		Controller: story.NewController(m.narrator, m.log.With().Str("session", id).Logger()),
		lastSeen:   m.now(),
	}

	m.mu.Lock()
	m.sessions[id] = s
	n := len(m.sessions)
	m.mu.Unlock()

	m.metrics.Sessions.Set(float64(n))
	m.log.Debug().Str("session", id).Msg("session created")
	return s
}

// FromRequest returns the caller's session, creating one and setting the
// cookie when the request carries none or an expired one.
func (m *Manager) FromRequest(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		if s, ok := m.Get(c.Value); ok {
			return s
		}
	}
	s := m.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

// Lookup returns the caller's session without creating one.
func (m *Manager) Lookup(r *http.Request) (*Session, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil, false
	}
	return m.Get(c.Value)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed. Sessions waiting on the narrator are kept.
func (m *Manager) Sweep() int {
	now := m.now()

	m.mu.Lock()
	removed := 0
	for id, s := range m.sessions {
		if s.idleSince(now) <= m.ttl {
			continue
		}
		if s.Controller.Status() == story.StatusAwaitingResponse {
			continue
		}
		delete(m.sessions, id)
		removed++
	}
	n := len(m.sessions)
	m.mu.Unlock()

	if removed > 0 {
		m.metrics.Sessions.Set(float64(n))
		m.log.Info().Int("evicted", removed).Int("live", n).Msg("idle sessions evicted")
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
