package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"hazard-route-service/internal/domain"
	"hazard-route-service/internal/platform/logger"
	"hazard-route-service/internal/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionRegistry keeps the live sessions of this process, keyed by uuid.
// Sessions are never persisted.
type SessionRegistry struct {
	deps SessionDeps
	now  func() time.Time

	mu       sync.RWMutex
	sessions map[string]*RouteSession
}

func NewSessionRegistry(deps SessionDeps) *SessionRegistry {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &SessionRegistry{deps: deps, now: now, sessions: make(map[string]*RouteSession)}
}

// Create starts a new session reporting to listener and returns its id.
func (r *SessionRegistry) Create(listener ports.SessionListener) (string, *RouteSession) {
	return r.CreateWith(func(string) ports.SessionListener { return listener })
}

// CreateWith builds the session's listener from its id before the session
// becomes reachable through the registry.
func (r *SessionRegistry) CreateWith(newListener func(id string) ports.SessionListener) (string, *RouteSession) {
	id := uuid.NewString()
	s := NewRouteSession(r.deps, newListener(id))

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	logger.Info("session created", zap.String("session_id", id))
	return id, s
}

func (r *SessionRegistry) Get(id string) (*RouteSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Delete removes and closes a session. It reports whether the id existed.
func (r *SessionRegistry) Delete(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		s.Close()
	}
	return ok
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// RefreshTraffic re-samples hazards for every session that has an accepted
// route. It returns the number of sessions refreshed.
func (r *SessionRegistry) RefreshTraffic(ctx context.Context) int {
	refreshed := 0
	for id, s := range r.snapshot() {
		if ctx.Err() != nil {
			break
		}
		err := s.RefreshTraffic(ctx)
		if errors.Is(err, domain.ErrNoActiveRoute) {
			continue
		}
		if err != nil {
			logger.Warn("traffic refresh failed", zap.String("session_id", id), zap.Error(err))
			continue
		}
		refreshed++
	}
	return refreshed
}

// PruneIdle closes sessions inactive for longer than ttl and returns how many were removed.
func (r *SessionRegistry) PruneIdle(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	var idle []string
	for id, s := range r.snapshot() {
		if s.LastActive().Before(cutoff) {
			idle = append(idle, id)
		}
	}

	pruned := 0
	for _, id := range idle {
		if r.Delete(id) {
			pruned++
		}
	}
	if pruned > 0 {
		logger.Info("pruned idle sessions", zap.Int("count", pruned))
	}
	return pruned
}

func (r *SessionRegistry) snapshot() map[string]*RouteSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*RouteSession, len(r.sessions))
	for id, s := range r.sessions {
		out[id] = s
	}
	return out
}
