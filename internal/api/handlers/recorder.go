package handlers

import (
	"sync"
	"time"

	"hazard-route-service/internal/domain"
	"hazard-route-service/internal/platform/logger"

	"go.uber.org/zap"
)

const maxNotices = 10

type notice struct {
	component string
	message   string
	at        time.Time
}

// SessionRecorder is the API's session listener. It keeps what a polling
// client needs beyond the session snapshot: the last failure message and
// recent degraded notices.
type SessionRecorder struct {
	id string // immutable

	mu          sync.Mutex
	lastFailure string
	notices     []notice
}

func NewSessionRecorder(id string) *SessionRecorder {
	return &SessionRecorder{id: id}
}

func (r *SessionRecorder) RouteReady(generation uint64, route *domain.Route) {
	r.mu.Lock()
	r.lastFailure = ""
	r.mu.Unlock()

	logger.Info("route ready",
		zap.String("session_id", r.id),
		zap.Uint64("generation", generation),
		zap.String("provider", route.Provider),
		zap.Float64("distance_m", route.DistanceMeters),
	)
}

func (r *SessionRecorder) RouteFailed(generation uint64, reason string) {
	r.mu.Lock()
	r.lastFailure = reason
	r.mu.Unlock()

	logger.Info("route failed", zap.String("session_id", r.id), zap.Uint64("generation", generation), zap.String("reason", reason))
}

func (r *SessionRecorder) DelayEstimateReady(generation uint64, estimate domain.DelayEstimate) {
	logger.Debug("delay estimate ready",
		zap.String("session_id", r.id),
		zap.Uint64("generation", generation),
		zap.Int("minutes", estimate.TotalMinutes),
	)
}

func (r *SessionRecorder) NarrationStateChanged(state domain.NarrationState, index int) {
	logger.Debug("narration state", zap.String("session_id", r.id), zap.String("state", string(state)), zap.Int("index", index))
}

func (r *SessionRecorder) Degraded(component string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notices = append(r.notices, notice{component: component, message: err.Error(), at: time.Now().UTC()})
	if len(r.notices) > maxNotices {
		r.notices = r.notices[len(r.notices)-maxNotices:]
	}
}

func (r *SessionRecorder) state() (string, []notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastFailure, append([]notice(nil), r.notices...)
}
