package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hazard-route-service/internal/domain"
	"hazard-route-service/internal/platform/logger"
	"hazard-route-service/internal/platform/obs"
	"hazard-route-service/internal/ports"

	"go.uber.org/zap"
)

// Degraded-state component names used with DegradedPolicy.
const (
	ComponentTraffic   = "traffic"
	ComponentNarration = "narration"
)

// DegradedPolicy decides which degraded components are reported to the listener.
type DegradedPolicy interface {
	DegradedVisible(component string) bool
}

// SessionDeps are the collaborators shared by every session.
type SessionDeps struct {
	Router    ports.RouteProvider
	Sampler   *TrafficSampler
	Estimator *DelayEstimator
	Speaker   ports.Speaker
	Styler    ports.InstructionStyler
	Policy    DegradedPolicy
	Now       func() time.Time
}

// SessionSnapshot is a consistent copy of a session's state.
type SessionSnapshot struct {
	Generation     uint64
	Waypoints      []domain.Waypoint
	Route          *domain.Route
	Delay          *domain.DelayEstimate
	NarrationState domain.NarrationState
	NarrationIndex int
	Narration      *domain.NarrationQueue
	LastActive     time.Time
}

// RouteSession is the aggregate root for one user's routing state.
//
// Every recalculation takes a new generation. Results computed under an older
// generation are discarded, so the accepted Route and DelayEstimate always
// belong to the latest waypoint list. Listener callbacks run without the
// session lock held and may arrive from background goroutines.
type RouteSession struct {
	deps      SessionDeps
	listener  ports.SessionListener
	narration *NarrationSequencer

	mu         sync.Mutex
	generation uint64
	waypoints  [domain.MaxWaypoints]*domain.Waypoint
	route      *domain.Route
	routeGen   uint64
	delay      *domain.DelayEstimate
	lastActive time.Time

	bg sync.WaitGroup
}

func NewRouteSession(deps SessionDeps, listener ports.SessionListener) *RouteSession {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if listener == nil {
		listener = noopListener{}
	}

	s := &RouteSession{deps: deps, listener: listener, lastActive: deps.Now()}
	s.narration = NewNarrationSequencer(
		deps.Speaker,
		deps.Styler,
		listener.NarrationStateChanged,
		func(err error) { s.degraded(ComponentNarration, err) },
	)
	return s
}

func (s *RouteSession) Listener() ports.SessionListener { return s.listener }

// PlaceWaypoint puts wp into slot, replacing whatever was there.
func (s *RouteSession) PlaceWaypoint(slot int, wp domain.Waypoint) error {
	if slot < 0 || slot >= domain.MaxWaypoints {
		return fmt.Errorf("place waypoint: slot %d out of range: %w", slot, domain.ErrInvalidWaypoints)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.waypoints[slot] = wp.At(slot)
	s.touchLocked()
	return nil
}

func (s *RouteSession) RemoveWaypoint(slot int) error {
	if slot < 0 || slot >= domain.MaxWaypoints {
		return fmt.Errorf("remove waypoint: slot %d out of range: %w", slot, domain.ErrInvalidWaypoints)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.waypoints[slot] = nil
	s.touchLocked()
	return nil
}

// Waypoints returns the placed waypoints in slot order.
func (s *RouteSession) Waypoints() []domain.Waypoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waypointsLocked()
}

func (s *RouteSession) waypointsLocked() []domain.Waypoint {
	out := make([]domain.Waypoint, 0, domain.MaxWaypoints)
	for _, wp := range s.waypoints {
		if wp != nil {
			out = append(out, *wp)
		}
	}
	return out
}

// Recalculate replaces the waypoint list and computes a new route for it.
// Nil entries are empty slots. The route is accepted only if no newer
// recalculation started meanwhile; otherwise domain.ErrStaleResult is
// returned and the session is left untouched. Hazard sampling continues in
// the background after a route is accepted.
func (s *RouteSession) Recalculate(ctx context.Context, waypoints []*domain.Waypoint) error {
	if len(waypoints) > domain.MaxWaypoints {
		return fmt.Errorf("recalculate: %d waypoints exceeds %d: %w", len(waypoints), domain.MaxWaypoints, domain.ErrInvalidWaypoints)
	}
	return s.recalculate(ctx, true, waypoints)
}

// RecalculateCurrent computes a route for the waypoints already placed in the session.
func (s *RouteSession) RecalculateCurrent(ctx context.Context) error {
	return s.recalculate(ctx, false, nil)
}

func (s *RouteSession) recalculate(ctx context.Context, replace bool, waypoints []*domain.Waypoint) (err error) {
	defer obs.Time(ctx, "session.Recalculate")(&err)

	s.mu.Lock()
	if replace {
		s.waypoints = [domain.MaxWaypoints]*domain.Waypoint{}
		for i, wp := range waypoints {
			if wp != nil {
				s.waypoints[i] = wp.At(i)
			}
		}
	}
	s.generation++
	g := s.generation
	placed := s.waypointsLocked()
	s.touchLocked()

	if len(placed) < 2 {
		s.clearLocked(g)
		s.mu.Unlock()

		s.narration.Stop()
		err := fmt.Errorf("recalculate: %d waypoint(s) placed: %w", len(placed), domain.ErrInvalidWaypoints)
		s.listener.RouteFailed(g, domain.ErrInvalidWaypoints.Error())
		return err
	}
	s.mu.Unlock()

	coords := make([]domain.Coordinates, len(placed))
	for i, wp := range placed {
		coords[i] = wp.Coords
	}

	// Provider steps carry their own timeouts; a caller that goes away must not
	// turn an in-flight computation into RouteUnavailable.
	route, routeErr := s.deps.Router.ComputeRoute(context.WithoutCancel(ctx), coords)

	s.mu.Lock()
	if g != s.generation {
		s.mu.Unlock()
		logger.Debug("discarding route result", zap.Uint64("generation", g), zap.Error(domain.ErrStaleResult))
		return fmt.Errorf("recalculate generation %d: %w", g, domain.ErrStaleResult)
	}

	if routeErr != nil {
		s.clearLocked(g)
		s.mu.Unlock()

		s.narration.Stop()
		s.listener.RouteFailed(g, domain.ErrRouteUnavailable.Error())
		return fmt.Errorf("recalculate: %w", routeErr)
	}

	s.route = route
	s.routeGen = g
	s.delay = nil
	s.mu.Unlock()

	s.listener.RouteReady(g, route)

	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		s.applyTraffic(context.WithoutCancel(ctx), g, route)
	}()

	return nil
}

// RefreshTraffic re-samples hazards for the current route under the current
// generation. It is a no-op error when no route is accepted.
func (s *RouteSession) RefreshTraffic(ctx context.Context) error {
	s.mu.Lock()
	route, g := s.route, s.routeGen
	current := g == s.generation
	s.mu.Unlock()

	if route == nil || !current {
		return domain.ErrNoActiveRoute
	}

	s.applyTraffic(ctx, g, route)
	return nil
}

func (s *RouteSession) applyTraffic(ctx context.Context, g uint64, route *domain.Route) {
	reports, degraded := s.deps.Sampler.SampleHazards(ctx, route)
	if degraded != nil {
		s.degraded(ComponentTraffic, degraded)
	}

	var estimate domain.DelayEstimate
	if s.deps.Estimator != nil {
		estimate = s.deps.Estimator.Estimate(reports)
	}

	s.mu.Lock()
	if g != s.generation || s.route != route {
		s.mu.Unlock()
		logger.Debug("discarding delay estimate", zap.Uint64("generation", g), zap.Error(domain.ErrStaleResult))
		return
	}
	s.delay = &estimate
	s.mu.Unlock()

	s.listener.DelayEstimateReady(g, estimate)
}

// PlayNarration starts speaking the accepted route's instructions.
func (s *RouteSession) PlayNarration(ctx context.Context, style string) error {
	s.mu.Lock()
	var steps []domain.Step
	if s.route != nil {
		steps = s.route.Steps
	}
	s.touchLocked()
	s.mu.Unlock()

	return s.narration.Play(ctx, steps, style)
}

func (s *RouteSession) StopNarration() {
	s.mu.Lock()
	s.touchLocked()
	s.mu.Unlock()

	s.narration.Stop()
}

func (s *RouteSession) Snapshot() SessionSnapshot {
	state, index := s.narration.State()
	queue := s.narration.Queue()

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := SessionSnapshot{
		Generation:     s.generation,
		Waypoints:      s.waypointsLocked(),
		Route:          s.route,
		NarrationState: state,
		NarrationIndex: index,
		Narration:      queue,
		LastActive:     s.lastActive,
	}
	if s.delay != nil {
		d := *s.delay
		snap.Delay = &d
	}
	return snap
}

func (s *RouteSession) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Wait blocks until background hazard sampling and narration have finished.
func (s *RouteSession) Wait() {
	s.bg.Wait()
	s.narration.Wait()
}

// Close stops narration and waits for background work.
func (s *RouteSession) Close() {
	s.narration.Stop()
	s.Wait()
}

func (s *RouteSession) degraded(component string, err error) {
	logger.Debug("component degraded", zap.String("component", component), zap.Error(err))
	if s.deps.Policy != nil && s.deps.Policy.DegradedVisible(component) {
		s.listener.Degraded(component, err)
	}
}

func (s *RouteSession) clearLocked(g uint64) {
	s.route = nil
	s.delay = nil
	s.routeGen = g
}

func (s *RouteSession) touchLocked() {
	s.lastActive = s.deps.Now()
}

type noopListener struct{}

func (noopListener) RouteReady(uint64, *domain.Route) {}
func (noopListener) RouteFailed(uint64, string) {}
func (noopListener) DelayEstimateReady(uint64, domain.DelayEstimate) {}
func (noopListener) NarrationStateChanged(domain.NarrationState, int) {}
func (noopListener) Degraded(string, error) {}
