package routing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hazard-route-service/internal/domain"
)

// MockProvider returns a canned route or error. Calls are counted so tests
// can assert fallback ordering.
type MockProvider struct {
	name  string
	route *domain.Route
	err   error
	delay time.Duration

	mu    sync.Mutex
	calls int
	seen  [][]domain.Coordinates
}

func NewMockProvider(name string, route *domain.Route, err error) *MockProvider {
	return &MockProvider{name: name, route: route, err: err}
}

// WithDelay makes every call wait d (or until ctx is done) before answering.
func (p *MockProvider) WithDelay(d time.Duration) *MockProvider {
	p.delay = d
	return p
}

func (p *MockProvider) Name() string { return p.name }

func (p *MockProvider) ComputeRoute(ctx context.Context, waypoints []domain.Coordinates) (*domain.Route, error) {
	p.mu.Lock()
	p.calls++
	p.seen = append(p.seen, append([]domain.Coordinates(nil), waypoints...))
	p.mu.Unlock()

	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if p.err != nil {
		return nil, p.err
	}
	if p.route == nil {
		return nil, fmt.Errorf("mock %s: %w", p.name, domain.ErrNoRoute)
	}

	r := *p.route
	r.Provider = p.name
	return &r, nil
}

func (p *MockProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// Requests returns the waypoint lists seen so far.
func (p *MockProvider) Requests() [][]domain.Coordinates {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]domain.Coordinates(nil), p.seen...)
}
