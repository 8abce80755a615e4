package services

import (
	"context"
	"sync"

	"hazard-route-service/internal/domain"
)

func fptr(f float64) *float64 { return &f }

func cand(name string, lon, lat float64, origin domain.WaypointOrigin) domain.Candidate {
	return domain.Candidate{Name: name, Lon: fptr(lon), Lat: fptr(lat), Origin: origin}
}

type fakePlaces struct {
	out   []domain.Candidate
	err   error
	calls int
}

func (f *fakePlaces) SearchPlaces(ctx context.Context, query string, limit int) ([]domain.Candidate, error) {
	f.calls++
	return f.out, f.err
}

type fakeGeocoder struct {
	out   []domain.Candidate
	err   error
	limit int
}

func (f *fakeGeocoder) Geocode(ctx context.Context, query string, limit int) ([]domain.Candidate, error) {
	f.limit = limit
	return f.out, f.err
}

type fakeFeed struct {
	mu      sync.Mutex
	reports []domain.HazardReport
	err     error
	samples [][]domain.Coordinates
	buffer  float64
}

func (f *fakeFeed) ReportsAlong(ctx context.Context, samples []domain.Coordinates, bufferKm float64) ([]domain.HazardReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.samples = append(f.samples, samples)
	f.buffer = bufferKm
	return f.reports, f.err
}

func (f *fakeFeed) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.samples)
}

// recordingSpeaker finishes every utterance immediately.
type recordingSpeaker struct {
	mu     sync.Mutex
	spoken []string
	absent bool
}

func (s *recordingSpeaker) Available() bool { return !s.absent }

func (s *recordingSpeaker) Speak(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spoken = append(s.spoken, text)
	return nil
}

func (s *recordingSpeaker) Spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.spoken...)
}

// blockingSpeaker holds every utterance until ctx is cancelled.
type blockingSpeaker struct {
	recordingSpeaker
	started chan string
}

func newBlockingSpeaker() *blockingSpeaker {
	return &blockingSpeaker{started: make(chan string, 16)}
}

func (s *blockingSpeaker) Speak(ctx context.Context, text string) error {
	s.recordingSpeaker.Speak(ctx, text)
	s.started <- text
	<-ctx.Done()
	return ctx.Err()
}

type fakeStyler struct {
	fail bool
}

func (f fakeStyler) Style(ctx context.Context, instruction, style string) (string, error) {
	if f.fail {
		return "", context.DeadlineExceeded
	}
	return style + ": " + instruction, nil
}

type event struct {
	kind       string
	generation uint64
	state      domain.NarrationState
	index      int
	reason     string
	component  string
	minutes    int
}

type recordingListener struct {
	mu     sync.Mutex
	events []event
}

func (l *recordingListener) add(e event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *recordingListener) RouteReady(g uint64, r *domain.Route) {
	l.add(event{kind: "ready", generation: g})
}

func (l *recordingListener) RouteFailed(g uint64, reason string) {
	l.add(event{kind: "failed", generation: g, reason: reason})
}

func (l *recordingListener) DelayEstimateReady(g uint64, d domain.DelayEstimate) {
	l.add(event{kind: "delay", generation: g, minutes: d.TotalMinutes})
}

func (l *recordingListener) NarrationStateChanged(state domain.NarrationState, index int) {
	l.add(event{kind: "narration", state: state, index: index})
}

func (l *recordingListener) Degraded(component string, err error) {
	l.add(event{kind: "degraded", component: component})
}

func (l *recordingListener) Events(kind string) []event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []event
	for _, e := range l.events {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}

type visibleAll struct{}

func (visibleAll) DegradedVisible(string) bool { return true }

func straightRoute(vertices int, steps ...string) *domain.Route {
	r := &domain.Route{DistanceMeters: 1200, DurationSeconds: 600}
	for i := 0; i < vertices; i++ {
		r.Geometry = append(r.Geometry, domain.Coordinates{Lon: float64(i) / 1000, Lat: 50})
	}
	for _, s := range steps {
		r.Steps = append(r.Steps, domain.Step{Instruction: s, DistanceMeters: 100})
	}
	return r
}
