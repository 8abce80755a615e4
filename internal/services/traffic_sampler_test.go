package services

import (
	"context"
	"errors"
	"testing"

	"hazard-route-service/internal/domain"
)

func TestSampleRoute(t *testing.T) {
	tests := []struct {
		vertices int
		want     int
	}{
		{0, 0},
		{1, 1},
		{10, 2},
		{11, 2},
		{25, 4},
		{191, 20},
		{500, 20},
	}

	for _, tc := range tests {
		geom := straightRoute(tc.vertices).Geometry
		got := SampleRoute(geom)
		if len(got) != tc.want {
			t.Errorf("SampleRoute(%d vertices) = %d samples, want %d", tc.vertices, len(got), tc.want)
			continue
		}
		if tc.vertices > 0 && got[len(got)-1] != geom[len(geom)-1] {
			t.Errorf("SampleRoute(%d vertices) does not end at the last vertex", tc.vertices)
		}
		if tc.vertices > 0 && got[0] != geom[0] {
			t.Errorf("SampleRoute(%d vertices) does not start at the first vertex", tc.vertices)
		}
	}
}

func TestSampleRouteStride(t *testing.T) {
	geom := straightRoute(25).Geometry
	got := SampleRoute(geom)
	want := []domain.Coordinates{geom[0], geom[10], geom[20], geom[24]}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSampleHazards(t *testing.T) {
	feed := &fakeFeed{reports: []domain.HazardReport{{Category: domain.HazardJam, Severity: 2}}}
	s := NewTrafficSampler(feed, 0)

	got, degraded := s.SampleHazards(context.Background(), straightRoute(500))
	if degraded != nil {
		t.Fatalf("unexpected degraded: %v", degraded)
	}
	if len(got) != 1 {
		t.Fatalf("got %d reports", len(got))
	}
	if feed.Calls() != 1 || len(feed.samples[0]) != MaxSamples {
		t.Errorf("feed calls = %d, samples = %d", feed.Calls(), len(feed.samples[0]))
	}
	if feed.buffer != DefaultBufferKm {
		t.Errorf("buffer = %v, want %v", feed.buffer, DefaultBufferKm)
	}
}

func TestSampleHazardsFailureIsNonFatal(t *testing.T) {
	s := NewTrafficSampler(&fakeFeed{err: errors.New("timeout")}, 2)

	got, degraded := s.SampleHazards(context.Background(), straightRoute(5))
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil list, got %v", got)
	}
	if !errors.Is(degraded, domain.ErrTrafficDataUnavailable) {
		t.Errorf("degraded = %v", degraded)
	}

	var nilSampler *TrafficSampler
	got, degraded = nilSampler.SampleHazards(context.Background(), straightRoute(5))
	if len(got) != 0 || !errors.Is(degraded, domain.ErrTrafficDataUnavailable) {
		t.Errorf("nil sampler = %v, %v", got, degraded)
	}
}
