package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"hazard-route-service/internal/adapters/routing"
	"hazard-route-service/internal/domain"
)

var twoPoints = []domain.Coordinates{{Lon: 13.4, Lat: 52.5}, {Lon: 13.5, Lat: 52.6}}

func TestChainFallsBackWithoutRetry(t *testing.T) {
	primary := routing.NewMockProvider("primary", nil, errors.New("connection refused"))
	secondary := routing.NewMockProvider("secondary", straightRoute(3, "Head north"), nil)

	chain := NewProviderChain(
		ProviderStep{Provider: primary, Timeout: time.Second},
		ProviderStep{Provider: secondary, Timeout: time.Second},
	)

	route, err := chain.ComputeRoute(context.Background(), twoPoints)
	if err != nil {
		t.Fatalf("ComputeRoute() err = %v", err)
	}
	if route.Provider != "secondary" {
		t.Errorf("provider = %q, want secondary", route.Provider)
	}
	if primary.Calls() != 1 {
		t.Errorf("primary called %d times, want exactly 1", primary.Calls())
	}
	if secondary.Calls() != 1 {
		t.Errorf("secondary called %d times, want 1", secondary.Calls())
	}
}

func TestChainSkipsSecondaryWhenPrimarySucceeds(t *testing.T) {
	primary := routing.NewMockProvider("primary", straightRoute(2), nil)
	secondary := routing.NewMockProvider("secondary", straightRoute(2), nil)

	chain := NewProviderChain(ProviderStep{Provider: primary}, ProviderStep{Provider: secondary})
	route, err := chain.ComputeRoute(context.Background(), twoPoints)
	if err != nil {
		t.Fatalf("ComputeRoute() err = %v", err)
	}
	if route.Provider != "primary" || secondary.Calls() != 0 {
		t.Errorf("provider = %q, secondary calls = %d", route.Provider, secondary.Calls())
	}
	if route.Steps == nil {
		t.Error("missing steps should normalize to an empty list")
	}
}

func TestChainTimeoutMovesOn(t *testing.T) {
	slow := routing.NewMockProvider("slow", straightRoute(2), nil).WithDelay(5 * time.Second)
	fast := routing.NewMockProvider("fast", straightRoute(2), nil)

	chain := NewProviderChain(
		ProviderStep{Provider: slow, Timeout: 20 * time.Millisecond},
		ProviderStep{Provider: fast, Timeout: time.Second},
	)

	start := time.Now()
	route, err := chain.ComputeRoute(context.Background(), twoPoints)
	if err != nil {
		t.Fatalf("ComputeRoute() err = %v", err)
	}
	if route.Provider != "fast" {
		t.Errorf("provider = %q, want fast", route.Provider)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout not enforced, took %v", elapsed)
	}
}

func TestChainTotalFailure(t *testing.T) {
	empty := routing.NewMockProvider("empty", nil, nil)
	broken := routing.NewMockProvider("broken", nil, errors.New("502"))

	chain := NewProviderChain(ProviderStep{Provider: empty}, ProviderStep{Provider: broken})
	_, err := chain.ComputeRoute(context.Background(), twoPoints)
	if !errors.Is(err, domain.ErrRouteUnavailable) {
		t.Fatalf("err = %v, want ErrRouteUnavailable", err)
	}
	if !errors.Is(err, domain.ErrNoRoute) {
		t.Errorf("err should carry the empty-route cause: %v", err)
	}
	if empty.Calls() != 1 || broken.Calls() != 1 {
		t.Errorf("calls = %d, %d", empty.Calls(), broken.Calls())
	}
}

func TestChainRejectsSingleWaypoint(t *testing.T) {
	p := routing.NewMockProvider("p", straightRoute(2), nil)
	_, err := NewProviderChain(ProviderStep{Provider: p}).ComputeRoute(context.Background(), twoPoints[:1])
	if !errors.Is(err, domain.ErrInvalidWaypoints) {
		t.Fatalf("err = %v", err)
	}
	if p.Calls() != 0 {
		t.Errorf("provider called %d times", p.Calls())
	}
}

func TestChainName(t *testing.T) {
	chain := NewProviderChain(
		ProviderStep{Provider: routing.NewMockProvider("osrm", nil, nil)},
		ProviderStep{Provider: routing.NewMockProvider("ors", nil, nil)},
	)
	if chain.Name() != "osrm>ors" {
		t.Errorf("Name() = %q", chain.Name())
	}
}
