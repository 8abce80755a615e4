package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hazard-route-service/internal/domain"
	"hazard-route-service/internal/platform/logger"
	"hazard-route-service/internal/platform/obs"
	"hazard-route-service/internal/ports"

	"go.uber.org/zap"
)

// ProviderStep is one entry of the fallback chain.
type ProviderStep struct {
	Provider ports.RouteProvider
	Timeout  time.Duration
}

// ProviderChain computes a route by trying each provider once, in order.
// A provider fails on timeout, transport error or an empty route; the chain
// then moves on to the next one. There is no retry of the same provider.
type ProviderChain struct {
	steps []ProviderStep
}

func NewProviderChain(steps ...ProviderStep) *ProviderChain {
	return &ProviderChain{steps: steps}
}

func (c *ProviderChain) Name() string {
	names := make([]string, len(c.steps))
	for i, s := range c.steps {
		names[i] = s.Provider.Name()
	}
	return strings.Join(names, ">")
}

func (c *ProviderChain) ComputeRoute(
	ctx context.Context,
	waypoints []domain.Coordinates,
) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "chain.ComputeRoute")(&err)

	if len(waypoints) < 2 {
		return nil, fmt.Errorf("compute route: got %d waypoints: %w", len(waypoints), domain.ErrInvalidWaypoints)
	}

	failures := make([]error, 0, len(c.steps))
	for _, step := range c.steps {
		if ctx.Err() != nil {
			failures = append(failures, ctx.Err())
			break
		}

		route, err := callProvider(ctx, step, waypoints)
		if err == nil {
			return route, nil
		}

		logger.Warn("route provider failed",
			zap.String("provider", step.Provider.Name()),
			zap.Duration("timeout", step.Timeout),
			zap.Error(err),
		)
		failures = append(failures, fmt.Errorf("%s: %w", step.Provider.Name(), err))
	}

	return nil, fmt.Errorf("compute route: %w: %w", domain.ErrRouteUnavailable, errors.Join(failures...))
}

func callProvider(ctx context.Context, step ProviderStep, waypoints []domain.Coordinates) (*domain.Route, error) {
	if step.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, step.Timeout)
		defer cancel()
	}

	route, err := step.Provider.ComputeRoute(ctx, waypoints)
	if err != nil {
		return nil, err
	}
	if route == nil || len(route.Geometry) == 0 {
		return nil, domain.ErrNoRoute
	}
	if route.Steps == nil {
		route.Steps = []domain.Step{}
	}
	if route.Provider == "" {
		route.Provider = step.Provider.Name()
	}
	return route, nil
}
