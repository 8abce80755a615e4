package ports

import "hazard-route-service/internal/domain"

// SessionListener receives RouteSession outputs. Render side-effects
// (polylines, markers, banners, button state) belong to the implementer.
type SessionListener interface {
	RouteReady(generation uint64, route *domain.Route)
	RouteFailed(generation uint64, reason string)
	DelayEstimateReady(generation uint64, estimate domain.DelayEstimate)
	NarrationStateChanged(state domain.NarrationState, index int)
	// Degraded is only called for components the degradation policy marks visible.
	Degraded(component string, err error)
}
