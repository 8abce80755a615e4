package domain

import "errors"

var (
	// ErrWaypointNotFound means both local and external lookups came back empty.
	ErrWaypointNotFound = errors.New("waypoint not found")
	// ErrRouteUnavailable means every provider in the fallback chain failed.
	ErrRouteUnavailable = errors.New("could not calculate route")
	// ErrTrafficDataUnavailable means the hazard query failed; callers fall back to the base ETA.
	ErrTrafficDataUnavailable = errors.New("traffic data unavailable")
	// ErrNarrationUnsupported means no speech capability is present.
	ErrNarrationUnsupported = errors.New("narration unsupported")
	// ErrStaleResult marks a result discarded by a generation mismatch. Never user-visible.
	ErrStaleResult = errors.New("stale result")

	ErrInvalidWaypoints = errors.New("at least 2 waypoints are required")
	ErrNoRoute          = errors.New("provider returned no route")
	ErrNarrationBusy    = errors.New("narration already playing")
	ErrNoActiveRoute    = errors.New("no active route")
)
