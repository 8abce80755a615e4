package dto

import "time"

type StepResponse struct {
	Instruction    string  `json:"instruction"`
	DistanceMeters float64 `json:"distance_meters"`
}

type RouteResponse struct {
	Provider                string         `json:"provider"`
	DistanceMeters          float64        `json:"distance_meters"`
	DurationSeconds         float64        `json:"duration_seconds"`
	AdjustedDurationSeconds float64        `json:"adjusted_duration_seconds"`
	Geometry                [][]float64    `json:"geometry"`
	Steps                   []StepResponse `json:"steps"`
}

type ContributionResponse struct {
	Category string `json:"category"`
	Minutes  int    `json:"minutes"`
	Reports  int    `json:"reports"`
}

type DelayResponse struct {
	TotalMinutes  int                    `json:"total_minutes"`
	NoDelay       bool                   `json:"no_delay"`
	Contributions []ContributionResponse `json:"contributions"`
}

type NarrationResponse struct {
	State        string   `json:"state"`
	Index        int      `json:"index"`
	Instructions []string `json:"instructions,omitempty"`
}

type NoticeResponse struct {
	Component string    `json:"component"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

type SessionResponse struct {
	ID          string             `json:"id"`
	Generation  uint64             `json:"generation"`
	Waypoints   []WaypointResponse `json:"waypoints"`
	Route       *RouteResponse     `json:"route"`
	Delay       *DelayResponse     `json:"delay"`
	Narration   NarrationResponse  `json:"narration"`
	LastFailure string             `json:"last_failure,omitempty"`
	Notices     []NoticeResponse   `json:"notices,omitempty"`
	LastActive  time.Time          `json:"last_active"`
}

type CreateSessionResponse struct {
	ID string `json:"id"`
}
