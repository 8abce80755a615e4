package dto

type CandidateResponse struct {
	Name   string   `json:"name"`
	Kind   string   `json:"kind,omitempty"`
	Lng    *float64 `json:"lng"`
	Lat    *float64 `json:"lat"`
	Origin string   `json:"origin"`
}

type SearchResponse struct {
	Query      string              `json:"query"`
	Candidates []CandidateResponse `json:"candidates"`
}

type WaypointRequest struct {
	Name   string   `json:"name"`
	Lng    *float64 `json:"lng"`
	Lat    *float64 `json:"lat"`
	Origin string   `json:"origin"`
}

type WaypointResponse struct {
	Slot   int     `json:"slot"`
	Label  string  `json:"label"`
	Name   string  `json:"name"`
	Lng    float64 `json:"lng"`
	Lat    float64 `json:"lat"`
	Origin string  `json:"origin"`
}

// RecalculateRequest replaces the whole waypoint list when Waypoints is set.
// A null entry leaves that slot empty.
type RecalculateRequest struct {
	Waypoints []*WaypointRequest `json:"waypoints"`
}
