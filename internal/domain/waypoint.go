package domain

import "fmt"

// MaxWaypoints bounds the number of slots a session can hold (labels A..J).
const MaxWaypoints = 10

// WaypointOrigin records how a waypoint's coordinates were obtained.
type WaypointOrigin string

const (
	OriginLocalSearch      WaypointOrigin = "local-search"
	OriginExternalGeocoder WaypointOrigin = "external-geocoder"
	OriginUserClick        WaypointOrigin = "user-click"
	OriginDeviceLocation   WaypointOrigin = "device-location"
)

func (o WaypointOrigin) Valid() bool {
	switch o {
	case OriginLocalSearch, OriginExternalGeocoder, OriginUserClick, OriginDeviceLocation:
		return true
	}
	return false
}

// Waypoint is a single ordered stop of a route request.
// It is immutable once created; re-picking a slot replaces the value wholesale.
type Waypoint struct {
	Slot   int
	Coords Coordinates
	Name   string
	Origin WaypointOrigin
}

// Label maps the slot ordinal to its display letter (0 -> "A").
func (w Waypoint) Label() string { return SlotLabel(w.Slot) }

// At returns a copy of the waypoint bound to another slot.
func (w Waypoint) At(slot int) *Waypoint {
	w.Slot = slot
	return &w
}

func SlotLabel(slot int) string {
	if slot < 0 || slot >= 26 {
		return fmt.Sprintf("#%d", slot)
	}
	return string(rune('A' + slot))
}

// Candidate is an unselected waypoint suggestion produced by a lookup.
// Lon/Lat are pointers because upstream services may omit either value.
type Candidate struct {
	Name   string
	Kind   string
	Lon    *float64
	Lat    *float64
	Origin WaypointOrigin
}

// HasCoords reports whether the candidate carries a usable position.
func (c Candidate) HasCoords() bool { return c.Lon != nil && c.Lat != nil }

// Select instantiates a concrete Waypoint at the given slot.
func (c Candidate) Select(slot int) (*Waypoint, error) {
	if !c.HasCoords() {
		return nil, fmt.Errorf("select candidate %q: missing coordinates", c.Name)
	}
	if slot < 0 || slot >= MaxWaypoints {
		return nil, fmt.Errorf("select candidate %q: slot %d out of range: %w", c.Name, slot, ErrInvalidWaypoints)
	}
	return &Waypoint{
		Slot:   slot,
		Coords: Coordinates{Lon: *c.Lon, Lat: *c.Lat},
		Name:   c.Name,
		Origin: c.Origin,
	}, nil
}
