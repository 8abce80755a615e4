package domain

import (
	"fmt"
	"strconv"
)

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// String formats the pair as "lon,lat", the form routing and hazard services expect in URLs.
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Lon, 'f', 6, 64) + "," + strconv.FormatFloat(c.Lat, 'f', 6, 64)
}

// CoordinatesFromList parses a [lon, lat] pair as returned by GeoJSON geometries.
func CoordinatesFromList(pair []float64) (Coordinates, error) {
	if len(pair) < 2 {
		return Coordinates{}, fmt.Errorf("coordinate pair: want 2 values, got %d", len(pair))
	}
	return Coordinates{Lon: pair[0], Lat: pair[1]}, nil
}
