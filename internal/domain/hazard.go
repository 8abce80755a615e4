package domain

import (
	"strings"
	"time"
)

// HazardCategory classifies a crowd-sourced road report.
type HazardCategory string

const (
	HazardJam             HazardCategory = "jam"
	HazardModerateTraffic HazardCategory = "moderate-traffic"
	HazardAccident        HazardCategory = "accident"
	HazardRoadHazard      HazardCategory = "road-hazard"
	HazardWeatherHazard   HazardCategory = "weather-hazard"
	HazardPolice          HazardCategory = "police"
	HazardClosure         HazardCategory = "closure"
	HazardConstruction    HazardCategory = "construction"
	HazardSpeedCamera     HazardCategory = "speed-camera"
	HazardFuelPrice       HazardCategory = "fuel-price"
)

// AllHazardCategories lists every known category in display order.
var AllHazardCategories = []HazardCategory{
	HazardJam,
	HazardModerateTraffic,
	HazardAccident,
	HazardRoadHazard,
	HazardWeatherHazard,
	HazardPolice,
	HazardClosure,
	HazardConstruction,
	HazardSpeedCamera,
	HazardFuelPrice,
}

// ParseHazardCategory accepts the feed's spellings ("JAM", "road_hazard",
// "Weather Hazard") and returns false for unknown values.
func ParseHazardCategory(s string) (HazardCategory, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	for _, c := range AllHazardCategories {
		if string(c) == norm {
			return c, true
		}
	}
	return "", false
}

// DisplayBucket folds related categories together for presentation.
// Totals are still summed per report, not per bucket.
func (c HazardCategory) DisplayBucket() HazardCategory {
	switch c {
	case HazardModerateTraffic:
		return HazardJam
	case HazardWeatherHazard:
		return HazardRoadHazard
	}
	return c
}

// HazardReport is a read-only snapshot of one crowd-sourced observation.
type HazardReport struct {
	Category      HazardCategory
	Coords        Coordinates
	Severity      int
	Confidence    int
	VerifiedCount int
	ReceivedAt    time.Time
}

// ClampedSeverity returns Severity bounded to [1,5].
func (h HazardReport) ClampedSeverity() int {
	switch {
	case h.Severity < 1:
		return 1
	case h.Severity > 5:
		return 5
	}
	return h.Severity
}
