package domain

// DelayRule is the fixed (base, perSeverity) minute pair of one hazard category.
type DelayRule struct {
	Base        int `yaml:"base"`
	PerSeverity int `yaml:"per_severity"`
}

// Minutes returns base + perSeverity*(severity-1) for an already clamped severity.
func (r DelayRule) Minutes(severity int) int {
	return r.Base + r.PerSeverity*(severity-1)
}

// CategoryDelay is one display bucket's share of a DelayEstimate.
type CategoryDelay struct {
	Category HazardCategory
	Minutes  int
	Reports  int
}

// DelayEstimate is derived from a hazard snapshot and never persisted.
type DelayEstimate struct {
	TotalMinutes  int
	Contributions []CategoryDelay
}

// NoDelay distinguishes "nothing to report" from a zero-minute banner.
func (d DelayEstimate) NoDelay() bool { return d.TotalMinutes == 0 }

// AdjustedDurationSeconds returns the traffic-adjusted travel time.
func (d DelayEstimate) AdjustedDurationSeconds(base float64) float64 {
	return base + float64(d.TotalMinutes*60)
}
