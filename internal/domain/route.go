package domain

// Step is a single turn-by-turn instruction.
type Step struct {
	Instruction    string
	DistanceMeters float64
}

// Route is produced atomically by exactly one provider call.
// Geometry is the polyline in travel order.
type Route struct {
	Provider        string
	Geometry        []Coordinates
	DistanceMeters  float64
	DurationSeconds float64
	Steps           []Step
}

// Instructions returns the plain instruction text of every step, in order.
func (r *Route) Instructions() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.Steps))
	for _, s := range r.Steps {
		out = append(out, s.Instruction)
	}
	return out
}
