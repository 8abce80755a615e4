package domain

// NarrationState is the playback state of a narration queue.
type NarrationState string

const (
	NarrationIdle     NarrationState = "idle"
	NarrationSpeaking NarrationState = "speaking"
	NarrationStopped  NarrationState = "stopped"
)

// NarrationQueue holds the themed instructions for the accepted route.
// Its length always equals the route's step count.
type NarrationQueue struct {
	Instructions []string
	Index        int
	State        NarrationState
}

// NewNarrationQueue builds an idle queue seeded with the plain step text.
// Returns nil for a route without steps.
func NewNarrationQueue(steps []Step) *NarrationQueue {
	if len(steps) == 0 {
		return nil
	}
	q := &NarrationQueue{
		Instructions: make([]string, len(steps)),
		State:        NarrationIdle,
	}
	for i, s := range steps {
		q.Instructions[i] = s.Instruction
	}
	return q
}

func (q *NarrationQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Instructions)
}
