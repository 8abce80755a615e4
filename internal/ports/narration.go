package ports

import "context"

// Optional text transform applied to each spoken instruction.
type InstructionStyler interface {
	Style(ctx context.Context, instruction, style string) (string, error)
}

// Speech capability. Speak blocks until the utterance finishes, fails,
// or ctx is cancelled.
type Speaker interface {
	Available() bool
	Speak(ctx context.Context, text string) error
}
