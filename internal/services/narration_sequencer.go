package services

import (
	"context"
	"fmt"
	"sync"

	"hazard-route-service/internal/domain"
	"hazard-route-service/internal/platform/logger"
	"hazard-route-service/internal/ports"

	"go.uber.org/zap"
)

// NarrationSequencer speaks a route's instructions strictly in order.
//
// The queue only exists while playback runs. Play starts a single loop that
// styles and speaks one instruction at a time; Stop cancels the current
// utterance, discards the rest of the queue and waits for the loop to exit.
type NarrationSequencer struct {
	speaker    ports.Speaker
	styler     ports.InstructionStyler
	onChange   func(state domain.NarrationState, index int)
	onDegraded func(err error)

	mu       sync.Mutex
	queue    *domain.NarrationQueue
	cancel   context.CancelFunc
	done     chan struct{}
	stopped  bool
	finished bool
}

// NewNarrationSequencer accepts a nil styler (plain instructions) and nil callbacks.
func NewNarrationSequencer(
	speaker ports.Speaker,
	styler ports.InstructionStyler,
	onChange func(state domain.NarrationState, index int),
	onDegraded func(err error),
) *NarrationSequencer {
	if onChange == nil {
		onChange = func(domain.NarrationState, int) {}
	}
	if onDegraded == nil {
		onDegraded = func(error) {}
	}
	return &NarrationSequencer{speaker: speaker, styler: styler, onChange: onChange, onDegraded: onDegraded}
}

// Play fails with domain.ErrNarrationUnsupported before anything else when
// no speech capability is present.
func (n *NarrationSequencer) Play(ctx context.Context, steps []domain.Step, style string) error {
	if n.speaker == nil || !n.speaker.Available() {
		return domain.ErrNarrationUnsupported
	}

	q := domain.NewNarrationQueue(steps)
	if q == nil {
		return fmt.Errorf("play narration: %w", domain.ErrNoActiveRoute)
	}

	n.mu.Lock()
	if n.queue != nil {
		n.mu.Unlock()
		return domain.ErrNarrationBusy
	}
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	q.State = domain.NarrationSpeaking
	n.queue = q
	n.cancel = cancel
	n.done = make(chan struct{})
	n.stopped = false
	n.finished = false
	done := n.done
	n.mu.Unlock()

	go n.run(loopCtx, q, style, done)
	return nil
}

func (n *NarrationSequencer) run(ctx context.Context, q *domain.NarrationQueue, style string, done chan struct{}) {
	defer close(done)

	completed := false
	for i, plain := range q.Instructions {
		if ctx.Err() != nil {
			break
		}

		n.mu.Lock()
		q.Index = i
		n.mu.Unlock()
		n.onChange(domain.NarrationSpeaking, i)

		text := n.style(ctx, plain, style)
		if ctx.Err() != nil {
			break
		}
		n.mu.Lock()
		q.Instructions[i] = text
		n.mu.Unlock()

		if err := n.speaker.Speak(ctx, text); err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Warn("narration utterance failed", zap.Int("index", i), zap.Error(err))
		}

		if i == len(q.Instructions)-1 {
			completed = true
			n.mu.Lock()
			n.finished = true
			n.mu.Unlock()
		}
	}

	n.mu.Lock()
	// A Stop that raced the last utterance does not turn a completed playback into a stop.
	stopped := n.stopped && !completed
	last := q.Index
	n.queue = nil
	n.cancel = nil
	n.mu.Unlock()

	if stopped {
		n.onChange(domain.NarrationStopped, last)
	}
	n.onChange(domain.NarrationIdle, last)
}

// style fetches one themed instruction and falls back to the plain text on failure.
func (n *NarrationSequencer) style(ctx context.Context, plain, style string) string {
	if n.styler == nil || style == "" {
		return plain
	}

	themed, err := n.styler.Style(ctx, plain, style)
	if err != nil {
		if ctx.Err() == nil {
			logger.Debug("instruction transform failed, using plain text", zap.Error(err))
			n.onDegraded(err)
		}
		return plain
	}
	return themed
}

// Stop is a no-op when nothing is playing. Once the last instruction has been
// spoken it only waits for the loop to wind down.
func (n *NarrationSequencer) Stop() {
	n.mu.Lock()
	if n.queue == nil {
		n.mu.Unlock()
		return
	}
	if !n.finished {
		n.stopped = true
	}
	cancel, done := n.cancel, n.done
	n.mu.Unlock()

	cancel()
	<-done
}

// State returns the playback state and the index of the current instruction.
func (n *NarrationSequencer) State() (domain.NarrationState, int) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.queue == nil {
		return domain.NarrationIdle, 0
	}
	return n.queue.State, n.queue.Index
}

// Queue returns a copy of the active queue, or nil when idle.
func (n *NarrationSequencer) Queue() *domain.NarrationQueue {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.queue == nil {
		return nil
	}
	cp := *n.queue
	cp.Instructions = append([]string(nil), n.queue.Instructions...)
	return &cp
}

// Wait blocks until any running playback loop has exited.
func (n *NarrationSequencer) Wait() {
	n.mu.Lock()
	done := n.done
	n.mu.Unlock()

	if done != nil {
		<-done
	}
}
