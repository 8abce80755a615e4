package narration

import (
	"context"
	"strings"
	"time"

	"hazard-route-service/internal/platform/logger"

	"go.uber.org/zap"
)

// LogSpeaker is a server-side speech capability: each utterance is logged
// and then held for roughly the time it would take to read aloud.
type LogSpeaker struct {
	perWord time.Duration
}

func NewLogSpeaker(perWord time.Duration) *LogSpeaker {
	return &LogSpeaker{perWord: perWord}
}

func (s *LogSpeaker) Available() bool { return s != nil }

// Speak returns ctx.Err() when the hold is interrupted.
func (s *LogSpeaker) Speak(ctx context.Context, text string) error {
	words := len(strings.Fields(text))
	logger.Info("narration utterance", zap.String("text", text), zap.Int("words", words))

	hold := time.Duration(words) * s.perWord
	if hold <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(hold)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
