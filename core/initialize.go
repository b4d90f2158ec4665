package orchestration

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"

	"github.com/voicekind/companion-core/core/events"
)

// initAttempt is a single in flight initialization shared by every caller
// that arrives while it runs. err is set before done is closed.
type initAttempt struct {
	done chan struct{}
	err  error
}

// Initialize establishes the transcription connection. Concurrent callers
// share one underlying attempt and receive its outcome; a failed attempt is
// discarded so a later call can retry. Once initialization succeeds further
// calls return immediately.
func (s *Session) Initialize(ctx context.Context) error {
	s.initMu.Lock()
	if s.initialized {
		s.initMu.Unlock()
		return nil
	}
	if attempt := s.initAttempt; attempt != nil {
		s.initMu.Unlock()
		select {
		case <-attempt.done:
			return attempt.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	attempt := &initAttempt{done: make(chan struct{})}
	s.initAttempt = attempt
	s.initMu.Unlock()

	ctx, span := tracer.Start(ctx, "initialize session")
	defer span.End()

	err := s.speechToText.Initialize(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to initialize transcription client")
		err = fmt.Errorf("failed to initialize transcription client: %w", err)
	}

	s.initMu.Lock()
	if err == nil {
		s.initialized = true
	}
	s.initAttempt = nil
	s.initMu.Unlock()

	attempt.err = err
	close(attempt.done)

	if err == nil {
		s.emitEvent(events.NewConnectionStateChanged(true))
	}
	return err
}
