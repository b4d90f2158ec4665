package orchestration

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/voicekind/companion-core/core/events"
	"github.com/voicekind/companion-core/core/llms"
)

// SubmitUtterance feeds an utterance into the session and, if accepted,
// runs a full turn for it: the utterance joins the history, a reply is
// generated, spoken unless muted, and the turn completion is announced.
//
// The utterance is rejected when it is blank, when a turn is already in
// flight, or when it repeats the previously accepted utterance. The
// duplicate check ignores case and surrounding whitespace and is reset by
// any different accepted utterance.
func (s *Session) SubmitUtterance(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	normalized := strings.ToLower(text)

	s.mu.Lock()
	if s.closed || s.state.inFlight() {
		s.mu.Unlock()
		return
	}
	if normalized == s.lastUtterance {
		s.mu.Unlock()
		return
	}
	s.lastUtterance = normalized
	wasListening := s.state == TurnStateListening
	s.state = TurnStateProcessing
	s.history = append(s.history, llms.Message{Role: llms.RoleUser, Content: text})
	history := s.snapshotHistoryLocked()
	s.mu.Unlock()

	if wasListening {
		s.suspendCapture()
	}
	s.emitEvent(events.NewUserMessage(text))

	go s.runTurn(ctx, history)
}

func (s *Session) runTurn(ctx context.Context, history []llms.Message) {
	ctx, span := tracer.Start(ctx, "process turn", trace.WithAttributes(
		attribute.String("turn.id", uuid.NewString()),
	))
	defer span.End()

	reply, err := s.completion.Complete(ctx, history)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to generate reply")
		s.emitEvent(events.NewErrorRaised(string(ErrorKindCompletion), err.Error()))
		s.finishTurn(ctx)
		return
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		s.finishTurn(ctx)
		return
	}

	s.mu.Lock()
	if !s.repeatsLastReplyLocked(reply) {
		s.history = append(s.history, llms.Message{Role: llms.RoleAssistant, Content: reply})
	}
	s.state = TurnStateSpeaking
	muted := s.muted
	s.mu.Unlock()

	s.emitEvent(events.NewAssistantMessage(reply))

	if !muted {
		s.speakAndWait(ctx, reply)
	}
	s.finishTurn(ctx)
}

// repeatsLastReplyLocked reports whether reply matches the most recent
// assistant entry in the history. Repeated replies are announced but not
// appended again.
func (s *Session) repeatsLastReplyLocked(reply string) bool {
	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i].Role != llms.RoleAssistant {
			continue
		}
		return s.history[i].Content == reply
	}
	return false
}

// speakAndWait speaks text and blocks until playback completes or is
// cancelled. Synthesis failures end the wait immediately.
func (s *Session) speakAndWait(ctx context.Context, text string) {
	done := make(chan struct{})
	err := s.speechOutput.Speak(ctx, text, func() {
		close(done)
	})
	if err != nil {
		s.emitEvent(events.NewErrorRaised(string(ErrorKindSynthesis), err.Error()))
		return
	}
	<-done
}

// finishTurn releases the session back to idle and resumes capture when a
// listening intent is still pending.
func (s *Session) finishTurn(ctx context.Context) {
	s.mu.Lock()
	s.state = TurnStateIdle
	resume := s.listenIntent && !s.closed
	s.mu.Unlock()

	s.emitEvent(events.NewTurnCompleted())

	if resume {
		if err := s.StartListening(s.baseContext); err != nil {
			logger.Warn("Failed to resume listening after turn", "error", err)
		}
	}
}

// SendInitialGreeting speaks the session greeting once, appends it to the
// history, and starts listening for the first utterance afterwards. Repeat
// calls and calls while a turn is in flight are no-ops.
func (s *Session) SendInitialGreeting(ctx context.Context) {
	s.mu.Lock()
	if s.closed || s.greeted || s.state.inFlight() {
		s.mu.Unlock()
		return
	}
	s.greeted = true
	wasListening := s.state == TurnStateListening
	s.state = TurnStateSpeaking
	s.listenIntent = true
	s.history = append(s.history, llms.Message{Role: llms.RoleAssistant, Content: s.greeting})
	muted := s.muted
	greeting := s.greeting
	s.mu.Unlock()

	if wasListening {
		s.suspendCapture()
	}
	s.emitEvent(events.NewAssistantMessage(greeting))

	go func() {
		ctx, span := tracer.Start(ctx, "initial greeting")
		defer span.End()

		if !muted {
			s.speakAndWait(ctx, greeting)
		}
		s.finishTurn(ctx)
	}()
}
