package orchestration

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/jinzhu/copier"

	"github.com/voicekind/companion-core/core/events"
	"github.com/voicekind/companion-core/core/llms"
)

// Identity describes the person the companion is speaking with. The name is
// woven into the default greeting and system prompt; the descriptor gives the
// model extra colour about who it is talking to.
type Identity struct {
	Name       string
	Descriptor string
}

// Session orchestrates a single voice conversation: it owns the turn state
// machine, the conversation history, and the speech to text, completion, and
// speech output clients wired into it.
//
// All exported methods are safe for concurrent use.
type Session struct {
	identity     Identity
	greeting     string
	systemPrompt string

	speechToText speechToText
	completion   completion
	speechOutput speechOutput

	emitEvent eventEmitter
	callbacks sessionCallbacks

	// mu guards everything below it.
	mu            sync.Mutex
	state         TurnState
	history       []llms.Message
	lastUtterance string
	muted         bool
	listenIntent  bool
	greeted       bool
	closed        bool

	// initMu guards single flight initialization.
	initMu      sync.Mutex
	initialized bool
	initAttempt *initAttempt

	closeOnce sync.Once

	// baseContext outlives individual calls; callbacks from the transcriber
	// arrive without a request context and are processed against it.
	baseContext context.Context
}

// NewSession assembles a session for the given identity. Without options the
// session has no audio or completion clients attached; turns submitted to it
// fail with a completion error but the state machine still runs.
func NewSession(identity Identity, opts ...SessionOption) *Session {
	s := &Session{
		identity:    identity,
		state:       TurnStateIdle,
		baseContext: context.Background(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.greeting == "" {
		s.greeting = defaultGreeting(identity)
	}
	if s.systemPrompt == "" {
		s.systemPrompt = defaultSystemPrompt(identity)
	}
	s.emitEvent = newCallbackEventEmitter(s.callbacks)

	s.history = []llms.Message{{
		Role:    llms.RoleSystem,
		Content: s.systemPrompt,
	}}

	return s
}

func defaultGreeting(identity Identity) string {
	name := strings.TrimSpace(identity.Name)
	if name == "" {
		return "Hi there, how are you?"
	}
	return fmt.Sprintf("Hi %s, how are you?", name)
}

func defaultSystemPrompt(identity Identity) string {
	var b strings.Builder
	b.WriteString("You are a warm, attentive voice companion.")
	if name := strings.TrimSpace(identity.Name); name != "" {
		fmt.Fprintf(&b, " You are speaking with %s.", name)
	}
	if descriptor := strings.TrimSpace(identity.Descriptor); descriptor != "" {
		fmt.Fprintf(&b, " About them: %s.", descriptor)
	}
	b.WriteString(" Keep replies short and conversational, as they will be spoken aloud.")
	return b.String()
}

// State returns the current turn state.
func (s *Session) State() TurnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns a deep copy of the conversation so far, system message
// included. Mutating the returned slice does not affect the session.
func (s *Session) History() []llms.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotHistoryLocked()
}

func (s *Session) snapshotHistoryLocked() []llms.Message {
	snapshot := make([]llms.Message, 0, len(s.history))
	if err := copier.Copy(&snapshot, &s.history); err != nil {
		log.Println("Failed to copy conversation history:", err)
		snapshot = append(snapshot, s.history...)
	}
	return snapshot
}

// Close shuts the session down. It cancels any in flight synthesis, closes
// the attached clients, and is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.state = TurnStateIdle
		s.listenIntent = false
		s.mu.Unlock()

		s.speechOutput.Cancel()
		s.speechOutput.Close()
		if err := s.speechToText.Close(s.baseContext); err != nil {
			log.Println("Failed to close transcription client:", err)
		}

		s.emitEvent(events.NewConnectionStateChanged(false))
		s.emitEvent(events.NewSessionClosed())
	})
}
