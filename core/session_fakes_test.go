package orchestration

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/voicekind/companion-core/core/llms"
	"github.com/voicekind/companion-core/core/speechtotext"
)

// fakeTranscriber records lifecycle calls and hands the registered
// callbacks back to the test so it can push transcripts into the session.
type fakeTranscriber struct {
	initErr   error
	initDelay time.Duration
	startErr  error
	stopErr   error

	initCalls  atomic.Int32
	startCalls atomic.Int32
	stopCalls  atomic.Int32
	closeCalls atomic.Int32

	mu          sync.Mutex
	opts        speechtotext.TranscriptionOptions
	stopPartial string
}

func (f *fakeTranscriber) Initialize(context.Context) error {
	f.initCalls.Add(1)
	if f.initDelay > 0 {
		time.Sleep(f.initDelay)
	}
	return f.initErr
}

func (f *fakeTranscriber) Start(_ context.Context, opts ...speechtotext.TranscriptionOption) error {
	f.startCalls.Add(1)
	if f.startErr != nil {
		return f.startErr
	}
	registered := speechtotext.TranscriptionOptions{}
	for _, opt := range opts {
		opt(&registered)
	}
	f.mu.Lock()
	f.opts = registered
	f.mu.Unlock()
	return nil
}

func (f *fakeTranscriber) Stop() (string, error) {
	f.stopCalls.Add(1)
	if f.stopErr != nil {
		return "", f.stopErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopPartial, nil
}

func (f *fakeTranscriber) Close(context.Context) error {
	f.closeCalls.Add(1)
	return nil
}

func (f *fakeTranscriber) pushTranscript(transcript string) {
	f.mu.Lock()
	callback := f.opts.TranscriptionCallback
	f.mu.Unlock()
	if callback != nil {
		callback(transcript)
	}
}

func (f *fakeTranscriber) pushInterim(transcript string) {
	f.mu.Lock()
	callback := f.opts.InterimTranscriptionCallback
	f.mu.Unlock()
	if callback != nil {
		callback(transcript)
	}
}

// scriptedCompletion returns canned replies in order, or a fixed error.
type scriptedCompletion struct {
	err error

	mu      sync.Mutex
	replies []string
	// histories records the message snapshot passed to each call.
	histories [][]llms.Message
}

func (c *scriptedCompletion) Complete(_ context.Context, messages []llms.Message, _ ...llms.CompletionOption) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.histories = append(c.histories, messages)
	if c.err != nil {
		return "", c.err
	}
	if len(c.replies) == 0 {
		return "", nil
	}
	reply := c.replies[0]
	c.replies = c.replies[1:]
	return reply, nil
}

// blockingCompletion parks every call until release is closed, so tests can
// observe the session mid turn.
type blockingCompletion struct {
	reply   string
	started chan struct{}
	release chan struct{}
}

func newBlockingCompletion(reply string) *blockingCompletion {
	return &blockingCompletion{
		reply:   reply,
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (c *blockingCompletion) Complete(ctx context.Context, _ []llms.Message, _ ...llms.CompletionOption) (string, error) {
	select {
	case c.started <- struct{}{}:
	default:
	}
	select {
	case <-c.release:
		return c.reply, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// fakeSpeech completes playback immediately unless manual is set, in which
// case the test drives completion through release or Cancel.
type fakeSpeech struct {
	speakErr error
	manual   bool

	speakCalls  atomic.Int32
	cancelCalls atomic.Int32
	closeCalls  atomic.Int32

	mu         sync.Mutex
	spoken     []string
	onComplete func()
}

func (f *fakeSpeech) Speak(_ context.Context, text string, onComplete func()) error {
	if f.speakErr != nil {
		f.speakCalls.Add(1)
		return f.speakErr
	}
	f.mu.Lock()
	f.spoken = append(f.spoken, text)
	f.onComplete = onComplete
	f.mu.Unlock()
	f.speakCalls.Add(1)
	if !f.manual {
		f.release()
	}
	return nil
}

// release fires the pending completion callback at most once.
func (f *fakeSpeech) release() {
	f.mu.Lock()
	onComplete := f.onComplete
	f.onComplete = nil
	f.mu.Unlock()
	if onComplete != nil {
		onComplete()
	}
}

func (f *fakeSpeech) Cancel() {
	f.cancelCalls.Add(1)
	f.release()
}

func (f *fakeSpeech) Close() {
	f.closeCalls.Add(1)
}

func (f *fakeSpeech) spokenTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.spoken...)
}
