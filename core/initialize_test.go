package orchestration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestInitializeSharesOneAttemptAcrossCallers(t *testing.T) {
	transcriber := &fakeTranscriber{initDelay: 50 * time.Millisecond}
	var connected atomic.Int32

	s := NewSession(Identity{Name: "Alex"},
		WithTranscriber(transcriber),
		WithConnectionStateCallback(func(state bool) {
			if state {
				connected.Add(1)
			}
		}),
	)
	defer s.Close()

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.Initialize(context.Background())
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d got error: %v", i, err)
		}
	}
	if got := transcriber.initCalls.Load(); got != 1 {
		t.Fatalf("expected one underlying attempt, got %d", got)
	}
	if got := connected.Load(); got != 1 {
		t.Fatalf("expected one connection notification, got %d", got)
	}
}

func TestInitializeFailureIsSharedAndRetried(t *testing.T) {
	transcriber := &fakeTranscriber{initErr: errors.New("dial refused"), initDelay: 20 * time.Millisecond}
	s := NewSession(Identity{Name: "Alex"}, WithTranscriber(transcriber))
	defer s.Close()

	const callers = 4
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.Initialize(context.Background())
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err == nil {
			t.Fatalf("caller %d expected the shared failure", i)
		}
	}
	if got := transcriber.initCalls.Load(); got != 1 {
		t.Fatalf("expected one underlying attempt, got %d", got)
	}

	// A failed attempt is discarded, so the next call retries.
	transcriber.initErr = nil
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("expected the retry to succeed, got %v", err)
	}
	if got := transcriber.initCalls.Load(); got != 2 {
		t.Fatalf("expected a second underlying attempt, got %d", got)
	}
}

func TestInitializeAfterSuccessReturnsImmediately(t *testing.T) {
	transcriber := &fakeTranscriber{}
	s := NewSession(Identity{Name: "Alex"}, WithTranscriber(transcriber))
	defer s.Close()

	for range 3 {
		if err := s.Initialize(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := transcriber.initCalls.Load(); got != 1 {
		t.Fatalf("expected one underlying attempt, got %d", got)
	}
}

func TestInitializeWaiterHonorsContextCancellation(t *testing.T) {
	transcriber := &fakeTranscriber{initDelay: 500 * time.Millisecond}
	s := NewSession(Identity{Name: "Alex"}, WithTranscriber(transcriber))
	defer s.Close()

	go s.Initialize(context.Background())

	// Make sure the first attempt is in flight before joining it.
	deadline := time.Now().Add(2 * time.Second)
	for transcriber.initCalls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for the first attempt")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Initialize(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
