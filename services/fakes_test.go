package services

import (
	"context"
	"sync"
	"time"
)

// scriptedLLM answers by prompt kind and records every request.
type scriptedLLM struct {
	mu      sync.Mutex
	ideas   string
	steps   string
	waste   string
	err     error
	gate    chan struct{}
	calls   []ChatRequest
	byKinds map[string]int
}

func newScriptedLLM() *scriptedLLM {
	return &scriptedLLM{byKinds: make(map[string]int)}
}

func (f *scriptedLLM) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)

	kind := "waste"
	reply := f.waste
	switch req.SystemPrompt {
	case ideasSystemPrompt:
		kind, reply = "ideas", f.ideas
	case stepsSystemPrompt:
		kind, reply = "steps", f.steps
	}
	f.byKinds[kind]++

	if f.err != nil {
		return "", f.err
	}
	return reply, nil
}

func (f *scriptedLLM) count(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byKinds[kind]
}

func (f *scriptedLLM) lastCall() ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

// busyLock simulates another instance holding the generation marker. onAcquire
// runs on every attempt so tests can play the other instance's write.
type busyLock struct {
	ttl       time.Duration
	onAcquire func()
}

func (l *busyLock) Acquire(context.Context, string) (func(), bool, error) {
	if l.onAcquire != nil {
		l.onAcquire()
	}
	return nil, false, nil
}

func (l *busyLock) TTL() time.Duration { return l.ttl }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
