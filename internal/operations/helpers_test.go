package operations

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"slapulse/internal/store"
	"slapulse/pkg/contracts/events"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type published struct {
	Type events.MessageType
	Data interface{}
}

// recordingPublisher keeps every message it is asked to publish
type recordingPublisher struct {
	mu       sync.Mutex
	messages []published
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, msgType events.MessageType, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, published{Type: msgType, Data: data})
	return p.err
}

func (p *recordingPublisher) ofType(msgType events.MessageType) []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []interface{}
	for _, m := range p.messages {
		if m.Type == msgType {
			out = append(out, m.Data)
		}
	}
	return out
}

type fakeSaver struct {
	mu    sync.Mutex
	saved []*store.Snapshot
	err   error
}

func (s *fakeSaver) SaveSnapshot(_ context.Context, snap *store.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, snap)
	return nil
}

// blockingStep parks a run until released
type blockingStep struct {
	baseStep
	entered chan struct{}
	release chan struct{}
}

func newBlockingStep() *blockingStep {
	return &blockingStep{
		baseStep: baseStep{id: "block", message: "Aguardando...", progress: 10},
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
}

func (s *blockingStep) Execute(ctx context.Context, _ *Run) error {
	close(s.entered)
	select {
	case <-s.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type failingStep struct {
	baseStep
	err error
}

func (s *failingStep) Execute(context.Context, *Run) error { return s.err }

var errBoom = errors.New("boom")

func sequence() func() string {
	var n atomic.Int64
	return func() string {
		return "id-" + strconv.FormatInt(n.Add(1), 10)
	}
}
