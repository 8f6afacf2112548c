package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"slapulse/internal/config"
	"slapulse/pkg/contracts/events"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testUploadConfig() config.UploadConfig {
	return config.UploadConfig{
		MaxFileSize:       50 * 1024 * 1024,
		AllowedExtensions: []string{".xlsx", "xlsm"},
	}
}

type recordingPublisher struct {
	mu    sync.Mutex
	types []events.MessageType
	last  map[events.MessageType]interface{}
}

func (p *recordingPublisher) Publish(_ context.Context, msgType events.MessageType, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		p.last = make(map[events.MessageType]interface{})
	}
	p.types = append(p.types, msgType)
	p.last[msgType] = data
	return nil
}

func (p *recordingPublisher) lastOf(msgType events.MessageType) interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last[msgType]
}
