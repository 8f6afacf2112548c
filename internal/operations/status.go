package operations

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"slapulse/internal/websocket"
	"slapulse/pkg/contracts/domain"
	"slapulse/pkg/contracts/events"
)

const (
	idleMessage      = "Sistema aguardando dados"
	processingNotice = "Processando planilhas..."
	processedMessage = "Dados processados com sucesso"
	completedStep    = "Processamento concluído"
)

// StatusTracker is the single authority for processing and system status.
// Every change is broadcast so dashboards never have to poll.
type StatusTracker struct {
	mu         sync.RWMutex
	processing domain.ProcessingStatus
	system     domain.SystemStatus
	publisher  websocket.Publisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewStatusTracker creates a tracker in the idle state. publisher may be nil.
func NewStatusTracker(publisher websocket.Publisher, logger *slog.Logger) *StatusTracker {
	if logger == nil {
		logger = slog.Default()
	}
	t := &StatusTracker{
		publisher: publisher,
		logger:    logger.With(slog.String("component", "status_tracker")),
		now:       time.Now,
	}
	t.processing = domain.ProcessingStatus{Status: domain.ProcessingIdle, LastUpdated: t.now()}
	t.system = domain.SystemStatus{Status: domain.SystemIdle, Message: idleMessage}
	return t
}

// Processing returns the status of the current or last run.
func (t *StatusTracker) Processing() domain.ProcessingStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.processing
}

// System returns the overall data availability.
func (t *StatusTracker) System() domain.SystemStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.system
}

// Begin marks a run as started.
func (t *StatusTracker) Begin(ctx context.Context) {
	t.setSystem(ctx, func(s *domain.SystemStatus) {
		s.Status = domain.SystemProcessing
		s.Message = processingNotice
	})
}

// Step records progress of the active run.
func (t *StatusTracker) Step(ctx context.Context, step string, progress int) {
	t.setProcessing(ctx, domain.ProcessingStatus{
		Status:      domain.ProcessingRunning,
		CurrentStep: step,
		Progress:    progress,
	})
}

// Complete marks the run as finished with records published.
func (t *StatusTracker) Complete(ctx context.Context, records int) {
	t.setProcessing(ctx, domain.ProcessingStatus{
		Status:      domain.ProcessingCompleted,
		CurrentStep: completedStep,
		Progress:    100,
		Message:     fmt.Sprintf("%d registros processados", records),
	})
	t.setSystem(ctx, func(s *domain.SystemStatus) {
		now := t.now()
		s.Status = domain.SystemProcessed
		s.LastUpdate = &now
		s.Message = processedMessage
	})
}

// Fail marks the run as failed at step. Progress stays where the run stopped.
func (t *StatusTracker) Fail(ctx context.Context, step, message string) {
	progress := t.Processing().Progress
	t.setProcessing(ctx, domain.ProcessingStatus{
		Status:      domain.ProcessingFailed,
		CurrentStep: step,
		Progress:    progress,
		Message:     message,
	})
	t.setSystem(ctx, func(s *domain.SystemStatus) {
		s.Status = domain.SystemError
		s.Message = message
	})
}

// Restore reports data loaded from a previous run without a processing run.
func (t *StatusTracker) Restore(ctx context.Context, records int, savedAt time.Time) {
	t.setSystem(ctx, func(s *domain.SystemStatus) {
		at := savedAt
		s.Status = domain.SystemProcessed
		s.LastUpdate = &at
		s.Message = fmt.Sprintf("%d registros carregados", records)
	})
}

func (t *StatusTracker) setProcessing(ctx context.Context, status domain.ProcessingStatus) {
	status.LastUpdated = t.now()

	t.mu.Lock()
	t.processing = status
	t.mu.Unlock()

	t.logger.InfoContext(ctx, "processing status",
		slog.String("status", string(status.Status)),
		slog.String("step", status.CurrentStep),
		slog.Int("progress", status.Progress))
	t.publish(ctx, events.MessageTypeProcessingStatus, status)
}

func (t *StatusTracker) setSystem(ctx context.Context, update func(*domain.SystemStatus)) {
	t.mu.Lock()
	update(&t.system)
	status := t.system
	t.mu.Unlock()

	t.publish(ctx, events.MessageTypeSystemStatus, status)
}

func (t *StatusTracker) publish(ctx context.Context, msgType events.MessageType, data interface{}) {
	if t.publisher == nil {
		return
	}
	if err := t.publisher.Publish(ctx, msgType, data); err != nil {
		t.logger.WarnContext(ctx, "status broadcast failed",
			slog.String("type", string(msgType)),
			slog.String("error", err.Error()))
	}
}
