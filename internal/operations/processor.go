package operations

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"slapulse/internal/dataprocessing"
	apperrors "slapulse/internal/errors"
	"slapulse/internal/infrastructure"
	"slapulse/internal/store"
	"slapulse/internal/validation"
	"slapulse/internal/websocket"
	"slapulse/pkg/contracts/events"
)

// snapshotSource tags snapshots published by a processing run.
const snapshotSource = "processing"

// SnapshotSaver persists a published snapshot
type SnapshotSaver interface {
	SaveSnapshot(ctx context.Context, snap *store.Snapshot) error
}

// Option configures a Processor
type Option func(*Processor)

// WithSnapshotSaver persists every published snapshot.
func WithSnapshotSaver(saver SnapshotSaver) Option {
	return func(p *Processor) { p.saver = saver }
}

// WithPublisher pushes data_refresh and error messages to dashboards.
func WithPublisher(publisher websocket.Publisher) Option {
	return func(p *Processor) { p.publisher = publisher }
}

// WithMetrics records run outcomes.
func WithMetrics(metrics *infrastructure.BusinessMetrics) Option {
	return func(p *Processor) { p.metrics = metrics }
}

// WithIDGenerator overrides the generator of run and record ids.
func WithIDGenerator(gen func() string) Option {
	return func(p *Processor) { p.newID = gen }
}

// Processor orchestrates processing runs
type Processor struct {
	store     *store.Store
	tracker   *StatusTracker
	saver     SnapshotSaver
	publisher websocket.Publisher
	metrics   *infrastructure.BusinessMetrics
	logger    *slog.Logger
	newID     func() string
	steps     []Step

	running atomic.Bool
	wg      sync.WaitGroup
}

// NewProcessor creates a processor that publishes into st.
func NewProcessor(parser *dataprocessing.Parser, st *store.Store, tracker *StatusTracker, logger *slog.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if parser == nil {
		parser = dataprocessing.NewParser(logger)
	}
	if tracker == nil {
		tracker = NewStatusTracker(nil, logger)
	}
	p := &Processor{
		store:   st,
		tracker: tracker,
		logger:  logger.With(slog.String("component", "processor")),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.steps = []Step{
		newPrepareStep(validation.NewFileValidator(logger)),
		newParseStep(parser),
		newMergeStep(p.newID),
		newSLAStep(p.logger),
	}
	return p
}

// Tracker returns the status tracker fed by this processor.
func (p *Processor) Tracker() *StatusTracker {
	return p.tracker
}

// Running reports whether a run is in progress.
func (p *Processor) Running() bool {
	return p.running.Load()
}

// Start launches a run in the background and returns its id. The run keeps
// the values of ctx, such as the trace id, but not its cancellation.
func (p *Processor) Start(ctx context.Context, in Inputs) (string, error) {
	if !p.running.CompareAndSwap(false, true) {
		return "", apperrors.ErrProcessingInProgress
	}
	run := p.newRun(in)
	runCtx := context.WithoutCancel(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.running.Store(false)
		p.execute(runCtx, run)
	}()
	return run.ID, nil
}

// Process runs synchronously and returns the finished run.
func (p *Processor) Process(ctx context.Context, in Inputs) (*Run, error) {
	if !p.running.CompareAndSwap(false, true) {
		return nil, apperrors.ErrProcessingInProgress
	}
	defer p.running.Store(false)

	run := p.newRun(in)
	if err := p.execute(ctx, run); err != nil {
		return run, err
	}
	return run, nil
}

// Wait blocks until background runs finish or ctx ends.
func (p *Processor) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Processor) newRun(in Inputs) *Run {
	return &Run{ID: p.newID(), Inputs: in, StartedAt: time.Now()}
}

func (p *Processor) execute(ctx context.Context, run *Run) error {
	ctx = infrastructure.EnsureTraceID(ctx)
	logger := p.logger.With(slog.String("run_id", run.ID))
	logger.InfoContext(ctx, "processing started",
		slog.String("logmanager", run.Inputs.LogmanagerPath),
		slog.String("gestora", run.Inputs.GestoraPath))

	p.tracker.Begin(ctx)
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return p.fail(ctx, logger, run, step, NewCancellationError(step.ID(), err))
		}
		p.tracker.Step(ctx, step.Message(), step.Progress())

		stepStart := time.Now()
		if err := step.Execute(ctx, run); err != nil {
			if _, ok := err.(*OperationError); !ok {
				err = NewExecutionError(step.ID(), err)
			}
			return p.fail(ctx, logger, run, step, err)
		}
		logger.DebugContext(ctx, "step completed",
			slog.String("step", step.ID()),
			slog.Duration("duration", time.Since(stepStart)))
	}

	snap := p.store.Replace(run.Records, snapshotSource)
	run.Version = snap.Version
	if p.saver != nil {
		if err := p.saver.SaveSnapshot(ctx, snap); err != nil {
			// Data stays live in memory; only durability is lost.
			logger.ErrorContext(ctx, "snapshot persistence failed", slog.String("error", err.Error()))
			infrastructure.RecordError(ctx, err)
		}
	}

	p.tracker.Complete(ctx, snap.Len())
	p.publish(ctx, logger, events.MessageTypeDataRefresh, events.DataRefreshEvent{
		Version:  snap.Version,
		Records:  snap.Len(),
		Source:   snap.Source,
		LoadedAt: snap.LoadedAt,
	})

	duration := time.Since(run.StartedAt)
	infrastructure.RecordProcessingMetrics(ctx, p.metrics, run.ID, duration, snap.Len(), nil)
	logger.InfoContext(ctx, "processing completed",
		slog.Int("records", snap.Len()),
		slog.Int64("version", snap.Version),
		slog.Duration("duration", duration))
	return nil
}

func (p *Processor) fail(ctx context.Context, logger *slog.Logger, run *Run, step Step, err error) error {
	message := userMessage(err)
	logger.ErrorContext(ctx, "processing failed",
		slog.String("step", step.ID()),
		slog.String("error", err.Error()))

	p.tracker.Fail(ctx, step.Message(), message)
	p.publish(ctx, logger, events.MessageTypeError, events.ErrorEvent{
		Code:    "PROCESSING_FAILED",
		Message: message,
		Step:    step.ID(),
	})
	infrastructure.RecordProcessingMetrics(ctx, p.metrics, run.ID, time.Since(run.StartedAt), 0, err)
	return err
}

func (p *Processor) publish(ctx context.Context, logger *slog.Logger, msgType events.MessageType, data interface{}) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, msgType, data); err != nil {
		logger.WarnContext(ctx, "broadcast failed",
			slog.String("type", string(msgType)),
			slog.String("error", err.Error()))
	}
}
