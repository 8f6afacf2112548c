package operations

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slapulse/internal/dataprocessing"
	apperrors "slapulse/internal/errors"
	"slapulse/internal/infrastructure"
	"slapulse/internal/store"
	"slapulse/internal/testutil"
	"slapulse/pkg/contracts/domain"
	"slapulse/pkg/contracts/events"
)

type harness struct {
	processor *Processor
	store     *store.Store
	publisher *recordingPublisher
	saver     *fakeSaver
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := testLogger()
	h := &harness{
		store:     store.New(logger),
		publisher: &recordingPublisher{},
		saver:     &fakeSaver{},
	}
	tracker := NewStatusTracker(h.publisher, logger)
	h.processor = NewProcessor(dataprocessing.NewParser(logger), h.store, tracker, logger,
		WithPublisher(h.publisher),
		WithSnapshotSaver(h.saver),
		WithIDGenerator(sequence()),
	)
	return h
}

func sampleInputs(t *testing.T) Inputs {
	dir := t.TempDir()
	return Inputs{
		LogmanagerPath: testutil.LogmanagerWorkbook(t, dir),
		GestoraPath:    testutil.GestoraWorkbook(t, dir),
	}
}

func progressSteps(p *recordingPublisher) []int {
	var out []int
	for _, d := range p.ofType(events.MessageTypeProcessingStatus) {
		out = append(out, d.(domain.ProcessingStatus).Progress)
	}
	return out
}

func TestProcess(t *testing.T) {
	h := newHarness(t)

	run, err := h.processor.Process(context.Background(), sampleInputs(t))
	require.NoError(t, err)

	assert.Equal(t, "id-1", run.ID)
	require.Len(t, run.Records, testutil.SampleRecords)
	assert.Equal(t, int64(1), run.Version)
	assert.Equal(t, 3, run.Logmanager.ValidRows)
	assert.Equal(t, 2, run.Gestora.ValidRows)

	byOrder := map[string]domain.PackageRecord{}
	for _, r := range run.Records {
		byOrder[r.Pedido] = r
	}
	late := byOrder["1001"]
	assert.Equal(t, domain.SLAOutsideDeadline, late.SLA)
	assert.Equal(t, 2, late.Delay())
	assert.Equal(t, "Loja Meli Centro", byOrder["1001"].Vendedor)
	assert.Equal(t, domain.SLAWithinDeadline, byOrder["1002"].SLA)
	assert.Equal(t, domain.SLANotDelivered, byOrder["1003"].SLA)
	assert.Equal(t, domain.SourceLogmanager, byOrder["1003"].Source)

	assert.Equal(t, 3, run.Metrics.TotalPackages)
	assert.Equal(t, 1, run.Metrics.WithinSla)

	snap := h.store.Current()
	assert.Equal(t, testutil.SampleRecords, snap.Len())
	assert.Equal(t, "processing", snap.Source)
	require.Len(t, h.saver.saved, 1)
	assert.Same(t, snap, h.saver.saved[0])

	assert.Equal(t, []int{0, 25, 50, 75, 100}, progressSteps(h.publisher))

	refresh := h.publisher.ofType(events.MessageTypeDataRefresh)
	require.Len(t, refresh, 1)
	ev := refresh[0].(events.DataRefreshEvent)
	assert.Equal(t, int64(1), ev.Version)
	assert.Equal(t, testutil.SampleRecords, ev.Records)

	status := h.processor.Tracker().Processing()
	assert.Equal(t, domain.ProcessingCompleted, status.Status)
	assert.Equal(t, "3 registros processados", status.Message)
	assert.Equal(t, domain.SystemProcessed, h.processor.Tracker().System().Status)
	assert.False(t, h.processor.Running())
}

func TestProcessStepMessages(t *testing.T) {
	h := newHarness(t)
	_, err := h.processor.Process(context.Background(), sampleInputs(t))
	require.NoError(t, err)

	var steps []string
	for _, d := range h.publisher.ofType(events.MessageTypeProcessingStatus) {
		steps = append(steps, d.(domain.ProcessingStatus).CurrentStep)
	}
	assert.Equal(t, []string{
		"Iniciando processamento...",
		"Validando dados...",
		"Mesclando planilhas...",
		"Calculando SLA...",
		"Processamento concluído",
	}, steps)
}

func TestProcessMissingUpload(t *testing.T) {
	h := newHarness(t)
	in := sampleInputs(t)
	in.GestoraPath = ""

	_, err := h.processor.Process(context.Background(), in)
	require.Error(t, err)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, ErrorTypeValidation, opErr.Type)
	assert.Equal(t, "prepare", opErr.Step)

	status := h.processor.Tracker().Processing()
	assert.Equal(t, domain.ProcessingFailed, status.Status)
	assert.Equal(t, "Planilha gestora não enviada", status.Message)
	assert.Equal(t, domain.SystemError, h.processor.Tracker().System().Status)

	errs := h.publisher.ofType(events.MessageTypeError)
	require.Len(t, errs, 1)
	assert.Equal(t, "PROCESSING_FAILED", errs[0].(events.ErrorEvent).Code)
	assert.Equal(t, "prepare", errs[0].(events.ErrorEvent).Step)

	assert.False(t, h.store.HasData())
	assert.Empty(t, h.saver.saved)
	assert.Empty(t, h.publisher.ofType(events.MessageTypeDataRefresh))
}

func TestProcessMissingFile(t *testing.T) {
	h := newHarness(t)
	in := sampleInputs(t)
	in.LogmanagerPath = filepath.Join(t.TempDir(), "gone.xlsx")

	_, err := h.processor.Process(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, "Planilha logmanager não encontrada", h.processor.Tracker().Processing().Message)
}

func TestProcessRejectsNonSpreadsheet(t *testing.T) {
	h := newHarness(t)
	in := sampleInputs(t)
	in.GestoraPath = filepath.Join(t.TempDir(), "gestora.csv")
	require.NoError(t, os.WriteFile(in.GestoraPath, []byte("a,b\n"), 0644))

	_, err := h.processor.Process(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, "Planilha gestora inválida", h.processor.Tracker().Processing().Message)
	assert.Equal(t, 0, h.processor.Tracker().Processing().Progress)
}

func TestProcessInvalidColumns(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	in := Inputs{
		LogmanagerPath: testutil.LogmanagerWorkbook(t, dir),
		GestoraPath:    testutil.InvalidWorkbook(t, dir, "gestora.xlsx"),
	}

	_, err := h.processor.Process(context.Background(), in)
	require.Error(t, err)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, ErrorTypeExecution, opErr.Type)
	assert.Equal(t, "parse", opErr.Step)

	var colErr *dataprocessing.ColumnError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, domain.FileTypeGestora, colErr.FileType)

	assert.Equal(t, 25, h.processor.Tracker().Processing().Progress)
	assert.False(t, h.store.HasData())
}

func TestProcessSaverFailureKeepsData(t *testing.T) {
	h := newHarness(t)
	h.saver.err = errors.New("disk full")

	_, err := h.processor.Process(context.Background(), sampleInputs(t))
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleRecords, h.store.Current().Len())
	assert.Equal(t, domain.ProcessingCompleted, h.processor.Tracker().Processing().Status)
}

func TestProcessWrapsStepErrors(t *testing.T) {
	h := newHarness(t)
	h.processor.steps = []Step{&failingStep{baseStep: baseStep{id: "custom", message: "Etapa", progress: 40}, err: errBoom}}

	_, err := h.processor.Process(context.Background(), Inputs{})
	require.ErrorIs(t, err, errBoom)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "custom", opErr.Step)
	assert.Equal(t, "boom", h.processor.Tracker().Processing().Message)
}

func TestProcessCancelled(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.processor.Process(ctx, sampleInputs(t))
	require.Error(t, err)
	assert.True(t, IsCancellation(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "Processamento cancelado", h.processor.Tracker().Processing().Message)
}

func TestStartRejectsConcurrentRuns(t *testing.T) {
	h := newHarness(t)
	block := newBlockingStep()
	h.processor.steps = []Step{block}

	id, err := h.processor.Start(context.Background(), Inputs{})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	<-block.entered
	assert.True(t, h.processor.Running())

	_, err = h.processor.Start(context.Background(), Inputs{})
	assert.ErrorIs(t, err, apperrors.ErrProcessingInProgress)
	_, err = h.processor.Process(context.Background(), Inputs{})
	assert.ErrorIs(t, err, apperrors.ErrProcessingInProgress)

	close(block.release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, h.processor.Wait(ctx))

	assert.False(t, h.processor.Running())
	assert.Equal(t, int64(1), h.store.Current().Version)

	// A new run is accepted once the previous one finished
	h.processor.steps = nil
	_, err = h.processor.Process(context.Background(), Inputs{})
	assert.NoError(t, err)
}

func TestStartOutlivesRequestContext(t *testing.T) {
	h := newHarness(t)
	block := newBlockingStep()
	h.processor.steps = []Step{block}

	ctx, cancel := context.WithCancel(infrastructure.WithTraceID(context.Background(), "trace-123"))
	_, err := h.processor.Start(ctx, Inputs{})
	require.NoError(t, err)
	<-block.entered
	cancel()
	close(block.release)

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	require.NoError(t, h.processor.Wait(waitCtx))
	assert.Equal(t, domain.ProcessingCompleted, h.processor.Tracker().Processing().Status)
}

func TestWaitHonoursContext(t *testing.T) {
	h := newHarness(t)
	block := newBlockingStep()
	h.processor.steps = []Step{block}

	_, err := h.processor.Start(context.Background(), Inputs{})
	require.NoError(t, err)
	<-block.entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, h.processor.Wait(ctx), context.DeadlineExceeded)

	close(block.release)
	require.NoError(t, h.processor.Wait(context.Background()))
}

func TestOperationErrorMessages(t *testing.T) {
	assert.Equal(t, "[validation] prepare: falta", NewValidationError("prepare", "falta").Error())
	assert.Equal(t, "[execution] parse: step execution failed: boom", NewExecutionError("parse", errBoom).Error())
	assert.Equal(t, "unknown operation error", (*OperationError)(nil).Error())
	assert.Nil(t, (*OperationError)(nil).Unwrap())
	assert.Equal(t, "plain", userMessage(errors.New("plain")))
}
