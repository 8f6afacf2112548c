package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"slapulse/internal/analytics"
	"slapulse/internal/dataprocessing"
	"slapulse/internal/validation"
	"slapulse/pkg/contracts/domain"
)

// Inputs are the staged workbooks a run reads
type Inputs struct {
	LogmanagerPath string
	GestoraPath    string
}

// Run carries the state of one processing run between steps
type Run struct {
	ID         string
	Inputs     Inputs
	StartedAt  time.Time
	Logmanager *dataprocessing.ParseResult
	Gestora    *dataprocessing.ParseResult
	Records    []domain.PackageRecord
	Metrics    domain.SlaMetrics
	Version    int64
}

// Step is a single unit of work in a processing run
type Step interface {
	// ID returns the stable identifier used in logs and errors
	ID() string

	// Message is the text shown while the step runs
	Message() string

	// Progress is the percentage reported when the step starts
	Progress() int

	Execute(ctx context.Context, run *Run) error
}

// baseStep provides the descriptive half of a Step
type baseStep struct {
	id       string
	message  string
	progress int
}

func (b baseStep) ID() string      { return b.id }
func (b baseStep) Message() string { return b.message }
func (b baseStep) Progress() int   { return b.progress }

// prepareStep checks both staged workbooks exist and look like workbooks
type prepareStep struct {
	baseStep
	files *validation.FileValidator
}

func newPrepareStep(files *validation.FileValidator) *prepareStep {
	return &prepareStep{
		baseStep: baseStep{id: "prepare", message: "Iniciando processamento...", progress: 0},
		files:    files,
	}
}

func (s *prepareStep) Execute(_ context.Context, run *Run) error {
	inputs := []struct {
		fileType domain.FileType
		path     string
	}{
		{domain.FileTypeLogmanager, run.Inputs.LogmanagerPath},
		{domain.FileTypeGestora, run.Inputs.GestoraPath},
	}
	for _, in := range inputs {
		if in.path == "" {
			return NewValidationError(s.id, fmt.Sprintf("Planilha %s não enviada", in.fileType))
		}
		err := s.files.ValidateExcelFile(in.path)
		switch {
		case err == nil:
		case errors.Is(err, validation.ErrFileMissing):
			return NewValidationError(s.id, fmt.Sprintf("Planilha %s não encontrada", in.fileType))
		case errors.Is(err, validation.ErrUnreadable):
			return NewValidationError(s.id, fmt.Sprintf("Planilha %s não pode ser lida", in.fileType))
		case errors.Is(err, validation.ErrNotAFile),
			errors.Is(err, validation.ErrNotSpreadsheet),
			errors.Is(err, validation.ErrLockFile):
			return NewValidationError(s.id, fmt.Sprintf("Planilha %s inválida", in.fileType))
		default:
			return err
		}
	}
	return nil
}

// parseStep reads both workbooks in parallel
type parseStep struct {
	baseStep
	parser *dataprocessing.Parser
}

func newParseStep(parser *dataprocessing.Parser) *parseStep {
	return &parseStep{
		baseStep: baseStep{id: "parse", message: "Validando dados...", progress: 25},
		parser:   parser,
	}
}

func (s *parseStep) Execute(ctx context.Context, run *Run) error {
	logmanager, gestora, err := s.parser.ParseBoth(ctx, run.Inputs.LogmanagerPath, run.Inputs.GestoraPath)
	if err != nil {
		return err
	}
	if logmanager.ValidRows == 0 {
		return NewValidationError(s.id, "Planilha logmanager não contém pedidos válidos")
	}
	run.Logmanager = logmanager
	run.Gestora = gestora
	return nil
}

// mergeStep joins the gestora packages onto the logmanager orders
type mergeStep struct {
	baseStep
	newID func() string
}

func newMergeStep(newID func() string) *mergeStep {
	return &mergeStep{
		baseStep: baseStep{id: "merge", message: "Mesclando planilhas...", progress: 50},
		newID:    newID,
	}
}

func (s *mergeStep) Execute(_ context.Context, run *Run) error {
	run.Records = dataprocessing.Merge(run.Logmanager.Records, run.Gestora.Records, s.newID)
	return nil
}

// slaStep summarizes the SLA classification of the merged records
type slaStep struct {
	baseStep
	logger *slog.Logger
}

func newSLAStep(logger *slog.Logger) *slaStep {
	return &slaStep{
		baseStep: baseStep{id: "sla", message: "Calculando SLA...", progress: 75},
		logger:   logger,
	}
}

func (s *slaStep) Execute(ctx context.Context, run *Run) error {
	for i := range run.Records {
		if !run.Records[i].SLA.Valid() {
			return fmt.Errorf("record %s has no SLA classification", run.Records[i].Pedido)
		}
	}
	run.Metrics = analytics.ComputeSlaMetrics(run.Records)
	s.logger.InfoContext(ctx, "sla calculated",
		slog.String("run_id", run.ID),
		slog.Int("records", run.Metrics.TotalPackages),
		slog.Float64("sla_percentage", run.Metrics.WithinSlaPercentage),
		slog.Int("delays", run.Metrics.TotalDelays))
	return nil
}
