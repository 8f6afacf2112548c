// Command processor merges a logmanager and a gestora spreadsheet offline and
// writes the consolidated base as CSV.
//
//	processor -logmanager logmanager.xlsx -gestora gestora.xlsx -out base.csv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"slapulse/internal/analytics"
	"slapulse/internal/config"
	"slapulse/internal/dataprocessing"
	"slapulse/internal/exporter"
	"slapulse/internal/infrastructure"
	"slapulse/internal/operations"
	"slapulse/internal/store"
	"slapulse/pkg/contracts/domain"
)

// options are the command line flags
type options struct {
	logmanager string
	gestora    string
	out        string
	slaTarget  float64
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env file", slog.String("error", err.Error()))
	}

	opts, err := parseFlags(os.Args[1:], time.Now())
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", slog.String("error", err.Error()))
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, logger, os.Stdout); err != nil {
		logger.ErrorContext(ctx, "Processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func parseFlags(args []string, now time.Time) (options, error) {
	fset := flag.NewFlagSet("processor", flag.ContinueOnError)
	var opts options
	fset.StringVar(&opts.logmanager, "logmanager", "", "logmanager spreadsheet (.xlsx)")
	fset.StringVar(&opts.gestora, "gestora", "", "gestora spreadsheet (.xlsx)")
	fset.StringVar(&opts.out, "out", "", "output CSV (defaults to "+exporter.ExportFilename(now)+")")
	fset.Float64Var(&opts.slaTarget, "sla-target", analytics.DefaultSLATarget, "SLA target percentage")

	if err := fset.Parse(args); err != nil {
		return options{}, err
	}
	if opts.logmanager == "" || opts.gestora == "" {
		return options{}, errors.New("both -logmanager and -gestora are required")
	}
	if opts.out == "" {
		opts.out = exporter.ExportFilename(now)
	}
	return opts, nil
}

// run processes both spreadsheets, writes the CSV and prints a summary to w.
func run(ctx context.Context, opts options, logger *slog.Logger, w io.Writer) error {
	start := time.Now()
	logger.InfoContext(ctx, "Starting SLA processing",
		slog.String("logmanager", opts.logmanager),
		slog.String("gestora", opts.gestora),
		slog.String("out", opts.out))

	processor := operations.NewProcessor(dataprocessing.NewParser(logger), store.New(logger), nil, logger)
	result, err := processor.Process(ctx, operations.Inputs{
		LogmanagerPath: opts.logmanager,
		GestoraPath:    opts.gestora,
	})
	if err != nil {
		return err
	}

	if err := exporter.WriteConsolidatedFile(opts.out, result.Records); err != nil {
		return fmt.Errorf("write %s: %w", opts.out, err)
	}

	engine := analytics.NewEngine(analytics.WithSLATarget(opts.slaTarget))
	overview, ok := engine.Overview(result.Records)
	if !ok {
		fmt.Fprintf(w, "Nenhum registro processado. CSV gravado em %s\n", opts.out)
		return nil
	}

	printSummary(w, result, overview, opts)
	logger.InfoContext(ctx, "SLA processing completed",
		slog.Int("records", len(result.Records)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func printSummary(w io.Writer, result *operations.Run, overview *domain.OverviewData, opts options) {
	m := overview.Metrics
	fmt.Fprintf(w, "Logmanager: %d linhas (%d válidas)\n", result.Logmanager.TotalRows, result.Logmanager.ValidRows)
	fmt.Fprintf(w, "Gestora:    %d linhas (%d válidas)\n", result.Gestora.TotalRows, result.Gestora.ValidRows)
	fmt.Fprintf(w, "Pacotes:    %d\n", m.TotalPackages)
	fmt.Fprintf(w, "No prazo:   %d (%.2f%%)\n", m.WithinSla, m.WithinSlaPercentage)
	fmt.Fprintf(w, "Fora prazo: %d (%.2f%%)\n", m.OutsideSla, m.OutsideSlaPercentage)
	fmt.Fprintf(w, "Atrasos:    %d (média %.2f dias, máx %d)\n", m.TotalDelays, m.AverageDelay, m.MaxDelay)
	if m.WithinSlaPercentage < opts.slaTarget {
		fmt.Fprintf(w, "Meta de SLA %.0f%% não atingida\n", opts.slaTarget)
	}

	printRanking(w, "Vendedores com mais atrasos", overview.TopDelayedSellers)
	printRanking(w, "Zonas críticas", overview.TopCriticalZones)
	fmt.Fprintf(w, "CSV gravado em %s\n", opts.out)
}

func printRanking(w io.Writer, title string, entries []domain.RankingEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, e := range entries {
		fmt.Fprintf(w, "  %d. %s (%d)\n", e.Rank, e.Name, e.Value)
	}
}
