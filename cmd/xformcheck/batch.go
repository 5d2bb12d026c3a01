package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/cwbudde/algo-verify/batch"
	"github.com/cwbudde/algo-verify/internal/telemetry"
	"github.com/cwbudde/algo-verify/report"
	"github.com/cwbudde/algo-verify/verify"
)

type batchFlags struct {
	envFile     string
	mode        string
	rates       string
	bits        string
	destRate    int
	basePrefix  string
	concurrency int
	tolRate     string
	tolTempo    string
	jsonPath    string
	csvPath     string
	xlsxPath    string
	quiet       bool
}

func runBatch(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("batch", "", stderr)

	var bf batchFlags
	fs.StringVar(&bf.envFile, "env", ".env", "optional file of XFORMCHECK_* variables")
	fs.StringVar(&bf.mode, "mode", "all", "cases to run: rate, tempo or all")
	fs.StringVar(&bf.rates, "rates", "", "comma-separated sample rates (overrides config)")
	fs.StringVar(&bf.bits, "bits", "", "comma-separated bit depths (overrides config)")
	fs.IntVar(&bf.destRate, "rate", 0, "only verify conversions to this destination rate")
	fs.StringVar(&bf.basePrefix, "base", "", "only verify tempo base names with this prefix")
	fs.IntVar(&bf.concurrency, "concurrency", 0, "cases verified in parallel (overrides config)")
	fs.StringVar(&bf.tolRate, "rate-tolerance", "", "JSON rate tolerance overrides")
	fs.StringVar(&bf.tolTempo, "tempo-tolerance", "", "JSON tempo/pitch tolerance overrides")
	fs.StringVar(&bf.jsonPath, "json", "", "write records as JSON to this file")
	fs.StringVar(&bf.csvPath, "csv", "", "write a CSV report to this file")
	fs.StringVar(&bf.xlsxPath, "xlsx", "", "write an XLSX report to this file")
	fs.BoolVar(&bf.quiet, "q", false, "do not log per-case progress")

	rateSrc := fs.String("rate-src-url", "", "base URL of rate conversion inputs")
	rateDst := fs.String("rate-dst-url", "", "base URL of rate conversion outputs")
	tempoSrc := fs.String("tempo-src-url", "", "base URL of tempo/pitch inputs")
	tempoDst := fs.String("tempo-dst-url", "", "base URL of tempo/pitch outputs")
	duration := fs.Duration("duration", 0, "analyse at most this much of each file (0 = all)")

	if _, err := parse(fs, args, 0); err != nil {
		return usageCode(err)
	}

	cfg, err := batch.LoadConfig(bf.envFile)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	overrideString(&cfg.RateSourceURL, *rateSrc)
	overrideString(&cfg.RateDestURL, *rateDst)
	overrideString(&cfg.TempoSourceURL, *tempoSrc)
	overrideString(&cfg.TempoDestURL, *tempoDst)

	if err := bf.apply(&cfg); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	if *duration > 0 {
		cfg.MaxDuration = *duration
	}

	jobs, err := bf.jobs(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	provider, err := telemetry.Setup(ctx, telemetry.DefaultConfig())
	if err != nil {
		fmt.Fprintf(stderr, "warning: tracing disabled: %v\n", err)
	}

	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(stderr, "warning: trace shutdown: %v\n", err)
		}
	}()

	logOut := stderr
	if bf.quiet {
		logOut = io.Discard
	}

	verifier := verify.NewVerifier(
		verify.WithRateTolerance(rateTolerance(stderr, bf.tolRate)),
		verify.WithTempoTolerance(tempoTolerance(stderr, bf.tolTempo)),
	)

	runner, err := batch.NewRunner(cfg,
		batch.WithVerifier(verifier),
		batch.WithLogger(log.New(logOut, "batch: ", log.LstdFlags)),
	)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	m := batch.NewMatrix()
	if err := runner.Run(ctx, jobs, m); err != nil {
		fmt.Fprintf(stderr, "error: run %s: %v\n", runner.RunID(), err)
		return exitFail
	}

	records := m.Records()

	if err := report.WriteText(stdout, records); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFail
	}

	if err := writeReports(bf, records, runner.RunID()); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFail
	}

	if s := report.Summarize(records); s.Passed != s.Total {
		return exitFail
	}

	return exitPass
}

func (bf batchFlags) apply(cfg *batch.Config) error {
	if bf.rates != "" {
		rates, err := batch.ParseInts(bf.rates)
		if err != nil {
			return fmt.Errorf("-rates: %w", err)
		}

		cfg.Rates = rates
	}

	if bf.bits != "" {
		bits, err := batch.ParseInts(bf.bits)
		if err != nil {
			return fmt.Errorf("-bits: %w", err)
		}

		cfg.BitDepths = bits
	}

	if bf.destRate != 0 {
		cfg.DestRate = bf.destRate
	}

	if bf.basePrefix != "" {
		cfg.BasePrefix = bf.basePrefix
	}

	if bf.concurrency != 0 {
		cfg.Concurrency = bf.concurrency
	}

	return cfg.Validate()
}

func (bf batchFlags) jobs(cfg batch.Config) ([]batch.Job, error) {
	switch strings.ToLower(bf.mode) {
	case "rate":
		return batch.RateJobs(cfg), nil
	case "tempo":
		return batch.TempoJobs(cfg), nil
	case "all", "":
		return append(batch.RateJobs(cfg), batch.TempoJobs(cfg)...), nil
	default:
		return nil, fmt.Errorf("-mode: unknown mode %q", bf.mode)
	}
}

func writeReports(bf batchFlags, records []verify.Record, runID string) error {
	if bf.jsonPath != "" {
		err := writeFile(bf.jsonPath, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")

			return enc.Encode(struct {
				RunID   string          `json:"run_id"`
				Records []verify.Record `json:"records"`
			}{runID, records})
		})
		if err != nil {
			return err
		}
	}

	if bf.csvPath != "" {
		if err := writeFile(bf.csvPath, func(w io.Writer) error { return report.WriteCSV(w, records) }); err != nil {
			return err
		}
	}

	if bf.xlsxPath != "" {
		if err := writeFile(bf.xlsxPath, func(w io.Writer) error { return report.WriteXLSX(w, records, runID) }); err != nil {
			return err
		}
	}

	return nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}

	return f.Close()
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
