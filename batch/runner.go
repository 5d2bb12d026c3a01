// Package batch runs verification cases over a matrix of remotely hosted
// input/output files and collects the records.
package batch

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-verify/audio"
	"github.com/cwbudde/algo-verify/audio/codec"
	"github.com/cwbudde/algo-verify/internal/telemetry"
	"github.com/cwbudde/algo-verify/verify"
)

// Option configures a Runner.
type Option func(*Runner)

// WithFetcher replaces the HTTP fetcher.
func WithFetcher(f Fetcher) Option {
	return func(r *Runner) { r.fetcher = f }
}

// WithVerifier replaces the default verifier.
func WithVerifier(v *verify.Verifier) Option {
	return func(r *Runner) { r.verifier = v }
}

// WithLogger sets the progress logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithRunID sets the run identifier instead of a random one.
func WithRunID(id string) Option {
	return func(r *Runner) { r.runID = id }
}

// Runner executes jobs concurrently.
type Runner struct {
	cfg      Config
	fetcher  Fetcher
	inputs   *CachingFetcher
	verifier *verify.Verifier
	logger   *log.Logger
	runID    string
}

// NewRunner creates a runner. Without options it downloads over HTTP, logs
// nowhere and verifies with default tolerances.
func NewRunner(cfg Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:      cfg,
		fetcher:  HTTPFetcher{},
		verifier: verify.NewVerifier(),
		logger:   log.New(io.Discard, "", 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.runID == "" {
		r.runID = uuid.NewString()
	}

	r.inputs = NewCachingFetcher(r.fetcher)

	return r, nil
}

// RunID returns the identifier of this run.
func (r *Runner) RunID() string { return r.runID }

// Run verifies every job and adds one record per job to m. Case failures
// never stop the run: fetch and decode failures produce StatusNotRun
// records. Run returns early only when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, jobs []Job, m *Matrix) error {
	ctx, span := telemetry.StartSpan(ctx, "batch.run",
		attribute.String("run.id", r.runID),
		attribute.Int("run.jobs", len(jobs)),
	)
	defer span.End()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)

	for _, job := range jobs {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			rec := r.runJob(gctx, job)
			m.Add(rec)
			r.logger.Printf("%s %s %s", shortID(r.runID), rec.Verdict(), rec.Key())

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	if err := ctx.Err(); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	return nil
}

func (r *Runner) runJob(ctx context.Context, job Job) verify.Record {
	if r.cfg.CaseTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.CaseTimeout)
		defer cancel()
	}

	ctx, span := telemetry.StartSpan(ctx, "batch.case",
		attribute.String("run.id", r.runID),
		attribute.String("case.mode", string(job.Case.Mode())),
		attribute.String("case.key", job.Case.Key()),
	)
	defer span.End()

	in, out, err := r.load(ctx, job)
	if err != nil {
		telemetry.RecordError(span, err)
		return verify.NotRun(job.Case, err)
	}

	rec, err := r.verify(ctx, job.Case, in, out)
	if err != nil {
		telemetry.RecordError(span, err)
		return verify.NotRun(job.Case, err)
	}

	span.SetAttributes(attribute.Bool("case.pass", rec.OverallPass))

	return rec
}

// verify runs the estimators for c. When ctx ends first the case is
// abandoned; the estimators finish in the background and their result is
// dropped.
func (r *Runner) verify(ctx context.Context, c verify.Case, in, out audio.Signal) (verify.Record, error) {
	type result struct {
		rec verify.Record
		err error
	}

	done := make(chan result, 1)

	go func() {
		var res result
		switch c := c.(type) {
		case verify.RateConversion:
			res.rec, res.err = r.verifier.VerifyRateConversion(in, out, c)
		case verify.TempoPitch:
			res.rec, res.err = r.verifier.VerifyTempoPitch(in, out, c)
		default:
			res.err = fmt.Errorf("batch: unsupported case %T", c)
		}
		done <- res
	}()

	select {
	case res := <-done:
		return res.rec, res.err
	case <-ctx.Done():
		return verify.Record{}, fmt.Errorf("verify: %w", ctx.Err())
	}
}

func (r *Runner) load(ctx context.Context, job Job) (audio.Signal, audio.Signal, error) {
	inData, inURL, err := fetchFirst(ctx, r.inputs, job.Inputs)
	if err != nil {
		return audio.Signal{}, audio.Signal{}, fmt.Errorf("input: %w", err)
	}

	outData, err := r.fetcher.Fetch(ctx, job.Output)
	if err != nil {
		return audio.Signal{}, audio.Signal{}, fmt.Errorf("output: %w", err)
	}

	in, _, err := codec.Decode(ctx, inData, r.decodeOptions(inURL)...)
	if err != nil {
		return audio.Signal{}, audio.Signal{}, fmt.Errorf("input %s: %w", path.Base(inURL), err)
	}

	out, _, err := codec.Decode(ctx, outData, r.decodeOptions(job.Output)...)
	if err != nil {
		return audio.Signal{}, audio.Signal{}, fmt.Errorf("output %s: %w", path.Base(job.Output), err)
	}

	return in, out, nil
}

func (r *Runner) decodeOptions(url string) []codec.Option {
	var opts []codec.Option
	if strings.HasSuffix(strings.ToLower(url), ".pcm") {
		opts = append(opts, codec.WithRawFormat(codec.DefaultRawFormat()))
	}

	if r.cfg.MaxDuration > 0 {
		opts = append(opts, codec.WithMaxDuration(r.cfg.MaxDuration))
	}

	return opts
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	return id
}
