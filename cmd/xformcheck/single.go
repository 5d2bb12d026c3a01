package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cwbudde/algo-verify/audio"
	"github.com/cwbudde/algo-verify/audio/codec"
	"github.com/cwbudde/algo-verify/report"
	stime "github.com/cwbudde/algo-verify/stats/time"
	"github.com/cwbudde/algo-verify/verify"
)

var errUsage = errors.New("usage")

// decodeFlags are the input flags shared by the single-case commands.
type decodeFlags struct {
	duration    time.Duration
	ffmpeg      string
	rawRate     int
	rawChannels int
	rawBits     int
}

func (d *decodeFlags) register(fs *flag.FlagSet) {
	raw := codec.DefaultRawFormat()
	fs.DurationVar(&d.duration, "duration", 0, "analyse at most this much of each file (0 = all)")
	fs.StringVar(&d.ffmpeg, "ffmpeg", "", "ffmpeg binary used for non-WAV containers")
	fs.IntVar(&d.rawRate, "raw-rate", raw.SampleRate, "sample rate of headerless .pcm files")
	fs.IntVar(&d.rawChannels, "raw-channels", raw.Channels, "channel count of headerless .pcm files")
	fs.IntVar(&d.rawBits, "raw-bits", raw.BitDepth, "bit depth of headerless .pcm files")
}

// options returns the decode options for path. The raw format only applies
// to .pcm files so other containers still reach the ffmpeg fallback. A
// non-zero rate is the sample rate of a .pcm file; files with a header are
// resampled to it.
func (d *decodeFlags) options(path string, rate int) []codec.Option {
	var opts []codec.Option

	if strings.EqualFold(filepath.Ext(path), ".pcm") {
		raw := d.rawRate
		if rate > 0 {
			raw = rate
		}

		opts = append(opts, codec.WithRawFormat(codec.RawFormat{
			SampleRate: raw,
			Channels:   d.rawChannels,
			BitDepth:   d.rawBits,
		}))
	}

	if rate > 0 {
		opts = append(opts, codec.WithTargetRate(rate))
	}

	if d.duration > 0 {
		opts = append(opts, codec.WithMaxDuration(d.duration))
	}

	if d.ffmpeg != "" {
		opts = append(opts, codec.WithFFmpeg(d.ffmpeg))
	}

	return opts
}

func (d *decodeFlags) load(ctx context.Context, path string, rate int) (audio.Signal, codec.Info, error) {
	return codec.DecodeFile(ctx, path, d.options(path, rate)...)
}

func newFlagSet(name, args string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: xformcheck %s [flags] %s\n\nFlags:\n", name, args)
		fs.PrintDefaults()
	}

	return fs
}

// parse parses args and requires exactly n positional arguments.
func parse(fs *flag.FlagSet, args []string, n int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, flag.ErrHelp
		}

		return nil, errUsage
	}

	if fs.NArg() != n {
		fmt.Fprintf(fs.Output(), "error: expected %d arguments, got %d\n", n, fs.NArg())
		fs.Usage()

		return nil, errUsage
	}

	return fs.Args(), nil
}

func usageCode(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return exitPass
	}

	return exitUsage
}

func rateTolerance(stderr io.Writer, data string) verify.RateTolerance {
	t, err := verify.ParseTolerance([]byte(data), verify.DefaultRateTolerance())
	if err != nil {
		fmt.Fprintf(stderr, "warning: ignoring tolerance, using defaults: %v\n", err)
		return verify.DefaultRateTolerance()
	}

	return t
}

func tempoTolerance(stderr io.Writer, data string) verify.TempoTolerance {
	t, err := verify.ParseTolerance([]byte(data), verify.DefaultTempoTolerance())
	if err != nil {
		fmt.Fprintf(stderr, "warning: ignoring tolerance, using defaults: %v\n", err)
		return verify.DefaultTempoTolerance()
	}

	return t
}

func runRate(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("rate", "input output", stderr)

	var dec decodeFlags
	dec.register(fs)

	bits := fs.Int("bits", 0, "bit depth recorded in the case key (default: output file bit depth)")
	tol := fs.String("tolerance", "", `JSON tolerance overrides, e.g. '{"thd_max_db": -60}'`)
	target := fs.Float64("target", 1000, "test tone frequency in Hz")
	srcRate := fs.Int("src-rate", 0, "input sample rate (default: input header, or -raw-rate for .pcm)")
	destRate := fs.Int("dest-rate", 0, "output sample rate (default: output header, or -raw-rate for .pcm)")

	paths, err := parse(fs, args, 2)
	if err != nil {
		return usageCode(err)
	}

	if *srcRate < 0 || *destRate < 0 {
		fmt.Fprintln(stderr, "error: -src-rate and -dest-rate must not be negative")
		return exitUsage
	}

	in, inInfo, err := dec.load(ctx, paths[0], *srcRate)
	if err != nil {
		fmt.Fprintf(stderr, "error: input: %v\n", err)
		return exitFail
	}

	out, outInfo, err := dec.load(ctx, paths[1], *destRate)
	if err != nil {
		fmt.Fprintf(stderr, "error: output: %v\n", err)
		return exitFail
	}

	conv := verify.RateConversion{
		SourceRate:      in.SampleRate(),
		DestinationRate: out.SampleRate(),
		BitDepth:        *bits,
	}
	if conv.BitDepth == 0 {
		conv.BitDepth = outInfo.BitDepth
	}

	v := verify.NewVerifier(
		verify.WithRateTolerance(rateTolerance(stderr, *tol)),
		verify.WithTargetFreq(*target),
	)

	rec, err := v.VerifyRateConversion(in, out, conv)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	return printResult(stdout, rec, level{"input", in, inInfo}, level{"output", out, outInfo})
}

func runTempo(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("tempo", "input output", stderr)

	var dec decodeFlags
	dec.register(fs)

	speed := fs.Float64("speed", 1, "speed ratio applied by the transform")
	pitch := fs.Float64("pitch", 1, "pitch ratio applied by the transform")
	base := fs.String("base", "", "base name recorded in the case key (default: input file name)")
	bits := fs.Int("bits", 0, "bit depth recorded in the case key (default: output file bit depth)")
	tol := fs.String("tolerance", "", `JSON tolerance overrides, e.g. '{"f0_error_max_percent": 10}'`)

	paths, err := parse(fs, args, 2)
	if err != nil {
		return usageCode(err)
	}

	in, inInfo, err := dec.load(ctx, paths[0], 0)
	if err != nil {
		fmt.Fprintf(stderr, "error: input: %v\n", err)
		return exitFail
	}

	out, outInfo, err := dec.load(ctx, paths[1], 0)
	if err != nil {
		fmt.Fprintf(stderr, "error: output: %v\n", err)
		return exitFail
	}

	conv := verify.TempoPitch{BaseName: *base, Speed: *speed, Pitch: *pitch, BitDepth: *bits}
	if conv.BaseName == "" {
		conv.BaseName = strings.TrimSuffix(filepath.Base(paths[0]), filepath.Ext(paths[0]))
	}

	if conv.BitDepth == 0 {
		conv.BitDepth = outInfo.BitDepth
	}

	v := verify.NewVerifier(verify.WithTempoTolerance(tempoTolerance(stderr, *tol)))

	rec, err := v.VerifyTempoPitch(in, out, conv)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	return printResult(stdout, rec, level{"input", in, inInfo}, level{"output", out, outInfo})
}

type level struct {
	label string
	sig   audio.Signal
	info  codec.Info
}

func printResult(w io.Writer, rec verify.Record, levels ...level) int {
	for _, l := range levels {
		s := stime.Calculate(l.sig.Mono())
		fmt.Fprintf(w, "%-6s %s, %s %d-bit, peak %s dBFS, rms %s dBFS\n",
			l.label+":", l.sig, l.info.Container, l.info.BitDepth,
			report.FormatValue(s.Peak_dB), report.FormatValue(s.RMS_dB))
	}

	fmt.Fprintln(w)

	if err := report.WriteRecord(w, rec, marker(w)); err != nil {
		return exitFail
	}

	if rec.OverallPass {
		return exitPass
	}

	return exitFail
}
