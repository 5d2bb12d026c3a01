// Command xformcheck verifies audio produced by a sample-rate converter or a
// tempo/pitch processor against its input.
//
// Usage:
//
//	xformcheck rate  [flags] input output
//	xformcheck tempo [flags] input output
//	xformcheck batch [flags]
//	xformcheck gen   [flags] output.wav
//
// A single-case run prints a per-metric breakdown and exits 0 when every
// metric passes, 1 on a failed verdict or unreadable input and 2 on usage
// errors.
//
// Examples:
//
//	xformcheck rate in_48k.wav out_44k1.wav
//	xformcheck rate -tolerance '{"snr_min_db": 30}' in.wav out.wav
//	xformcheck rate -src-rate 48000 -dest-rate 44100 in.pcm out.pcm
//	xformcheck tempo -speed 2 -pitch 1 voice.wav voice_fast.wav
//	xformcheck batch -bits 16 -rate 44100 -xlsx report.xlsx
//	xformcheck gen -rate 48000 -bits 24 -dir fixtures
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
)

const (
	exitPass  = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}

	switch args[0] {
	case "rate":
		return runRate(ctx, args[1:], stdout, stderr)
	case "tempo":
		return runTempo(ctx, args[1:], stdout, stderr)
	case "batch":
		return runBatch(ctx, args[1:], stdout, stderr)
	case "gen":
		return runGen(args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		usage(stdout)
		return exitPass
	default:
		fmt.Fprintf(stderr, "error: unknown command %q\n\n", args[0])
		usage(stderr)

		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: xformcheck <command> [flags] [args]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	fmt.Fprintf(w, "  rate   verify a sample-rate conversion (input output)\n")
	fmt.Fprintf(w, "  tempo  verify a tempo/pitch change (input output)\n")
	fmt.Fprintf(w, "  batch  verify the remote test matrix and write a report\n")
	fmt.Fprintf(w, "  gen    write a sine test fixture\n")
	fmt.Fprintf(w, "\nRun 'xformcheck <command> -h' for command flags.\n")
}
