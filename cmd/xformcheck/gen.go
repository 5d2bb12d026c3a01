package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cwbudde/algo-verify/audio"
	"github.com/cwbudde/algo-verify/audio/codec"
	"github.com/cwbudde/algo-verify/dsp/core"
	"github.com/cwbudde/algo-verify/dsp/signal"
)

type genFlags struct {
	rate      int
	bits      int
	channels  int
	freq      float64
	level     float64
	duration  time.Duration
	harmonics string
	noise     float64
	clicks    float64
	seed      int64
	dir       string
}

func runGen(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("gen", "[output.wav]", stderr)

	var g genFlags
	fs.IntVar(&g.rate, "rate", 48000, "sample rate in Hz")
	fs.IntVar(&g.bits, "bits", 16, "bit depth (8, 16, 24 or 32)")
	fs.IntVar(&g.channels, "channels", 1, "channel count")
	fs.Float64Var(&g.freq, "freq", 1000, "tone frequency in Hz")
	fs.Float64Var(&g.level, "level", 0, "tone level in dBFS")
	fs.DurationVar(&g.duration, "duration", 10*time.Second, "fixture length")
	fs.StringVar(&g.harmonics, "harmonics", "", "comma-separated amplitudes of harmonics 2, 3, ... relative to the tone")
	fs.Float64Var(&g.noise, "noise", 0, "white noise peak amplitude (0 = none)")
	fs.Float64Var(&g.clicks, "clicks", 0, "click train rate in Hz (0 = none)")
	fs.Int64Var(&g.seed, "seed", 1, "noise seed")
	fs.StringVar(&g.dir, "dir", "", "write into this directory using the dataset file naming")

	if err := fs.Parse(args); err != nil {
		return usageCode(err)
	}

	var path string

	switch {
	case fs.NArg() == 1 && g.dir == "":
		path = fs.Arg(0)
	case fs.NArg() == 0 && g.dir != "":
		path = filepath.Join(g.dir, g.datasetName())
	default:
		fmt.Fprintf(stderr, "error: give either an output file or -dir\n")
		fs.Usage()

		return exitUsage
	}

	sig, err := g.generate()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	if err := writeWAV(path, sig, g.bits); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFail
	}

	fmt.Fprintf(stdout, "wrote %s (%s, %d-bit)\n", path, sig, g.bits)

	return exitPass
}

func (g genFlags) generate() (audio.Signal, error) {
	if g.channels < 1 {
		return audio.Signal{}, fmt.Errorf("channels must be >= 1, got %d", g.channels)
	}

	frames := int(math.Round(g.duration.Seconds() * float64(g.rate)))
	gen := signal.NewGenerator(float64(g.rate), signal.WithSeed(g.seed))

	amp := core.DBToLinear(g.level)
	amps := []float64{amp}

	for _, f := range splitFloats(g.harmonics) {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return audio.Signal{}, fmt.Errorf("-harmonics: %w", err)
		}

		amps = append(amps, v*amp)
	}

	x, err := gen.Harmonics(g.freq, amps, frames)
	if err != nil {
		return audio.Signal{}, err
	}

	if g.noise > 0 {
		n, err := gen.WhiteNoise(g.noise, frames)
		if err != nil {
			return audio.Signal{}, err
		}

		signal.Mix(x, n, 1)
	}

	if g.clicks > 0 {
		c, err := gen.ClickTrain(g.clicks, amp, frames)
		if err != nil {
			return audio.Signal{}, err
		}

		signal.Mix(x, c, 1)
	}

	signal.Clip(x, -1, 1)

	channels := make([][]float64, g.channels)
	for i := range channels {
		channels[i] = x
	}

	return audio.NewSignal(g.rate, channels...)
}

// datasetName follows the sine{freq}{level}dB_{rate}_{channels}_{bits}_{seconds}.wav
// naming of the rate-conversion test set, e.g. sine1kHz0dB_48000_1_16_10.wav.
func (g genFlags) datasetName() string {
	freq := strconv.FormatFloat(g.freq, 'g', -1, 64) + "Hz"
	if g.freq >= 1000 && math.Mod(g.freq, 1000) == 0 {
		freq = strconv.FormatFloat(g.freq/1000, 'g', -1, 64) + "kHz"
	}

	return fmt.Sprintf("sine%s%sdB_%d_%d_%d_%s.wav",
		freq,
		strconv.FormatFloat(math.Round(g.level), 'g', -1, 64),
		g.rate, g.channels, g.bits,
		strconv.FormatFloat(g.duration.Seconds(), 'g', -1, 64))
}

func writeWAV(path string, sig audio.Signal, bits int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := codec.EncodeWAV(f, sig, bits); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}

	return f.Close()
}

func splitFloats(s string) []string {
	var out []string

	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
