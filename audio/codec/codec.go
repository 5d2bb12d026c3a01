// Package codec decodes audio files into [audio.Signal] values.
//
// WAV files (PCM 8/16/24/32-bit and IEEE float 32/64-bit) are decoded with
// go-audio/wav. Headerless .pcm files are read as little-endian signed
// integers in a caller-supplied [RawFormat]. Other containers are handed to
// ffmpeg when a binary is configured with [WithFFmpeg].
package codec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cwbudde/algo-verify/audio"
	"github.com/cwbudde/algo-verify/dsp/resample"
)

// ErrDecode is wrapped by every decoding failure.
var ErrDecode = errors.New("codec: decode failed")

// Info describes the decoded source before any conversion.
type Info struct {
	Container  string
	SampleRate int
	Channels   int
	BitDepth   int
	Float      bool
	Frames     int
}

// Duration returns the source playing time.
func (i Info) Duration() time.Duration {
	if i.SampleRate <= 0 {
		return 0
	}

	return time.Duration(float64(i.Frames) / float64(i.SampleRate) * float64(time.Second))
}

// Option configures decoding.
type Option func(*options)

type options struct {
	targetRate  int
	mono        bool
	maxDuration time.Duration
	raw         *RawFormat
	ffmpeg      string
	ffprobe     string
	quality     resample.Quality
}

// WithTargetRate resamples the decoded signal to hz.
func WithTargetRate(hz int) Option {
	return func(o *options) { o.targetRate = hz }
}

// WithMono averages all channels into one.
func WithMono() Option {
	return func(o *options) { o.mono = true }
}

// WithMaxDuration keeps at most d of audio from the start.
func WithMaxDuration(d time.Duration) Option {
	return func(o *options) { o.maxDuration = d }
}

// WithRawFormat decodes headerless input in format f.
func WithRawFormat(f RawFormat) Option {
	return func(o *options) { o.raw = &f }
}

// WithFFmpeg enables the ffmpeg fallback for non-WAV input. ffprobe is
// looked up next to the ffmpeg binary.
func WithFFmpeg(bin string) Option {
	return func(o *options) {
		o.ffmpeg = bin
		o.ffprobe = siblingBinary(bin, "ffprobe")
	}
}

// WithResampleQuality selects the resampler quality for WithTargetRate.
func WithResampleQuality(q resample.Quality) Option {
	return func(o *options) { o.quality = q }
}

func applyOptions(opts []Option) options {
	o := options{quality: resample.QualityBest}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Decode decodes data. WAV is recognized by its RIFF/WAVE header; anything
// else needs WithRawFormat or WithFFmpeg.
func Decode(ctx context.Context, data []byte, opts ...Option) (audio.Signal, Info, error) {
	o := applyOptions(opts)

	var (
		sig  audio.Signal
		info Info
		err  error
	)

	switch {
	case isWAV(data):
		sig, info, err = decodeWAV(data)
	case o.raw != nil:
		sig, info, err = decodeRaw(data, *o.raw)
	case o.ffmpeg != "":
		sig, info, err = decodeFFmpeg(ctx, data, o)
	default:
		err = fmt.Errorf("%w: unrecognized container", ErrDecode)
	}

	if err != nil {
		return audio.Signal{}, Info{}, err
	}

	if sig.IsEmpty() {
		return audio.Signal{}, Info{}, fmt.Errorf("%w: no audio frames", ErrDecode)
	}

	sig, err = postProcess(sig, o)
	if err != nil {
		return audio.Signal{}, Info{}, err
	}

	return sig, info, nil
}

// DecodeFile reads and decodes path. Files with a .pcm extension default to
// [DefaultRawFormat] unless WithRawFormat is given.
func DecodeFile(ctx context.Context, path string, opts ...Option) (audio.Signal, Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return audio.Signal{}, Info{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".pcm") {
		opts = append([]Option{WithRawFormat(DefaultRawFormat())}, opts...)
	}

	sig, info, err := Decode(ctx, data, opts...)
	if err != nil {
		return audio.Signal{}, Info{}, fmt.Errorf("%s: %w", path, err)
	}

	return sig, info, nil
}

func postProcess(sig audio.Signal, o options) (audio.Signal, error) {
	if o.maxDuration > 0 {
		frames := int(o.maxDuration.Seconds() * float64(sig.SampleRate()))
		sig = sig.Truncate(frames)
	}

	if o.mono && sig.NumChannels() > 1 {
		m, err := audio.NewSignal(sig.SampleRate(), sig.Mono())
		if err != nil {
			return audio.Signal{}, fmt.Errorf("%w: %w", ErrDecode, err)
		}

		sig = m
	}

	if o.targetRate > 0 && o.targetRate != sig.SampleRate() {
		channels := make([][]float64, sig.NumChannels())
		for c := range channels {
			y, err := resample.ConvertRate(sig.Channel(c), sig.SampleRate(), o.targetRate, resample.WithQuality(o.quality))
			if err != nil {
				return audio.Signal{}, fmt.Errorf("%w: resample: %w", ErrDecode, err)
			}

			channels[c] = y
		}

		out, err := audio.NewSignal(o.targetRate, channels...)
		if err != nil {
			return audio.Signal{}, fmt.Errorf("%w: %w", ErrDecode, err)
		}

		sig = out
	}

	return sig, nil
}

func isWAV(data []byte) bool {
	return len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE"))
}

func siblingBinary(bin, name string) string {
	dir := filepath.Dir(bin)
	if dir == "." && !strings.ContainsRune(bin, filepath.Separator) {
		return name
	}

	return filepath.Join(dir, name)
}
