// Package audio holds decoded multi-channel signals.
package audio

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSignal is returned for a non-positive rate, no channels or
// channels of unequal length.
var ErrInvalidSignal = errors.New("audio: invalid signal")

// Signal is an immutable multi-channel signal with float64 samples in the
// nominal range [-1, 1]. The zero value is an empty signal with no channels.
type Signal struct {
	rate     int
	channels [][]float64
}

// NewSignal copies the given channels into a new Signal. All channels must
// have the same length; zero-length channels are allowed.
func NewSignal(sampleRate int, channels ...[]float64) (Signal, error) {
	if sampleRate <= 0 {
		return Signal{}, fmt.Errorf("%w: sample rate %d", ErrInvalidSignal, sampleRate)
	}

	if len(channels) == 0 {
		return Signal{}, fmt.Errorf("%w: no channels", ErrInvalidSignal)
	}

	frames := len(channels[0])
	owned := make([][]float64, len(channels))

	for i, ch := range channels {
		if len(ch) != frames {
			return Signal{}, fmt.Errorf("%w: channel %d has %d frames, want %d", ErrInvalidSignal, i, len(ch), frames)
		}

		owned[i] = append([]float64(nil), ch...)
	}

	return Signal{rate: sampleRate, channels: owned}, nil
}

// FromInterleaved splits interleaved frames into channels.
func FromInterleaved(sampleRate, numChannels int, data []float64) (Signal, error) {
	if numChannels <= 0 {
		return Signal{}, fmt.Errorf("%w: %d channels", ErrInvalidSignal, numChannels)
	}

	if len(data)%numChannels != 0 {
		return Signal{}, fmt.Errorf("%w: %d samples do not split into %d channels", ErrInvalidSignal, len(data), numChannels)
	}

	if sampleRate <= 0 {
		return Signal{}, fmt.Errorf("%w: sample rate %d", ErrInvalidSignal, sampleRate)
	}

	frames := len(data) / numChannels
	channels := make([][]float64, numChannels)

	for c := range channels {
		ch := make([]float64, frames)
		for i := range ch {
			ch[i] = data[i*numChannels+c]
		}

		channels[c] = ch
	}

	return Signal{rate: sampleRate, channels: channels}, nil
}

// SampleRate returns the sample rate in Hz.
func (s Signal) SampleRate() int { return s.rate }

// NumChannels returns the channel count.
func (s Signal) NumChannels() int { return len(s.channels) }

// Frames returns the number of samples per channel.
func (s Signal) Frames() int {
	if len(s.channels) == 0 {
		return 0
	}

	return len(s.channels[0])
}

// IsEmpty reports whether the signal has no frames.
func (s Signal) IsEmpty() bool { return s.Frames() == 0 }

// Duration returns the playing time.
func (s Signal) Duration() time.Duration {
	if s.rate <= 0 {
		return 0
	}

	return time.Duration(float64(s.Frames()) / float64(s.rate) * float64(time.Second))
}

// Channel returns a copy of channel i.
func (s Signal) Channel(i int) []float64 {
	if i < 0 || i >= len(s.channels) {
		return nil
	}

	return append([]float64(nil), s.channels[i]...)
}

// Mono returns the average of all channels as a new slice.
func (s Signal) Mono() []float64 {
	if len(s.channels) == 1 {
		return s.Channel(0)
	}

	out := make([]float64, s.Frames())
	if len(s.channels) == 0 {
		return out
	}

	for _, ch := range s.channels {
		for i, v := range ch {
			out[i] += v
		}
	}

	scale := 1 / float64(len(s.channels))
	for i := range out {
		out[i] *= scale
	}

	return out
}

// Interleaved returns the frames interleaved channel by channel.
func (s Signal) Interleaved() []float64 {
	nc := len(s.channels)
	out := make([]float64, s.Frames()*nc)

	for c, ch := range s.channels {
		for i, v := range ch {
			out[i*nc+c] = v
		}
	}

	return out
}

// Truncate returns a signal holding at most the first frames frames.
func (s Signal) Truncate(frames int) Signal {
	if frames < 0 || frames >= s.Frames() {
		return s
	}

	channels := make([][]float64, len(s.channels))
	for c, ch := range s.channels {
		channels[c] = append([]float64(nil), ch[:frames]...)
	}

	return Signal{rate: s.rate, channels: channels}
}

// WithChannels returns a signal at the same rate built from new channel
// data, used by processing stages that change samples but not the rate.
func (s Signal) WithChannels(channels ...[]float64) (Signal, error) {
	return NewSignal(s.rate, channels...)
}

// String implements fmt.Stringer.
func (s Signal) String() string {
	return fmt.Sprintf("%d Hz, %d ch, %d frames", s.rate, len(s.channels), s.Frames())
}
