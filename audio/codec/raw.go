package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/cwbudde/algo-verify/audio"
)

// RawFormat describes headerless little-endian signed integer PCM.
type RawFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// DefaultRawFormat returns 16 kHz mono 16-bit, the layout of the .pcm
// fixtures.
func DefaultRawFormat() RawFormat {
	return RawFormat{SampleRate: 16000, Channels: 1, BitDepth: 16}
}

func decodeRaw(data []byte, f RawFormat) (audio.Signal, Info, error) {
	if f.SampleRate <= 0 || f.Channels <= 0 {
		return audio.Signal{}, Info{}, fmt.Errorf("%w: raw format %+v", ErrDecode, f)
	}

	width := f.BitDepth / 8
	if f.BitDepth%8 != 0 || width < 1 || width > 4 {
		return audio.Signal{}, Info{}, fmt.Errorf("%w: unsupported raw bit depth %d", ErrDecode, f.BitDepth)
	}

	frame := width * f.Channels
	if len(data)%frame != 0 {
		return audio.Signal{}, Info{}, fmt.Errorf("%w: %d bytes is not a whole number of %d-byte frames", ErrDecode, len(data), frame)
	}

	scale := 1 / float64(int64(1)<<(f.BitDepth-1))
	samples := make([]float64, len(data)/width)

	for i := range samples {
		b := data[i*width:]

		var v int32
		switch width {
		case 1:
			v = int32(int8(b[0]))
		case 2:
			v = int32(int16(binary.LittleEndian.Uint16(b)))
		case 3:
			v = int32(uint32(b[0])|uint32(b[1])<<8|uint32(b[2])<<16) << 8 >> 8
		case 4:
			v = int32(binary.LittleEndian.Uint32(b))
		}

		samples[i] = float64(v) * scale
	}

	sig, err := audio.FromInterleaved(f.SampleRate, f.Channels, samples)
	if err != nil {
		return audio.Signal{}, Info{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return sig, Info{
		Container:  "pcm",
		SampleRate: f.SampleRate,
		Channels:   f.Channels,
		BitDepth:   f.BitDepth,
		Frames:     sig.Frames(),
	}, nil
}
