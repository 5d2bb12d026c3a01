package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-verify/audio"
)

const (
	wavFormatPCM   = 1
	wavFormatFloat = 3
)

func decodeWAV(data []byte) (audio.Signal, Info, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return audio.Signal{}, Info{}, fmt.Errorf("%w: invalid wav header", ErrDecode)
	}

	info := Info{
		Container:  "wav",
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		Float:      d.WavAudioFormat == wavFormatFloat,
	}

	if info.SampleRate <= 0 || info.Channels <= 0 {
		return audio.Signal{}, Info{}, fmt.Errorf("%w: %d Hz, %d channels", ErrDecode, info.SampleRate, info.Channels)
	}

	var (
		samples []float64
		err     error
	)

	if info.Float {
		samples, err = decodeFloatPCM(d, info.BitDepth)
	} else {
		samples, err = decodeIntPCM(d, info.BitDepth)
	}

	if err != nil {
		return audio.Signal{}, Info{}, err
	}

	samples = samples[:len(samples)-len(samples)%info.Channels]

	sig, err := audio.FromInterleaved(info.SampleRate, info.Channels, samples)
	if err != nil {
		return audio.Signal{}, Info{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	info.Frames = sig.Frames()

	return sig, info, nil
}

func decodeIntPCM(d *wav.Decoder, bitDepth int) ([]float64, error) {
	if bitDepth != 8 && bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrDecode, bitDepth)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	out := make([]float64, len(buf.Data))

	if bitDepth == 8 {
		// 8-bit WAV is unsigned with a 128 offset.
		for i, v := range buf.Data {
			out[i] = float64(v-128) / 128
		}

		return out, nil
	}

	scale := 1 / float64(int64(1)<<(bitDepth-1))
	for i, v := range buf.Data {
		out[i] = float64(v) * scale
	}

	return out, nil
}

func decodeFloatPCM(d *wav.Decoder, bitDepth int) ([]float64, error) {
	if bitDepth != 32 && bitDepth != 64 {
		return nil, fmt.Errorf("%w: unsupported float bit depth %d", ErrDecode, bitDepth)
	}

	if err := d.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	raw, err := io.ReadAll(io.LimitReader(d.PCMChunk, int64(d.PCMSize)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	width := bitDepth / 8
	out := make([]float64, len(raw)/width)

	for i := range out {
		b := raw[i*width:]
		if width == 4 {
			out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		} else {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(b))
		}
	}

	return out, nil
}

// EncodeWAV writes sig as integer PCM WAV with the given bit depth (8, 16,
// 24 or 32). Samples are clipped to [-1, 1].
func EncodeWAV(w io.WriteSeeker, sig audio.Signal, bitDepth int) error {
	if bitDepth != 8 && bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return fmt.Errorf("codec: unsupported bit depth %d", bitDepth)
	}

	if sig.NumChannels() == 0 {
		return fmt.Errorf("codec: signal has no channels")
	}

	interleaved := sig.Interleaved()
	data := make([]int, len(interleaved))

	peak := float64(int64(1)<<(bitDepth-1) - 1)
	for i, v := range interleaved {
		q := int(math.Round(math.Max(-1, math.Min(1, v)) * peak))
		if bitDepth == 8 {
			q += 128
		}

		data[i] = q
	}

	enc := wav.NewEncoder(w, sig.SampleRate(), bitDepth, sig.NumChannels(), wavFormatPCM)

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: sig.NumChannels(),
			SampleRate:  sig.SampleRate(),
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("codec: write wav: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("codec: close wav: %w", err)
	}

	return nil
}
