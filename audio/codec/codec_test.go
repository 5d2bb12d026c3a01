package codec

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-verify/audio"
)

func sine(freq float64, rate, frames int) []float64 {
	x := make([]float64, frames)
	for i := range x {
		x[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}

	return x
}

func writeFixture(t *testing.T, sig audio.Signal, bits int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.wav")

	f, err := os.Create(path)
	require.NoError(t, err)

	require.NoError(t, EncodeWAV(f, sig, bits))
	require.NoError(t, f.Close())

	return path
}

func TestWAVRoundTrip(t *testing.T) {
	left := sine(1000, 48000, 4800)
	right := sine(500, 48000, 4800)

	sig, err := audio.NewSignal(48000, left, right)
	require.NoError(t, err)

	for _, bits := range []int{16, 24, 32} {
		path := writeFixture(t, sig, bits)

		got, info, err := DecodeFile(context.Background(), path)
		require.NoError(t, err, "bits=%d", bits)

		assert.Equal(t, "wav", info.Container)
		assert.Equal(t, 48000, info.SampleRate)
		assert.Equal(t, 2, info.Channels)
		assert.Equal(t, bits, info.BitDepth)
		assert.False(t, info.Float)
		assert.Equal(t, 4800, info.Frames)
		assert.Equal(t, 100*time.Millisecond, info.Duration())

		eps := 1.5 / float64(int64(1)<<(bits-1))
		for c, want := range [][]float64{left, right} {
			ch := got.Channel(c)
			require.Len(t, ch, len(want))
			for i := range want {
				if math.Abs(ch[i]-want[i]) > eps {
					t.Fatalf("bits=%d ch=%d sample %d: got %g want %g", bits, c, i, ch[i], want[i])
				}
			}
		}
	}
}

func floatWAV(rate, channels int, samples []float32) []byte {
	var b bytes.Buffer

	dataLen := 4 * len(samples)
	le := binary.LittleEndian

	b.WriteString("RIFF")
	_ = binary.Write(&b, le, uint32(36+dataLen))
	b.WriteString("WAVEfmt ")
	_ = binary.Write(&b, le, uint32(16))
	_ = binary.Write(&b, le, uint16(3))
	_ = binary.Write(&b, le, uint16(channels))
	_ = binary.Write(&b, le, uint32(rate))
	_ = binary.Write(&b, le, uint32(rate*channels*4))
	_ = binary.Write(&b, le, uint16(channels*4))
	_ = binary.Write(&b, le, uint16(32))
	b.WriteString("data")
	_ = binary.Write(&b, le, uint32(dataLen))
	_ = binary.Write(&b, le, samples)

	return b.Bytes()
}

func TestDecodeFloatWAV(t *testing.T) {
	data := floatWAV(16000, 1, []float32{0, 0.5, -0.25, 1})

	sig, info, err := Decode(context.Background(), data)
	require.NoError(t, err)

	assert.True(t, info.Float)
	assert.Equal(t, 32, info.BitDepth)
	assert.Equal(t, []float64{0, 0.5, -0.25, 1}, sig.Channel(0))
}

func TestDecodeRaw(t *testing.T) {
	var b bytes.Buffer
	_ = binary.Write(&b, binary.LittleEndian, []int16{0, 16384, -16384, -32768})

	sig, info, err := Decode(context.Background(), b.Bytes(), WithRawFormat(DefaultRawFormat()))
	require.NoError(t, err)

	assert.Equal(t, "pcm", info.Container)
	assert.Equal(t, 16000, sig.SampleRate())
	assert.Equal(t, []float64{0, 0.5, -0.5, -1}, sig.Channel(0))

	_, _, err = Decode(context.Background(), []byte{1, 2, 3}, WithRawFormat(DefaultRawFormat()))
	require.ErrorIs(t, err, ErrDecode)
}

func TestDecodeRaw24(t *testing.T) {
	// -2 and +1 as 24-bit little endian.
	data := []byte{0xFE, 0xFF, 0xFF, 0x01, 0x00, 0x00}

	sig, _, err := Decode(context.Background(), data, WithRawFormat(RawFormat{SampleRate: 8000, Channels: 1, BitDepth: 24}))
	require.NoError(t, err)

	scale := float64(1 << 23)
	assert.Equal(t, []float64{-2 / scale, 1 / scale}, sig.Channel(0))
}

func TestDecodePCMFileExtension(t *testing.T) {
	var b bytes.Buffer
	_ = binary.Write(&b, binary.LittleEndian, []int16{100, -100, 200, -200})

	path := filepath.Join(t.TempDir(), "voice.pcm")
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o600))

	sig, info, err := DecodeFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 16000, info.SampleRate)
	assert.Equal(t, 4, sig.Frames())
}

func TestDecodeMalformed(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":     nil,
		"garbage":   []byte("not audio at all"),
		"truncated": []byte("RIFF\x00\x00\x00\x00WAVE"),
	} {
		_, _, err := Decode(context.Background(), data)
		assert.ErrorIs(t, err, ErrDecode, name)
	}

	_, _, err := DecodeFile(context.Background(), filepath.Join(t.TempDir(), "missing.wav"))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecodeOptions(t *testing.T) {
	left := sine(1000, 48000, 48000)
	right := make([]float64, len(left))

	sig, err := audio.NewSignal(48000, left, right)
	require.NoError(t, err)

	path := writeFixture(t, sig, 16)

	got, info, err := DecodeFile(context.Background(), path,
		WithMono(),
		WithMaxDuration(500*time.Millisecond),
		WithTargetRate(16000),
	)
	require.NoError(t, err)

	assert.Equal(t, 48000, info.SampleRate, "info describes the source")
	assert.Equal(t, 1, got.NumChannels())
	assert.Equal(t, 16000, got.SampleRate())
	assert.Equal(t, 8000, got.Frames())

	// Mono of a tone and silence halves the amplitude.
	peak := 0.0
	for _, v := range got.Channel(0)[1000:7000] {
		peak = math.Max(peak, math.Abs(v))
	}
	assert.InDelta(t, 0.25, peak, 0.01)
}

func TestSiblingBinary(t *testing.T) {
	assert.Equal(t, "ffprobe", siblingBinary("ffmpeg", "ffprobe"))
	assert.Equal(t, filepath.Join("/opt/ff", "ffprobe"), siblingBinary("/opt/ff/ffmpeg", "ffprobe"))
}

func TestFFmpegMissingBinary(t *testing.T) {
	_, _, err := Decode(context.Background(), []byte("ID3 not a wav"), WithFFmpeg(filepath.Join(t.TempDir(), "no-ffmpeg")))
	assert.ErrorIs(t, err, ErrDecode)
}
