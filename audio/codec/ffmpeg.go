package codec

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"

	"github.com/cwbudde/algo-verify/audio"
)

type probeInfo struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

func decodeFFmpeg(ctx context.Context, data []byte, o options) (audio.Signal, Info, error) {
	tmp, err := os.CreateTemp("", "xformcheck-*.bin")
	if err != nil {
		return audio.Signal{}, Info{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return audio.Signal{}, Info{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if err := tmp.Close(); err != nil {
		return audio.Signal{}, Info{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	probe, err := ffprobe(ctx, o.ffprobe, tmp.Name())
	if err != nil {
		return audio.Signal{}, Info{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	args := []string{"-hide_banner", "-nostats", "-v", "error", "-i", tmp.Name(), "-vn", "-f", "f32le", "-acodec", "pcm_f32le", "pipe:1"}

	pcm, err := runCmd(ctx, o.ffmpeg, args...)
	if err != nil {
		return audio.Signal{}, Info{}, fmt.Errorf("%w: ffmpeg: %w", ErrDecode, err)
	}

	samples := make([]float64, len(pcm)/4)
	for i := range samples {
		samples[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(pcm[i*4:])))
	}

	samples = samples[:len(samples)-len(samples)%probe.Channels]

	sig, err := audio.FromInterleaved(probe.SampleRate, probe.Channels, samples)
	if err != nil {
		return audio.Signal{}, Info{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return sig, Info{
		Container:  "ffmpeg",
		SampleRate: probe.SampleRate,
		Channels:   probe.Channels,
		BitDepth:   probe.BitDepth,
		Frames:     sig.Frames(),
	}, nil
}

func ffprobe(ctx context.Context, bin, path string) (probeInfo, error) {
	out, err := runCmd(ctx, bin, "-v", "error", "-show_streams", "-select_streams", "a:0", "-of", "json", path)
	if err != nil {
		return probeInfo{}, fmt.Errorf("ffprobe: %w", err)
	}

	var ff struct {
		Streams []struct {
			SampleRate       string `json:"sample_rate"`
			Channels         int    `json:"channels"`
			BitsPerSample    int    `json:"bits_per_sample"`
			BitsPerRawSample string `json:"bits_per_raw_sample"`
		} `json:"streams"`
	}

	if err := json.Unmarshal(out, &ff); err != nil {
		return probeInfo{}, fmt.Errorf("ffprobe: %w", err)
	}

	if len(ff.Streams) == 0 {
		return probeInfo{}, fmt.Errorf("ffprobe: no audio stream")
	}

	s := ff.Streams[0]

	rate, err := strconv.Atoi(s.SampleRate)
	if err != nil || rate <= 0 || s.Channels <= 0 {
		return probeInfo{}, fmt.Errorf("ffprobe: invalid stream %q Hz, %d channels", s.SampleRate, s.Channels)
	}

	p := probeInfo{SampleRate: rate, Channels: s.Channels, BitDepth: s.BitsPerSample}
	if p.BitDepth == 0 {
		p.BitDepth, _ = strconv.Atoi(s.BitsPerRawSample)
	}

	return p, nil
}

func runCmd(ctx context.Context, bin string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}

		return nil, err
	}

	return stdout.Bytes(), nil
}
