package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// SpeedPitch is one tempo/pitch combination.
type SpeedPitch struct {
	Speed float64
	Pitch float64
}

// Config describes a batch run.
type Config struct {
	// RateSourceURL serves sine1kHz0dB_{rate}_1_{bits}_10.wav inputs.
	RateSourceURL string
	// RateDestURL serves {bits}/sine1kHz0dB_{src}_to_{dst}_1_{bits}_10.wav outputs.
	RateDestURL string
	// TempoSourceURL serves {base}.wav or {base}.pcm inputs.
	TempoSourceURL string
	// TempoDestURL serves {base}_speed_{s}_pitch_{p}_bits_{bits}.wav outputs.
	TempoDestURL string

	Rates        []int
	BitDepths    []int
	BaseNames    []string
	Combinations []SpeedPitch

	// DestRate restricts rate cases to one destination rate when non-zero.
	DestRate int
	// BasePrefix restricts tempo cases to base names with this prefix.
	BasePrefix string

	Concurrency int
	// CaseTimeout bounds one case from download through verification; a
	// case that runs out of time is recorded as not run.
	CaseTimeout time.Duration
	// MaxDuration limits the decoded length of every file when non-zero.
	MaxDuration time.Duration
}

// DefaultConfig returns the standard test matrix served from localhost.
func DefaultConfig() Config {
	return Config{
		RateSourceURL:  "http://localhost:8080/audio_files/audio_test_dataset/sine",
		RateDestURL:    "http://localhost:8080/upload/ae_test/rate_cvt_test",
		TempoSourceURL: "http://localhost:8080/audio_files/audio_test_dataset/voice",
		TempoDestURL:   "http://localhost:8080/upload/ae_test/sonic_test",
		Rates:          []int{8000, 11025, 12000, 16000, 22050, 24000, 32000, 44100, 48000, 64000, 88200, 96000},
		BitDepths:      []int{16, 24, 32},
		BaseNames: []string{
			"manch_48000_1_16_10",
			"manen_48000_1_16_10",
			"manloud_48000_1_16_10",
			"womanch_16000_1_16_6",
			"womanen_48000_1_16_10",
			"womanloud_48000_1_16_10",
		},
		Combinations: []SpeedPitch{
			{0.5, 1}, {1, 0.5}, {1, 2}, {2, 1}, {0.75, 1.25}, {1.25, 0.75},
		},
		Concurrency: 4,
		CaseTimeout: 2 * time.Minute,
	}
}

// LoadConfig returns DefaultConfig overridden by XFORMCHECK_* environment
// variables. Variables from envFile are loaded first when the file exists;
// variables already set in the environment win.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("batch: load %s: %w", envFile, err)
		}
	}

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ApplyEnv overrides fields from variables returned by getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = strings.TrimRight(v, "/")
		}
	}

	setString("XFORMCHECK_RATE_SOURCE_URL", &c.RateSourceURL)
	setString("XFORMCHECK_RATE_DEST_URL", &c.RateDestURL)
	setString("XFORMCHECK_TEMPO_SOURCE_URL", &c.TempoSourceURL)
	setString("XFORMCHECK_TEMPO_DEST_URL", &c.TempoDestURL)

	if v := getenv("XFORMCHECK_RATES"); v != "" {
		rates, err := ParseInts(v)
		if err != nil {
			return fmt.Errorf("batch: XFORMCHECK_RATES: %w", err)
		}

		c.Rates = rates
	}

	if v := getenv("XFORMCHECK_BITS"); v != "" {
		bits, err := ParseInts(v)
		if err != nil {
			return fmt.Errorf("batch: XFORMCHECK_BITS: %w", err)
		}

		c.BitDepths = bits
	}

	if v := getenv("XFORMCHECK_BASE_NAMES"); v != "" {
		c.BaseNames = splitList(v)
	}

	if v := getenv("XFORMCHECK_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("batch: XFORMCHECK_CONCURRENCY: %w", err)
		}

		c.Concurrency = n
	}

	for key, dst := range map[string]*time.Duration{
		"XFORMCHECK_CASE_TIMEOUT": &c.CaseTimeout,
		"XFORMCHECK_MAX_DURATION": &c.MaxDuration,
	} {
		if v := getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("batch: %s: %w", key, err)
			}

			*dst = d
		}
	}

	return c.Validate()
}

// Validate checks that the matrix can be enumerated.
func (c Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("batch: concurrency must be >= 1, got %d", c.Concurrency)
	}

	for _, r := range c.Rates {
		if r <= 0 {
			return fmt.Errorf("batch: invalid rate %d", r)
		}
	}

	for _, b := range c.BitDepths {
		if b <= 0 {
			return fmt.Errorf("batch: invalid bit depth %d", b)
		}
	}

	for _, sp := range c.Combinations {
		if !(sp.Speed > 0 && sp.Pitch > 0) {
			return fmt.Errorf("batch: invalid combination %+v", sp)
		}
	}

	return nil
}

// ParseInts parses a comma-separated list of integers.
func ParseInts(s string) ([]int, error) {
	parts := splitList(s)
	out := make([]int, 0, len(parts))

	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}

		out = append(out, n)
	}

	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
