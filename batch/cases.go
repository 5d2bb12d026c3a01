package batch

import (
	"fmt"
	"path"
	"strings"

	"github.com/cwbudde/algo-verify/verify"
)

// Job is one verification case with the URLs of its signals. Inputs lists
// candidate input URLs tried in order.
type Job struct {
	Case   verify.Case
	Inputs []string
	Output string
}

// RateJobs enumerates source rate x bit depth x destination rate.
func RateJobs(cfg Config) []Job {
	var jobs []Job

	for _, src := range cfg.Rates {
		for _, bits := range cfg.BitDepths {
			input := fmt.Sprintf("%s/sine1kHz0dB_%d_1_%d_10.wav", cfg.RateSourceURL, src, bits)

			for _, dst := range cfg.Rates {
				if cfg.DestRate != 0 && dst != cfg.DestRate {
					continue
				}

				jobs = append(jobs, Job{
					Case:   verify.RateConversion{SourceRate: src, DestinationRate: dst, BitDepth: bits},
					Inputs: []string{input},
					Output: fmt.Sprintf("%s/%d/sine1kHz0dB_%d_to_%d_1_%d_10.wav", cfg.RateDestURL, bits, src, dst, bits),
				})
			}
		}
	}

	return jobs
}

// TempoJobs enumerates base name x combination x bit depth. A base name
// with an extension is fetched as is; otherwise .wav then .pcm are tried.
func TempoJobs(cfg Config) []Job {
	var jobs []Job

	for _, base := range cfg.BaseNames {
		if cfg.BasePrefix != "" && !strings.HasPrefix(base, cfg.BasePrefix) {
			continue
		}

		stem, inputs := tempoInputs(cfg.TempoSourceURL, base)

		for _, sp := range cfg.Combinations {
			for _, bits := range cfg.BitDepths {
				name := fmt.Sprintf("%s_speed_%.2f_pitch_%.2f_bits_%d.wav", stem, sp.Speed, sp.Pitch, bits)

				jobs = append(jobs, Job{
					Case:   verify.TempoPitch{BaseName: stem, Speed: sp.Speed, Pitch: sp.Pitch, BitDepth: bits},
					Inputs: inputs,
					Output: cfg.TempoDestURL + "/" + name,
				})
			}
		}
	}

	return jobs
}

func tempoInputs(baseURL, base string) (string, []string) {
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	if ext != "" {
		return stem, []string{baseURL + "/" + base}
	}

	return stem, []string{baseURL + "/" + stem + ".wav", baseURL + "/" + stem + ".pcm"}
}
